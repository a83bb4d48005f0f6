// Package normalize implements the text normalizer (L1): ligature
// expansion, hyphenation repair, title fingerprinting and query-word
// extraction used throughout extraction and validation.
package normalize

import "strings"

// ligatureReplacer expands the Unicode presentation-form ligatures PDF text
// extraction commonly leaves behind.
var ligatureReplacer = strings.NewReplacer(
	"ﬀ", "ff", // ﬀ
	"ﬁ", "fi", // ﬁ
	"ﬂ", "fl", // ﬂ
	"ﬃ", "ffi", // ﬃ
	"ﬄ", "ffl", // ﬄ
	"ﬅ", "st", // ﬅ
	"ﬆ", "st", // ﬆ
)

// ExpandLigatures maps ligature presentation forms to their plain-letter
// expansions. Applied before any other text processing.
func ExpandLigatures(s string) string {
	return ligatureReplacer.Replace(s)
}
