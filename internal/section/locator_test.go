package section

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocator_FindsHeader(t *testing.T) {
	doc := "Intro text.\n\nREFERENCES\n\n[1] Foo.\n[2] Bar.\n\nAppendix\n\nExtra stuff."
	l := NewLocator()
	got := l.Find(doc)
	assert.Contains(t, got, "[1] Foo.")
	assert.NotContains(t, got, "Extra stuff.")
}

func TestLocator_FallsBackWhenNoHeader(t *testing.T) {
	doc := strings.Repeat("x", 100)
	l := NewLocator()
	got := l.Find(doc)
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 31)
}

func TestLocator_NeverEmptyForNonEmptyInput(t *testing.T) {
	l := NewLocator()
	assert.NotEmpty(t, l.Find("some unrelated text with no markers at all"))
}
