// Package archive extracts PDF files out of a ZIP or gzipped tar upload,
// enforcing the same security limits as the Python original's
// extract_pdfs_from_archive/safe_filename/is_valid_pdf: a cap on file count,
// a cap on total extracted bytes, and rejection of path-traversal, hidden,
// and __MACOSX entries.
package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path"
	"strings"
)

// Limits bounds how much a single archive upload may expand to.
type Limits struct {
	MaxFiles          int
	MaxExtractedBytes int64
}

// File is one PDF extracted from an archive.
type File struct {
	Name string
	Data []byte
}

// Kind identifies the archive container format from its filename.
type Kind int

const (
	KindNone Kind = iota
	KindPDF
	KindZip
	KindTarGz
)

// DetectKind classifies filename by extension, matching app-rs.py's
// get_file_type.
func DetectKind(filename string) Kind {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return KindPDF
	case strings.HasSuffix(lower, ".zip"):
		return KindZip
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return KindTarGz
	default:
		return KindNone
	}
}

// SafeName rejects path traversal, hidden-file, and __MACOSX entries and
// returns the normalized forward-slash path otherwise. Matches
// app-rs.py's safe_filename.
func SafeName(name string) (string, bool) {
	normalized := strings.ReplaceAll(name, "\\", "/")
	for _, part := range strings.Split(normalized, "/") {
		if strings.HasPrefix(part, ".") || part == "__MACOSX" {
			return "", false
		}
	}
	if strings.Contains(normalized, "..") || strings.HasPrefix(normalized, "/") {
		return "", false
	}
	return normalized, true
}

// IsValidPDF reports whether data starts with the %PDF- magic header.
func IsValidPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// LimitError reports the two limit violations (too many PDF files, too many
// extracted bytes) that callers surface to the HTTP layer as 400s, matching
// app-rs.py's ValueError paths.
type LimitError struct {
	msg string
}

func (e *LimitError) Error() string { return e.msg }

func limitErrorf(format string, args ...interface{}) error {
	return &LimitError{msg: fmt.Sprintf(format, args...)}
}

// ExtractZip walks a ZIP archive's entries, returning every valid PDF found
// under the given Limits, in archive order. Non-PDF and unsafe entries are
// silently skipped, mirroring the original's behavior of tolerating extra
// files in a submission archive.
func ExtractZip(data []byte, limits Limits) ([]File, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("archive: invalid or corrupted zip: %w", err)
	}

	var totalSize int64
	for _, f := range zr.File {
		totalSize += int64(f.UncompressedSize64)
		if totalSize > limits.MaxExtractedBytes {
			return nil, limitErrorf("archive exceeds maximum extracted size (%d bytes)", limits.MaxExtractedBytes)
		}
	}

	var files []File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		safeName, ok := SafeName(f.Name)
		if !ok || !strings.HasSuffix(strings.ToLower(safeName), ".pdf") {
			continue
		}
		if len(files) >= limits.MaxFiles {
			return nil, limitErrorf("too many PDF files in archive (max %d)", limits.MaxFiles)
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("archive: opening %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("archive: reading %s: %w", f.Name, err)
		}

		if IsValidPDF(content) {
			files = append(files, File{Name: path.Base(safeName), Data: content})
		}
	}
	return files, nil
}

// ExtractTarGz walks a gzipped tar archive's entries under the same rules as
// ExtractZip.
func ExtractTarGz(data []byte, limits Limits) ([]File, error) {
	gzr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("archive: invalid or corrupted tar.gz: %w", err)
	}
	defer gzr.Close()
	tr := tar.NewReader(gzr)

	var files []File
	var totalSize int64
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("archive: invalid or corrupted tar.gz: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		totalSize += hdr.Size
		if totalSize > limits.MaxExtractedBytes {
			return nil, limitErrorf("archive exceeds maximum extracted size (%d bytes)", limits.MaxExtractedBytes)
		}

		safeName, ok := SafeName(hdr.Name)
		if !ok || !strings.HasSuffix(strings.ToLower(safeName), ".pdf") {
			continue
		}
		if len(files) >= limits.MaxFiles {
			return nil, limitErrorf("too many PDF files in archive (max %d)", limits.MaxFiles)
		}

		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("archive: reading %s: %w", hdr.Name, err)
		}
		if IsValidPDF(content) {
			files = append(files, File{Name: path.Base(safeName), Data: content})
		}
	}
	return files, nil
}

// Extract dispatches to ExtractZip or ExtractTarGz by Kind.
func Extract(kind Kind, data []byte, limits Limits) ([]File, error) {
	switch kind {
	case KindZip:
		return ExtractZip(data, limits)
	case KindTarGz:
		return ExtractTarGz(data, limits)
	default:
		return nil, fmt.Errorf("archive: unsupported kind")
	}
}
