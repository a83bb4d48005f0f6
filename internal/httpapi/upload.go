package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/weinshel/hallucinator-sub000/internal/archive"
)

const maxUploadBytes = 600 * 1024 * 1024 // headroom over the 500 MiB default archive.Limits.MaxExtractedBytes (internal/config)

var errNoFile = errors.New("httpapi: no file provided")
var errUnsupportedFile = errors.New("httpapi: file must be a PDF, ZIP, or tar.gz archive")

// upload is one parsed multipart upload: either a single PDF or an archive
// of PDFs, not yet extracted.
type upload struct {
	Filename string
	Kind     archive.Kind
	Data     []byte
}

// parseUpload reads the "pdf" multipart field, matching app-rs.py's
// request.files["pdf"] handling.
func parseUpload(r *http.Request) (*upload, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, err
	}
	file, header, err := r.FormFile("pdf")
	if err != nil {
		return nil, errNoFile
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, errNoFile
	}
	kind := archive.DetectKind(header.Filename)
	if kind == archive.KindNone {
		return nil, errUnsupportedFile
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &upload{Filename: header.Filename, Kind: kind, Data: data}, nil
}

// files expands an upload into one or more PDF files: a single-PDF upload
// becomes a one-element list; an archive is extracted under limits.
func (u *upload) files(limits archive.Limits) ([]archive.File, error) {
	if u.Kind == archive.KindPDF {
		return []archive.File{{Name: u.Filename, Data: u.Data}}, nil
	}
	extracted, err := archive.Extract(u.Kind, u.Data, limits)
	if err != nil {
		return nil, err
	}
	if len(extracted) == 0 {
		return nil, errors.New("httpapi: no PDF files found in archive")
	}
	return extracted, nil
}
