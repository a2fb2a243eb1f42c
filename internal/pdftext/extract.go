// Package pdftext pulls plain text out of uploaded resume PDFs.
package pdftext

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

var signature = []byte("%PDF")

var ErrNotPDF = errors.New("file is not a pdf")

// HasSignature reports whether data starts with the PDF magic bytes.
func HasSignature(data []byte) bool {
	return bytes.HasPrefix(data, signature)
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the document text with surrounding whitespace removed.
// Scanned documents usually yield an empty string rather than an error.
func (e *Extractor) Extract(data []byte) (text string, err error) {
	if !HasSignature(data) {
		return "", ErrNotPDF
	}

	// the parser panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("pdf parser failed: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "open pdf")
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", errors.Wrap(err, "read pdf text")
	}

	var buf strings.Builder
	if _, err = io.Copy(&buf, plain); err != nil {
		return "", errors.Wrap(err, "read pdf text")
	}
	return strings.TrimSpace(buf.String()), nil
}
