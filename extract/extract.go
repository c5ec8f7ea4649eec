// Package extract converts uploaded documents into plain text for
// prompting.
package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/example/microlearn-api/apperrors"
	"github.com/ledongthuc/pdf"
)

// MinContentLength is the minimum extracted-text length. Shorter
// uploads are rejected before any generation happens so near-empty
// files do not produce meaningless notes.
const MinContentLength = 50

// Text converts a payload into plain text. PDFs go through text
// extraction; everything else must already be UTF-8 text.
func Text(payload []byte, mimeType string) (string, error) {
	var text string

	if mimeType == "application/pdf" {
		extracted, err := pdfText(payload)
		if err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrUnsupportedFormat, err)
		}
		text = extracted
	} else {
		if !utf8.Valid(payload) {
			return "", fmt.Errorf("%w: %s payload is not valid UTF-8", apperrors.ErrUnsupportedFormat, mimeType)
		}
		text = string(payload)
	}

	if len(strings.TrimSpace(text)) < MinContentLength {
		return "", apperrors.ErrInsufficientContent
	}

	return text, nil
}

func pdfText(payload []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}

	return buf.String(), nil
}
