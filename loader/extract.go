// Package loader turns uploaded payloads into plain text ready for
// chunking.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat means the uploaded file extension is not one we can
// extract text from.
var ErrUnsupportedFormat = errors.New("unsupported file format")

type Format string

const (
	FormatUnknown Format = ""
	FormatText    Format = "text"
	FormatPDF     Format = "pdf"
)

// DetectFormat infers the payload format from the file name extension.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", ".markdown":
		return FormatText
	case ".pdf":
		return FormatPDF
	default:
		return FormatUnknown
	}
}

// ExtractText returns the plain-text content of an uploaded file. Text
// payloads pass through with normalized line endings; PDF payloads go
// through the pdf reader's plain-text extraction.
func ExtractText(filename string, data []byte) (string, error) {
	switch DetectFormat(filename) {
	case FormatText:
		return normalizeNewlines(string(data)), nil
	case FormatPDF:
		return extractPDF(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return normalizeNewlines(buf.String()), nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
