// Package detect classifies uploaded statement files into one of the
// supported formats. Classification is pure: the declared MIME type is
// trusted first (it is only a hint, but a correct hint short-circuits
// extension guessing), then the filename extension, and anything else is
// rejected before a single row is parsed.
package detect

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dverenov/bankfeed/internal/domain"
)

// Format identifies a supported statement file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatExcel   Format = "excel"
	FormatPDF     Format = "pdf"
	FormatOFX     Format = "ofx"
	FormatUnknown Format = "unknown"
)

// mimeFormats maps declared MIME types to formats. Only types in this
// allowlist are trusted; everything else falls back to the extension.
var mimeFormats = map[string]Format{
	"text/csv":                 FormatCSV,
	"application/csv":          FormatCSV,
	"application/vnd.ms-excel": FormatExcel,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": FormatExcel,
	"application/pdf":          FormatPDF,
	"application/x-ofx":        FormatOFX,
	"application/vnd.intu.qfx": FormatOFX,
}

// extFormats maps filename extensions to formats.
var extFormats = map[string]Format{
	".csv":  FormatCSV,
	".xls":  FormatExcel,
	".xlsx": FormatExcel,
	".pdf":  FormatPDF,
	".ofx":  FormatOFX,
	".qfx":  FormatOFX,
}

// Detect classifies an uploaded file. The buffer must be non-empty; a
// zero-byte file fails with domain.ErrEmptyFile before any format decision
// is made. An unclassifiable file fails with domain.ErrUnsupportedFormat.
func Detect(data []byte, filename, mimeType string) (Format, error) {
	if len(data) == 0 {
		return FormatUnknown, fmt.Errorf("detect %q: %w", filename, domain.ErrEmptyFile)
	}

	// MIME types often carry parameters, e.g. "text/csv; charset=utf-8".
	mime := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	if f, ok := mimeFormats[mime]; ok {
		return f, nil
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}

	return FormatUnknown, fmt.Errorf("detect %q (mime %q): %w", filename, mimeType, domain.ErrUnsupportedFormat)
}
