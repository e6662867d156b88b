package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/dverenov/bankfeed/internal/detect"
	"github.com/dverenov/bankfeed/internal/domain"
)

// NoExtractableText is the warning recorded for PDFs without a selectable
// text layer (scanned or image-only statements). It is a soft condition:
// the parse completes with zero transactions.
const NoExtractableText = "no extractable text"

// PDFExtractor extracts rows from the selectable text layer of PDF
// statements. Image-only PDFs are not an error: they produce zero rows and
// a warning, so the caller can show "0 transactions found".
type PDFExtractor struct{}

// Format returns the extractor format.
func (e *PDFExtractor) Format() detect.Format { return detect.FormatPDF }

// Extract pulls the text layer and runs each line through the
// tokenize/classify/extract stages. Only a structurally unreadable PDF
// wraps domain.ErrCorruptFile.
func (e *PDFExtractor) Extract(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pdf extract: reading input: %w", err)
	}

	text, err := extractTextLayer(data)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if strings.TrimSpace(text) == "" {
		res.Warnings = append(res.Warnings, NoExtractableText)
		return res, nil
	}

	for _, line := range strings.Split(text, "\n") {
		row, ok := extractRow(line)
		if !ok {
			continue
		}
		res.Rows = append(res.Rows, row)
	}

	if len(res.Rows) == 0 {
		res.Warnings = append(res.Warnings, "no transaction lines recognized")
	}
	return res, nil
}

// extractTextLayer decodes the PDF and concatenates its plain text. The
// pdf library panics on some malformed content streams; those are treated
// as an absent text layer rather than a corrupt file, because the document
// envelope itself parsed.
func extractTextLayer(data []byte) (text string, err error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf extract: %v: %w", err, domain.ErrCorruptFile)
	}

	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", nil
		}
	}()

	var sb strings.Builder
	totalPages := reader.NumPage()
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue // page-level decode failure degrades, not fails
		}
		for _, row := range rows {
			var line strings.Builder
			for _, word := range row.Content {
				if line.Len() > 0 {
					line.WriteByte(' ')
				}
				line.WriteString(word.S)
			}
			sb.WriteString(line.String())
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}
