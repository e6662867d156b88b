package extract

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dverenov/bankfeed/internal/detect"
	"github.com/dverenov/bankfeed/internal/domain"
)

// ExcelExtractor extracts rows from .xls/.xlsx statement exports. The
// workbook is materialized in memory; the upload size ceiling bounds this.
// Only the first sheet is read: bank exports put transactions there.
type ExcelExtractor struct{}

// Format returns the extractor format.
func (e *ExcelExtractor) Format() detect.Format { return detect.FormatExcel }

// Extract opens the workbook and applies the same header/positional column
// logic as the CSV extractor to the first sheet's rows.
func (e *ExcelExtractor) Extract(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("excel extract: %v: %w", err, domain.ErrCorruptFile)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel extract: workbook has no sheets: %w", domain.ErrCorruptFile)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("excel extract: reading sheet %q: %v: %w", sheets[0], err, domain.ErrCorruptFile)
	}

	res := &Result{}
	if len(records) == 0 {
		return res, nil
	}

	cm, isHeader := detectHeader(records[0])
	start := 0
	if isHeader {
		start = 1
	}

	for i := start; i < len(records); i++ {
		if emptyRecord(records[i]) {
			continue
		}
		row, err := cm.row(records[i], i+1)
		if err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			continue
		}
		res.Rows = append(res.Rows, row)
	}

	return res, nil
}
