package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/dverenov/bankfeed/internal/detect"
	"github.com/dverenov/bankfeed/internal/domain"
)

// CSVExtractor extracts rows from CSV statement exports. The file is read
// record by record, so arbitrarily large statements never materialize in
// memory at once.
type CSVExtractor struct{}

// Format returns the extractor format.
func (e *CSVExtractor) Format() detect.Format { return detect.FormatCSV }

// Extract reads CSV records and converts them into raw rows. The first
// record is treated as a header when it carries recognizable column names;
// otherwise every record is data with positional column guessing.
func (e *CSVExtractor) Extract(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // bank exports pad rows inconsistently
	cr.TrimLeadingSpace = true

	res := &Result{}
	var cm columnMap
	lineNo := 0

	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			// A malformed record mid-file is a row problem, not a
			// structural one; record it and keep going.
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: %v", perr.Line, perr.Err))
				continue
			}
			return nil, fmt.Errorf("csv extract: %w", domain.ErrCorruptFile)
		}
		lineNo++

		if lineNo == 1 {
			var isHeader bool
			cm, isHeader = detectHeader(rec)
			if isHeader {
				continue
			}
		}

		if emptyRecord(rec) {
			continue
		}

		row, err := cm.row(rec, lineNo)
		if err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			continue
		}
		res.Rows = append(res.Rows, row)
	}

	return res, nil
}

func emptyRecord(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}
