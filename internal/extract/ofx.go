package extract

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dverenov/bankfeed/internal/detect"
	"github.com/dverenov/bankfeed/internal/domain"
)

// OFXExtractor extracts rows from OFX/QFX downloads. Bank OFX 1.x files are
// SGML, not XML: tags are frequently unclosed and values run to end of line,
// so the file is scanned tag-by-tag instead of fed to an XML decoder. The
// scan is line-streaming; a statement never materializes whole.
type OFXExtractor struct{}

// Format returns the extractor format.
func (e *OFXExtractor) Format() detect.Format { return detect.FormatOFX }

// Extract scans for <STMTTRN> blocks and maps their fields directly:
// TRNAMT is already signed, DTPOSTED is YYYYMMDD[HHMMSS], NAME/MEMO join
// into the description. A file without an <OFX> envelope is corrupt.
func (e *OFXExtractor) Extract(r io.Reader) (*Result, error) {
	res := &Result{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	sawEnvelope := false
	inTxn := false
	var cur ofxTxn

	for sc.Scan() {
		line := sc.Text()
		for _, tag := range splitTags(line) {
			name, value := tag.name, tag.value
			switch name {
			case "OFX":
				sawEnvelope = true
			case "STMTTRN":
				inTxn = true
				cur = ofxTxn{}
			case "/STMTTRN":
				if inTxn {
					res.flushOFX(cur)
				}
				inTxn = false
			case "TRNTYPE":
				if inTxn {
					cur.trnType = strings.ToUpper(value)
				}
			case "DTPOSTED":
				if inTxn {
					cur.posted = value
				}
			case "TRNAMT":
				if inTxn {
					cur.amount = value
				}
			case "FITID":
				if inTxn {
					cur.fitID = value
				}
			case "NAME", "PAYEE":
				if inTxn && cur.name == "" {
					cur.name = value
				}
			case "MEMO":
				if inTxn {
					cur.memo = value
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ofx extract: %v: %w", err, domain.ErrCorruptFile)
	}
	if !sawEnvelope {
		return nil, fmt.Errorf("ofx extract: no OFX envelope: %w", domain.ErrCorruptFile)
	}
	if inTxn {
		// Unterminated final block; keep what it carried.
		res.flushOFX(cur)
		res.Warnings = append(res.Warnings, "unterminated STMTTRN block")
	}

	return res, nil
}

type ofxTxn struct {
	trnType string
	posted  string
	amount  string
	fitID   string
	name    string
	memo    string
}

func (res *Result) flushOFX(t ofxTxn) {
	desc := t.name
	if t.memo != "" && t.memo != t.name {
		if desc == "" {
			desc = t.memo
		} else {
			desc = desc + " " + t.memo
		}
	}

	row := domain.RawRow{
		Date:           ofxDateToISO(t.posted),
		DescriptionRaw: desc,
		Amount:         strings.TrimSpace(t.amount),
		Transfer:       t.trnType == "XFER",
		SourceLine:     fmt.Sprintf("STMTTRN %s %s %s %s", t.fitID, t.posted, t.amount, desc),
	}
	res.Rows = append(res.Rows, row)
}

// ofxDateToISO converts DTPOSTED values like "20240103120000[-5:EST]" to
// "2024-01-03". Values too short to carry a date pass through unchanged and
// fail later in the normalizer, where they are reported per-row.
func ofxDateToISO(s string) string {
	digits := s
	for i, r := range s {
		if r < '0' || r > '9' {
			digits = s[:i]
			break
		}
	}
	if len(digits) < 8 {
		return strings.TrimSpace(s)
	}
	return digits[0:4] + "-" + digits[4:6] + "-" + digits[6:8]
}

type sgmlTag struct {
	name  string
	value string
}

// splitTags breaks one line into SGML tags. A line may carry several tags
// ("<STMTTRN><TRNTYPE>DEBIT"); the value of each runs until the next '<'.
func splitTags(line string) []sgmlTag {
	var tags []sgmlTag
	for {
		open := strings.Index(line, "<")
		if open < 0 {
			break
		}
		line = line[open+1:]
		close := strings.Index(line, ">")
		if close < 0 {
			break
		}
		name := strings.ToUpper(strings.TrimSpace(line[:close]))
		line = line[close+1:]

		value := line
		if next := strings.Index(line, "<"); next >= 0 {
			value = line[:next]
		}
		tags = append(tags, sgmlTag{name: name, value: strings.TrimSpace(value)})
	}
	return tags
}
