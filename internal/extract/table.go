package extract

import (
	"fmt"
	"strings"

	"github.com/dverenov/bankfeed/internal/domain"
)

// columnMap resolves which table column feeds which RawRow field. It is
// shared by the CSV and Excel extractors: both see the statement as a grid.
type columnMap struct {
	date       int
	desc       int
	amount     int
	withdrawal int
	deposit    int
	balance    int

	// positional is set when no recognizable header row was found and
	// columns are guessed by position: date, amount, description...
	positional bool
}

// headerKeywords maps recognizable header names to column roles. Matching
// is case-insensitive on the trimmed cell value.
var headerKeywords = map[string]string{
	"date":             "date",
	"transaction date": "date",
	"posted date":      "date",
	"value date":       "date",
	"description":      "desc",
	"details":          "desc",
	"memo":             "desc",
	"narrative":        "desc",
	"payee":            "desc",
	"amount":           "amount",
	"withdrawal":       "withdrawal",
	"withdrawals":      "withdrawal",
	"debit":            "withdrawal",
	"paid out":         "withdrawal",
	"money out":        "withdrawal",
	"deposit":          "deposit",
	"deposits":         "deposit",
	"credit":           "deposit",
	"paid in":          "deposit",
	"money in":         "deposit",
	"balance":          "balance",
	"running balance":  "balance",
}

// detectHeader inspects the first row of a table. If it contains at least a
// recognizable date column and one amount-ish column, it is treated as a
// header; otherwise all rows are data and columns are guessed positionally.
func detectHeader(first []string) (columnMap, bool) {
	cm := columnMap{date: -1, desc: -1, amount: -1, withdrawal: -1, deposit: -1, balance: -1}

	for i, cell := range first {
		role, ok := headerKeywords[strings.ToLower(strings.TrimSpace(cell))]
		if !ok {
			continue
		}
		switch role {
		case "date":
			if cm.date < 0 {
				cm.date = i
			}
		case "desc":
			if cm.desc < 0 {
				cm.desc = i
			}
		case "amount":
			if cm.amount < 0 {
				cm.amount = i
			}
		case "withdrawal":
			if cm.withdrawal < 0 {
				cm.withdrawal = i
			}
		case "deposit":
			if cm.deposit < 0 {
				cm.deposit = i
			}
		case "balance":
			if cm.balance < 0 {
				cm.balance = i
			}
		}
	}

	hasAmount := cm.amount >= 0 || cm.withdrawal >= 0 || cm.deposit >= 0
	if cm.date >= 0 && hasAmount {
		return cm, true
	}
	return positionalColumns(), false
}

// positionalColumns is the fallback layout for headerless files:
// column 0 is the date, column 1 the signed amount, and the remaining
// columns join into the description.
func positionalColumns() columnMap {
	return columnMap{
		date: 0, amount: 1, desc: 2,
		withdrawal: -1, deposit: -1, balance: -1,
		positional: true,
	}
}

// row converts one data row using the column layout. Rows too short to
// carry the mapped columns, and rows with no amount field at all, return
// an error; the caller records it as a warning and drops the row. Date
// content is not validated here: the normalizer owns date parsing.
func (cm columnMap) row(cells []string, lineNo int) (domain.RawRow, error) {
	get := func(i int) string {
		if i < 0 || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	row := domain.RawRow{
		Date:       get(cm.date),
		Balance:    get(cm.balance),
		SourceLine: joinCells(cells),
	}

	if cm.positional {
		if len(cells) < 3 {
			return domain.RawRow{}, fmt.Errorf("row %d: %d columns, want at least 3", lineNo, len(cells))
		}
		row.Amount = get(cm.amount)
		row.DescriptionRaw = strings.TrimSpace(strings.Join(cells[cm.desc:], " "))
	} else {
		row.DescriptionRaw = get(cm.desc)
		row.Amount = get(cm.amount)
		row.Withdrawal = get(cm.withdrawal)
		row.Deposit = get(cm.deposit)
	}

	if row.Amount == "" && row.Withdrawal == "" && row.Deposit == "" {
		return domain.RawRow{}, fmt.Errorf("row %d: no amount fields", lineNo)
	}
	return row, nil
}
