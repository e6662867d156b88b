// Package normalize converts raw statement rows into canonical parsed
// transactions: a real date, a signed float amount, an inferred type and a
// best-effort merchant. Rows that cannot be normalized are dropped and
// reported as warnings; they never abort the parse.
package normalize

import (
	"fmt"
	"strings"

	"github.com/dverenov/bankfeed/internal/domain"
)

// Normalizer applies the normalization rules to raw rows.
type Normalizer struct{}

// New creates a Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize converts rows into parsed transactions. The returned warnings
// describe every dropped row. Every emitted transaction is guaranteed to
// carry a valid date, a non-empty description and a type consistent with
// the sign of its amount.
func (n *Normalizer) Normalize(rows []domain.RawRow) ([]domain.ParsedTransaction, []string) {
	txns := make([]domain.ParsedTransaction, 0, len(rows))
	var warnings []string

	for i, row := range rows {
		tx, err := n.Row(row)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		txns = append(txns, tx)
	}
	return txns, warnings
}

// Row normalizes a single raw row.
func (n *Normalizer) Row(row domain.RawRow) (domain.ParsedTransaction, error) {
	date, err := ParseDate(row.Date)
	if err != nil {
		return domain.ParsedTransaction{}, fmt.Errorf("unparseable date %q", row.Date)
	}

	amount, err := deriveAmount(row)
	if err != nil {
		return domain.ParsedTransaction{}, err
	}

	desc := strings.TrimSpace(row.DescriptionRaw)
	if desc == "" {
		return domain.ParsedTransaction{}, fmt.Errorf("empty description")
	}

	txType := domain.InferType(amount)
	if row.Transfer {
		txType = domain.TypeTransfer
	}

	tx := domain.ParsedTransaction{
		Date:        date,
		Description: desc,
		Merchant:    Merchant(desc),
		Amount:      amount,
		Type:        txType,
	}
	if row.Balance != "" {
		// Balance snapshots are best-effort; an unparseable one is
		// simply absent, not a dropped row.
		if bal, err := ParseAmount(row.Balance); err == nil {
			tx.Balance = &bal
		}
	}
	if row.SourceLine != "" {
		tx.RawLines = []string{row.SourceLine}
	}
	return tx, nil
}

// deriveAmount computes the signed amount. When the source file has
// separate withdrawal/deposit columns, amount = deposit − withdrawal (both
// columns carry positive magnitudes). Otherwise the single signed amount
// field is used directly.
func deriveAmount(row domain.RawRow) (float64, error) {
	if row.Withdrawal != "" || row.Deposit != "" {
		var withdrawal, deposit float64
		var err error
		if row.Withdrawal != "" {
			if withdrawal, err = ParseAmount(row.Withdrawal); err != nil {
				return 0, fmt.Errorf("unparseable withdrawal %q", row.Withdrawal)
			}
		}
		if row.Deposit != "" {
			if deposit, err = ParseAmount(row.Deposit); err != nil {
				return 0, fmt.Errorf("unparseable deposit %q", row.Deposit)
			}
		}
		return deposit - withdrawal, nil
	}

	if row.Amount != "" {
		amount, err := ParseAmount(row.Amount)
		if err != nil {
			return 0, fmt.Errorf("unparseable amount %q", row.Amount)
		}
		return amount, nil
	}

	return 0, fmt.Errorf("no amount fields")
}
