package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/dverenov/bankfeed/internal/domain"
)

// AccountRow is the accounts table schema.
type AccountRow struct {
	AccountID string `bigquery:"account_id"` // REQUIRED

	Name            string `bigquery:"name"`             // NULLABLE
	AccountType     string `bigquery:"account_type"`     // NULLABLE
	MaskedNumber    string `bigquery:"masked_number"`    // NULLABLE
	InstitutionName string `bigquery:"institution_name"` // NULLABLE

	Balance        float64 `bigquery:"balance"`
	OpeningBalance float64 `bigquery:"opening_balance"`

	CreatedTS bigquery.NullTimestamp `bigquery:"created_ts"` // TIMESTAMP, NULLABLE
	UpdatedTS bigquery.NullTimestamp `bigquery:"updated_ts"` // TIMESTAMP, NULLABLE
}

// TransactionRow is the transactions table schema.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED
	AccountID     string `bigquery:"account_id"`     // REQUIRED

	TransactionDate civil.Date `bigquery:"transaction_date"`
	Description     string     `bigquery:"description"`
	Merchant        string     `bigquery:"merchant"` // NULLABLE
	Amount          float64    `bigquery:"amount"`
	Direction       string     `bigquery:"direction"`   // income | expense | transfer
	CategoryID      string     `bigquery:"category_id"` // NULLABLE
	ImportSource    string     `bigquery:"import_source"`
	RawLines        []string   `bigquery:"raw_lines"` // REPEATED

	CreatedTS time.Time `bigquery:"created_ts"`
}

func accountFromRow(row *AccountRow) *domain.Account {
	return &domain.Account{
		ID:              row.AccountID,
		Name:            row.Name,
		AccountType:     row.AccountType,
		Balance:         row.Balance,
		OpeningBalance:  row.OpeningBalance,
		MaskedNumber:    row.MaskedNumber,
		InstitutionName: row.InstitutionName,
	}
}

func rowFromTransaction(tx domain.Transaction) *TransactionRow {
	return &TransactionRow{
		TransactionID:   tx.ID,
		AccountID:       tx.AccountID,
		TransactionDate: civil.DateOf(tx.Date),
		Description:     tx.Description,
		Merchant:        tx.Merchant,
		Amount:          tx.Amount,
		Direction:       string(tx.Type),
		CategoryID:      tx.CategoryID,
		ImportSource:    string(tx.ImportSource),
		RawLines:        tx.RawLines,
		CreatedTS:       tx.CreatedAt,
	}
}

func transactionFromRow(row *TransactionRow) domain.Transaction {
	return domain.Transaction{
		ID:           row.TransactionID,
		AccountID:    row.AccountID,
		Date:         row.TransactionDate.In(time.UTC),
		Description:  row.Description,
		Merchant:     row.Merchant,
		Amount:       row.Amount,
		Type:         domain.TransactionType(row.Direction),
		CategoryID:   row.CategoryID,
		ImportSource: domain.ImportSource(row.ImportSource),
		RawLines:     row.RawLines,
		CreatedAt:    row.CreatedTS,
	}
}
