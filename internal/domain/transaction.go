package domain

import "time"

// TransactionType classifies the direction of a transaction.
type TransactionType string

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)

// ImportSource records how a transaction entered the system.
type ImportSource string

const (
	SourceManual ImportSource = "manual"
	SourceUpload ImportSource = "upload"
)

// RawRow is one statement line as extracted from a source file, before
// normalization. Field values are kept as raw strings because date and
// amount formats vary per bank. RawRows are ephemeral and never persisted.
type RawRow struct {
	// Date as it appeared in the file; format unknown at this point.
	Date string

	// DescriptionRaw is the unprocessed description/memo text.
	DescriptionRaw string

	// Withdrawal and Deposit hold the two-column amount variant
	// (both positive magnitudes). Amount holds the single signed
	// variant. At most one variant is populated per row.
	Withdrawal string
	Deposit    string
	Amount     string

	// Balance is the running-balance snapshot on this line, if present.
	Balance string

	// Transfer marks rows the source file explicitly labels as transfers.
	Transfer bool

	// SourceLine is the original line (or joined cells) the row came
	// from, kept for diagnostics.
	SourceLine string
}

// ParsedTransaction is a normalized transaction produced by a parse job.
// Immutable once emitted: every instance carries a valid date, a non-empty
// description and a signed amount consistent with its type.
type ParsedTransaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Merchant    string          `json:"merchant,omitempty"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`

	// Balance is the statement running-balance snapshot after this
	// transaction, when the source file carried one.
	Balance *float64 `json:"balance,omitempty"`

	// RawLines preserves the source text this transaction was built from.
	RawLines []string `json:"raw_lines,omitempty"`
}

// Transaction is a persisted transaction belonging to an account.
type Transaction struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Date         time.Time       `json:"date"`
	Description  string          `json:"description"`
	Merchant     string          `json:"merchant,omitempty"`
	Amount       float64         `json:"amount"`
	Type         TransactionType `json:"type"`
	CategoryID   string          `json:"category_id,omitempty"`
	ImportSource ImportSource    `json:"import_source"`
	RawLines     []string        `json:"raw_lines,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Account is a user bank account. Balance is mutated only by the import
// reconciler (statement snapshot) or by manual edits outside this core.
type Account struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	AccountType     string  `json:"account_type"`
	Balance         float64 `json:"balance"`
	OpeningBalance  float64 `json:"opening_balance"`
	MaskedNumber    string  `json:"masked_number,omitempty"`
	InstitutionName string  `json:"institution_name,omitempty"`
}

// InferType maps a signed amount to a transaction type. Zero amounts are
// treated as expenses by convention (fee reversals and informational lines);
// callers with an explicit transfer marker should override the result.
func InferType(amount float64) TransactionType {
	if amount > 0 {
		return TypeIncome
	}
	return TypeExpense
}
