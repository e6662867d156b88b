// Package store defines the persistence contracts the reconciliation core
// needs from its storage collaborator. The core is storage-agnostic: the
// in-memory implementation backs tests and single-process deployments, the
// BigQuery implementation backs the hosted setup.
package store

import (
	"context"

	"github.com/dverenov/bankfeed/internal/domain"
)

// AccountRepository provides read access to accounts and the single write
// the reconciler performs: setting the statement-snapshot balance.
type AccountRepository interface {
	// GetAccount returns the account or domain.ErrAccountNotFound.
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// UpdateBalance sets the account balance to a statement snapshot.
	UpdateBalance(ctx context.Context, accountID string, balance float64) error
}

// TransactionRepository provides the two operations the import flow needs:
// listing an account's transactions for duplicate detection, and appending
// a batch.
type TransactionRepository interface {
	// ListByAccount returns all transactions for an account.
	ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// AppendBatch persists the batch atomically: either every
	// transaction becomes visible or none does. Implementations must
	// never expose a partially-written batch to readers.
	AppendBatch(ctx context.Context, accountID string, txs []domain.Transaction) error
}
