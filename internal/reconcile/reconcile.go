// Package reconcile commits reviewed transactions into an account. Imports
// against the same account are serialized so the append + balance-update
// sequence can never interleave; imports against different accounts run in
// parallel.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dverenov/bankfeed/internal/dedup"
	"github.com/dverenov/bankfeed/internal/domain"
	"github.com/dverenov/bankfeed/internal/store"
)

// Options controls a single import.
type Options struct {
	// UpdateAccountBalance sets the account balance to the statement
	// snapshot carried by the batch, when one exists.
	UpdateAccountBalance bool
}

// Result reports the outcome of an import.
type Result struct {
	Added      int      `json:"added"`
	Duplicates int      `json:"duplicates"`
	Errors     []string `json:"errors"`
}

// Importer merges parsed transactions into accounts.
type Importer struct {
	accounts store.AccountRepository
	txs      store.TransactionRepository
	locks    *accountLocks
	log      zerolog.Logger
	now      func() time.Time
}

// NewImporter creates an Importer over the given repositories.
func NewImporter(accounts store.AccountRepository, txs store.TransactionRepository, log zerolog.Logger) *Importer {
	return &Importer{
		accounts: accounts,
		txs:      txs,
		locks:    newAccountLocks(),
		log:      log,
		now:      time.Now,
	}
}

// Import deduplicates candidates against the account's existing
// transactions and appends the remainder as one atomic batch. A batch in
// which everything is a duplicate is a success with Added: 0, never an
// error; only structural failures (unknown account, storage failure)
// return one. Retrying a failed import with the same batch is safe: the
// deduplicator drops whatever the earlier attempt managed to persist.
func (im *Importer) Import(ctx context.Context, accountID string, candidates []domain.ParsedTransaction, opts Options) (*Result, error) {
	unlock := im.locks.lock(accountID)
	defer unlock()

	if _, err := im.accounts.GetAccount(ctx, accountID); err != nil {
		return nil, fmt.Errorf("import into %s: %w", accountID, err)
	}

	existing, err := im.txs.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("import into %s: listing transactions: %w", accountID, err)
	}

	fresh, duplicates := dedup.Partition(accountID, candidates, existing)
	result := &Result{Duplicates: duplicates, Errors: []string{}}

	if len(fresh) == 0 {
		im.log.Info().
			Str("account_id", accountID).
			Int("duplicates", duplicates).
			Msg("Import batch contained no new transactions")
		return result, nil
	}

	batch := make([]domain.Transaction, 0, len(fresh))
	for _, c := range fresh {
		batch = append(batch, domain.Transaction{
			ID:           uuid.NewString(),
			AccountID:    accountID,
			Date:         c.Date,
			Description:  c.Description,
			Merchant:     c.Merchant,
			Amount:       c.Amount,
			Type:         c.Type,
			ImportSource: domain.SourceUpload,
			RawLines:     c.RawLines,
			CreatedAt:    im.now(),
		})
	}

	if err := im.txs.AppendBatch(ctx, accountID, batch); err != nil {
		return nil, fmt.Errorf("import into %s: appending batch: %w", accountID, err)
	}
	result.Added = len(batch)

	if opts.UpdateAccountBalance {
		if snapshot, ok := latestBalanceSnapshot(fresh); ok {
			if err := im.accounts.UpdateBalance(ctx, accountID, snapshot); err != nil {
				// The batch is already committed; surface the
				// balance failure without undoing the import.
				result.Errors = append(result.Errors, fmt.Sprintf("balance update failed: %v", err))
				im.log.Error().Err(err).Str("account_id", accountID).Msg("Balance update failed after import")
			} else {
				im.log.Info().
					Str("account_id", accountID).
					Float64("balance", snapshot).
					Msg("Account balance set from statement snapshot")
			}
		}
	}

	im.log.Info().
		Str("account_id", accountID).
		Int("added", result.Added).
		Int("duplicates", result.Duplicates).
		Msg("Import committed")

	return result, nil
}

// latestBalanceSnapshot picks the balance from the transaction with the
// latest date that carries one. Ties on the date are broken by original
// file order, last wins: statement snapshots are authoritative, computed
// sums are not.
func latestBalanceSnapshot(txs []domain.ParsedTransaction) (float64, bool) {
	var (
		best     float64
		bestDate time.Time
		found    bool
	)
	for _, tx := range txs {
		if tx.Balance == nil {
			continue
		}
		if !found || !tx.Date.Before(bestDate) {
			best = *tx.Balance
			bestDate = tx.Date
			found = true
		}
	}
	return best, found
}
