// Package bigquery is the BigQuery-backed implementation of the store
// repositories, for the hosted deployment where transactions feed the
// analytics dataset directly.
package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/dverenov/bankfeed/internal/domain"
	"github.com/dverenov/bankfeed/internal/store"
)

const (
	accountsTable     = "accounts"
	transactionsTable = "transactions"
)

// Store implements the store repositories on a BigQuery dataset.
type Store struct {
	client  *bigquery.Client
	project string
	dataset string
}

// NewStore creates a BigQuery-backed store. Extra client options (e.g.
// option.WithCredentialsFile) are passed through to the client.
func NewStore(ctx context.Context, project, dataset string, opts ...option.ClientOption) (*Store, error) {
	client, err := bigquery.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewStore: bigquery client: %w", err)
	}
	return &Store{client: client, project: project, dataset: dataset}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// GetAccount implements store.AccountRepository.
func (s *Store) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			account_id,
			name,
			account_type,
			masked_number,
			institution_name,
			balance,
			opening_balance
		FROM %s
		WHERE account_id = @account_id
	`, s.table(accountsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "account_id", Value: accountID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: query read: %w", err)
	}

	var row AccountRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, fmt.Errorf("GetAccount %s: %w", accountID, domain.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetAccount: iterating: %w", err)
	}

	return accountFromRow(&row), nil
}

// UpdateBalance implements store.AccountRepository.
func (s *Store) UpdateBalance(ctx context.Context, accountID string, balance float64) error {
	q := s.client.Query(fmt.Sprintf(`
		UPDATE %s
		SET balance = @balance,
		    updated_ts = @updated_ts
		WHERE account_id = @account_id
	`, s.table(accountsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "balance", Value: balance},
		{Name: "updated_ts", Value: time.Now()},
		{Name: "account_id", Value: accountID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("UpdateBalance: running update: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("UpdateBalance: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("UpdateBalance: job error: %w", err)
	}
	return nil
}

// ListByAccount implements store.TransactionRepository.
func (s *Store) ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			transaction_id,
			account_id,
			transaction_date,
			description,
			merchant,
			amount,
			direction,
			category_id,
			import_source,
			raw_lines,
			created_ts
		FROM %s
		WHERE account_id = @account_id
		ORDER BY transaction_date, created_ts
	`, s.table(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "account_id", Value: accountID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListByAccount: query read: %w", err)
	}

	var txs []domain.Transaction
	for {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListByAccount: iterating: %w", err)
		}
		txs = append(txs, transactionFromRow(&row))
	}
	return txs, nil
}

// AppendBatch implements store.TransactionRepository. The whole batch goes
// through a single Inserter.Put call, which the streaming API applies as
// one request: a failure inserts nothing.
func (s *Store) AppendBatch(ctx context.Context, accountID string, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	rows := make([]*TransactionRow, 0, len(txs))
	for i, tx := range txs {
		if tx.AccountID != accountID {
			return fmt.Errorf("AppendBatch: transaction %d: account mismatch %q != %q", i, tx.AccountID, accountID)
		}
		rows = append(rows, rowFromTransaction(tx))
	}

	table := s.client.DatasetInProject(s.project, s.dataset).Table(transactionsTable)
	if err := table.Inserter().Put(ctx, rows); err != nil {
		return fmt.Errorf("AppendBatch: inserting rows: %w", err)
	}
	return nil
}

func (s *Store) table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", s.project, s.dataset, name)
}

// Ensure Store implements both repository interfaces.
var (
	_ store.AccountRepository     = (*Store)(nil)
	_ store.TransactionRepository = (*Store)(nil)
)
