// Package inmemory is the in-memory implementation of the store
// repositories. It is safe for concurrent use and backs tests, the CLI and
// single-process deployments; data is lost on restart.
package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dverenov/bankfeed/internal/domain"
	"github.com/dverenov/bankfeed/internal/store"
)

// Store holds accounts and their transactions behind one mutex so a batch
// append and its balance update can never interleave with readers.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]*domain.Account
	transactions map[string][]domain.Transaction // keyed by account ID
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]*domain.Account),
		transactions: make(map[string][]domain.Transaction),
	}
}

// PutAccount creates or replaces an account.
func (s *Store) PutAccount(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		return fmt.Errorf("account ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *account
	s.accounts[account.ID] = &cp
	return nil
}

// GetAccount implements store.AccountRepository.
func (s *Store) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, domain.ErrAccountNotFound)
	}

	cp := *account
	return &cp, nil
}

// UpdateBalance implements store.AccountRepository.
func (s *Store) UpdateBalance(ctx context.Context, accountID string, balance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return fmt.Errorf("account %s: %w", accountID, domain.ErrAccountNotFound)
	}
	account.Balance = balance
	return nil
}

// ListByAccount implements store.TransactionRepository.
func (s *Store) ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := s.transactions[accountID]
	out := make([]domain.Transaction, len(txs))
	copy(out, txs)
	return out, nil
}

// AppendBatch implements store.TransactionRepository. The batch is
// validated in full before anything is written, so a bad transaction can
// never leave a partial batch behind.
func (s *Store) AppendBatch(ctx context.Context, accountID string, txs []domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accountID]; !ok {
		return fmt.Errorf("account %s: %w", accountID, domain.ErrAccountNotFound)
	}
	for i, tx := range txs {
		if tx.ID == "" {
			return fmt.Errorf("transaction %d: missing ID", i)
		}
		if tx.AccountID != accountID {
			return fmt.Errorf("transaction %d: account mismatch %q != %q", i, tx.AccountID, accountID)
		}
	}

	s.transactions[accountID] = append(s.transactions[accountID], txs...)
	return nil
}

// Ensure Store implements both repository interfaces.
var (
	_ store.AccountRepository     = (*Store)(nil)
	_ store.TransactionRepository = (*Store)(nil)
)
