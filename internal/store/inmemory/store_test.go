package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverenov/bankfeed/internal/domain"
)

func TestStore_Accounts(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.PutAccount(ctx, &domain.Account{ID: "acc-1", Name: "Checking", Balance: 100})
	require.NoError(t, err)

	got, err := s.GetAccount(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "Checking", got.Name)

	// Mutating the returned copy must not affect the stored account.
	got.Balance = 0
	again, err := s.GetAccount(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, again.Balance)

	_, err = s.GetAccount(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrAccountNotFound))

	require.NoError(t, s.UpdateBalance(ctx, "acc-1", 80))
	updated, err := s.GetAccount(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, 80.0, updated.Balance)
}

func TestStore_AppendBatch(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.PutAccount(ctx, &domain.Account{ID: "acc-1", Name: "Checking"}))

	day := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	batch := []domain.Transaction{
		{ID: "tx-1", AccountID: "acc-1", Date: day, Description: "A", Amount: -1},
		{ID: "tx-2", AccountID: "acc-1", Date: day, Description: "B", Amount: -2},
	}

	require.NoError(t, s.AppendBatch(ctx, "acc-1", batch))
	txs, err := s.ListByAccount(ctx, "acc-1")
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestStore_AppendBatch_ValidatesBeforeWriting(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.PutAccount(ctx, &domain.Account{ID: "acc-1"}))

	batch := []domain.Transaction{
		{ID: "tx-1", AccountID: "acc-1", Description: "GOOD"},
		{ID: "", AccountID: "acc-1", Description: "MISSING ID"},
	}

	err := s.AppendBatch(ctx, "acc-1", batch)
	require.Error(t, err)

	// Nothing from the failed batch may be visible.
	txs, err := s.ListByAccount(ctx, "acc-1")
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestStore_AppendBatch_UnknownAccount(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.AppendBatch(ctx, "ghost", []domain.Transaction{{ID: "tx-1", AccountID: "ghost"}})
	assert.True(t, errors.Is(err, domain.ErrAccountNotFound))
}
