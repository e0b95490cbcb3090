package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MirosMazurenko/Banking-solution/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMemoryStoreCreate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.Create(ctx, "Alice", dec("10.00"))
	require.NoError(t, err)
	second, err := store.Create(ctx, "Bob", decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.False(t, first.UpdatedAt.IsZero())

	// A positive opening balance writes an opening entry; zero does not.
	entries, err := store.TransactionsByAccount(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.TxOpening, entries[0].Type)
	assert.True(t, entries[0].Amount.Equal(dec("10.00")))

	entries, err = store.TransactionsByAccount(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMemoryStoreGetByIDNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetByID(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreGetAllInsertionOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	accounts, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)

	names := []string{"Carol", "Alice", "Bob"}
	for _, name := range names {
		_, err := store.Create(ctx, name, decimal.Zero)
		require.NoError(t, err)
	}

	accounts, err = store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	for i, name := range names {
		assert.Equal(t, name, accounts[i].OwnerName)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, "Alice", dec("10.00"))
	require.NoError(t, err)

	created.Balance = dec("999.00")

	stored, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(dec("10.00")), "mutating a returned record must not affect the store")
}

func TestMemoryStoreUpdate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	account, err := store.Create(ctx, "Alice", dec("10.00"))
	require.NoError(t, err)

	account.Balance = dec("25.00")
	entry := &models.Transaction{AccountID: account.ID, Amount: dec("15.00"), Type: models.TxDeposit}
	require.NoError(t, store.Update(ctx, account, entry))

	stored, err := store.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(dec("25.00")))

	entries, err := store.TransactionsByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.NotZero(t, entries[1].ID)
	assert.False(t, entries[1].Timestamp.IsZero())
}

func TestMemoryStoreUpdateMissingAccount(t *testing.T) {
	store := NewMemoryStore()

	err := store.Update(context.Background(), &models.Account{ID: 42})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound, "a missing ID on update is a caller bug, not an absence result")
}

func TestMemoryStoreUpdateAllAtomic(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	existing, err := store.Create(ctx, "Alice", dec("10.00"))
	require.NoError(t, err)

	existing.Balance = dec("99.00")
	missing := &models.Account{ID: 42, Balance: dec("1.00")}

	err = store.UpdateAll(ctx, []*models.Account{existing, missing}, nil)
	require.Error(t, err)

	stored, err := store.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(dec("10.00")), "a failed multi-update must leave every account untouched")
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	account, err := store.Create(ctx, "Alice", decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, account))
	_, err = store.GetByID(ctx, account.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, store.Delete(ctx, account), ErrNotFound)
}

func TestMemoryStoreDeleteRestrictedByHistory(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	account, err := store.Create(ctx, "Alice", dec("10.00"))
	require.NoError(t, err)

	err = store.Delete(ctx, account)
	require.Error(t, err)

	_, err = store.GetByID(ctx, account.ID)
	require.NoError(t, err, "an account with history must survive a delete attempt")
}

func TestMemoryStoreTransactionsByAccountNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.TransactionsByAccount(context.Background(), 7)
	require.ErrorIs(t, err, ErrNotFound)
}
