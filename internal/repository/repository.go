package repository

import (
	"context"
	"errors"

	"github.com/MirosMazurenko/Banking-solution/internal/models"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when the referenced account does not exist.
var ErrNotFound = errors.New("account does not exist")

// AccountStore is the persistence contract for accounts and their
// transaction history. Implementations own record identity: IDs are
// assigned on Create and never reused.
//
// Mutating calls that accept transaction entries persist the entries and
// the account state as a single atomic unit. Entry IDs and timestamps are
// assigned by the store on insert.
type AccountStore interface {
	// Create stores a new account and returns it with its assigned ID.
	// A positive initial balance also writes an opening history entry.
	Create(ctx context.Context, ownerName string, initialBalance decimal.Decimal) (*models.Account, error)

	// GetByID returns the account or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Account, error)

	// GetAll returns every account in insertion order. An empty store
	// yields an empty slice, not an error.
	GetAll(ctx context.Context) ([]*models.Account, error)

	// Update persists the full state of an existing account together with
	// any history entries. The account must exist; a missing ID is a
	// caller bug and reported as a plain error, not ErrNotFound.
	Update(ctx context.Context, account *models.Account, entries ...*models.Transaction) error

	// UpdateAll persists several accounts and their history entries as
	// one all-or-nothing unit.
	UpdateAll(ctx context.Context, accounts []*models.Account, entries []*models.Transaction) error

	// Delete removes the account. Accounts with recorded transactions
	// cannot be deleted.
	Delete(ctx context.Context, account *models.Account) error

	// TransactionsByAccount returns the account's history in
	// chronological order, or ErrNotFound for an unknown account.
	TransactionsByAccount(ctx context.Context, accountID int64) ([]*models.Transaction, error)
}
