package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MirosMazurenko/Banking-solution/internal/models"
	"github.com/shopspring/decimal"
)

// MemoryStore is an in-process AccountStore. A single mutex serializes
// all state changes, so every call observes and commits a consistent
// snapshot. Intended for tests and database-less development.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int64
	nextTID int64
	order   []int64
	accts   map[int64]*models.Account
	entries map[int64][]*models.Transaction
}

// NewMemoryStore initializes an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accts:   make(map[int64]*models.Account),
		entries: make(map[int64][]*models.Transaction),
	}
}

// Create stores a new account and returns it with its assigned ID
func (s *MemoryStore) Create(ctx context.Context, ownerName string, initialBalance decimal.Decimal) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := time.Now().UTC()
	account := &models.Account{
		ID:        s.nextID,
		OwnerName: ownerName,
		Balance:   initialBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.accts[account.ID] = account
	s.order = append(s.order, account.ID)

	if initialBalance.Sign() > 0 {
		s.appendEntry(&models.Transaction{
			AccountID: account.ID,
			Amount:    initialBalance,
			Type:      models.TxOpening,
		})
	}

	cp := *account
	return &cp, nil
}

// GetByID returns a copy of the account or ErrNotFound
func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *account
	return &cp, nil
}

// GetAll returns copies of every account in insertion order
func (s *MemoryStore) GetAll(ctx context.Context) ([]*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]*models.Account, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.accts[id]
		accounts = append(accounts, &cp)
	}
	return accounts, nil
}

// Update persists the full state of an existing account along with any
// history entries
func (s *MemoryStore) Update(ctx context.Context, account *models.Account, entries ...*models.Transaction) error {
	return s.UpdateAll(ctx, []*models.Account{account}, entries)
}

// UpdateAll persists several accounts and their history entries as a
// single all-or-nothing unit: existence is checked for every account
// before any state changes.
func (s *MemoryStore) UpdateAll(ctx context.Context, accounts []*models.Account, entries []*models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range accounts {
		if _, ok := s.accts[account.ID]; !ok {
			return fmt.Errorf("failed to update account %d: no such account", account.ID)
		}
	}
	for _, entry := range entries {
		if _, ok := s.accts[entry.AccountID]; !ok {
			return fmt.Errorf("failed to record transaction for account %d: no such account", entry.AccountID)
		}
	}

	now := time.Now().UTC()
	for _, account := range accounts {
		stored := s.accts[account.ID]
		stored.OwnerName = account.OwnerName
		stored.Balance = account.Balance
		stored.UpdatedAt = now
	}
	for _, entry := range entries {
		s.appendEntry(entry)
	}
	return nil
}

// Delete removes an account. Accounts with recorded transactions are
// kept, matching the restricted cascade of the database schema.
func (s *MemoryStore) Delete(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accts[account.ID]; !ok {
		return ErrNotFound
	}
	if len(s.entries[account.ID]) > 0 {
		return fmt.Errorf("failed to delete account %d: transaction history exists", account.ID)
	}

	delete(s.accts, account.ID)
	for i, id := range s.order {
		if id == account.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// TransactionsByAccount returns copies of the account's history in
// chronological order
func (s *MemoryStore) TransactionsByAccount(ctx context.Context, accountID int64) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accts[accountID]; !ok {
		return nil, ErrNotFound
	}
	stored := s.entries[accountID]
	entries := make([]*models.Transaction, 0, len(stored))
	for _, entry := range stored {
		cp := *entry
		entries = append(entries, &cp)
	}
	return entries, nil
}

// appendEntry assigns identity and capture time to an entry and stores a
// private copy. Callers must hold the mutex.
func (s *MemoryStore) appendEntry(entry *models.Transaction) {
	s.nextTID++
	entry.ID = s.nextTID
	entry.Timestamp = time.Now().UTC()
	cp := *entry
	s.entries[entry.AccountID] = append(s.entries[entry.AccountID], &cp)
}
