package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MirosMazurenko/Banking-solution/internal/models"
	"github.com/shopspring/decimal"
)

// PostgresStore provides database-backed account storage
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore initializes a new Postgres-backed store
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InitSchema creates the bank schema and tables if they do not exist.
// Balances and transaction amounts are NUMERIC(18,2); the transactions
// foreign key is restricted so accounts with history cannot be deleted.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	statements := []string{
		`CREATE SCHEMA IF NOT EXISTS bank`,
		`CREATE TABLE IF NOT EXISTS bank.accounts (
			id BIGSERIAL PRIMARY KEY,
			owner_name VARCHAR(100) NOT NULL,
			balance NUMERIC(18, 2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS bank.transactions (
			id BIGSERIAL PRIMARY KEY,
			account_id BIGINT NOT NULL REFERENCES bank.accounts (id) ON DELETE RESTRICT,
			amount NUMERIC(18, 2) NOT NULL,
			type VARCHAR(20) NOT NULL,
			reference VARCHAR(36) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON bank.transactions (account_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Create stores a new account and returns it with its assigned ID
func (s *PostgresStore) Create(ctx context.Context, ownerName string, initialBalance decimal.Decimal) (*models.Account, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	account := &models.Account{
		OwnerName: ownerName,
		Balance:   initialBalance,
	}
	query := `
		INSERT INTO bank.accounts (owner_name, balance, created_at, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, query, ownerName, initialBalance).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if initialBalance.Sign() > 0 {
		opening := &models.Transaction{
			AccountID: account.ID,
			Amount:    initialBalance,
			Type:      models.TxOpening,
		}
		if err := insertEntry(ctx, tx, opening); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit account creation: %w", err)
	}
	return account, nil
}

// GetByID retrieves an account by its ID
func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	account := &models.Account{}
	query := `
		SELECT id, owner_name, balance, created_at, updated_at
		FROM bank.accounts
		WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&account.ID, &account.OwnerName, &account.Balance, &account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}
	return account, nil
}

// GetAll retrieves every account in insertion order
func (s *PostgresStore) GetAll(ctx context.Context) ([]*models.Account, error) {
	query := `
		SELECT id, owner_name, balance, created_at, updated_at
		FROM bank.accounts
		ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*models.Account, 0)
	for rows.Next() {
		account := &models.Account{}
		err := rows.Scan(&account.ID, &account.OwnerName, &account.Balance, &account.CreatedAt, &account.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// Update persists the full state of an existing account along with any
// history entries, as one transaction
func (s *PostgresStore) Update(ctx context.Context, account *models.Account, entries ...*models.Transaction) error {
	return s.UpdateAll(ctx, []*models.Account{account}, entries)
}

// UpdateAll persists several accounts and their history entries as a
// single all-or-nothing unit
func (s *PostgresStore) UpdateAll(ctx context.Context, accounts []*models.Account, entries []*models.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, account := range accounts {
		if err := updateAccount(ctx, tx, account); err != nil {
			return err
		}
	}
	for _, entry := range entries {
		if err := insertEntry(ctx, tx, entry); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit account update: %w", err)
	}
	return nil
}

// Delete removes an account. The restricted foreign key rejects deletion
// while transaction history exists.
func (s *PostgresStore) Delete(ctx context.Context, account *models.Account) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM bank.accounts WHERE id = $1`, account.ID)
	if err != nil {
		return fmt.Errorf("failed to delete account %d: %w", account.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete account %d: %w", account.ID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// TransactionsByAccount retrieves the account's history in chronological order
func (s *PostgresStore) TransactionsByAccount(ctx context.Context, accountID int64) ([]*models.Transaction, error) {
	if _, err := s.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, account_id, amount, type, reference, created_at
		FROM bank.transactions
		WHERE account_id = $1
		ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %d: %w", accountID, err)
	}
	defer rows.Close()

	entries := make([]*models.Transaction, 0)
	for rows.Next() {
		entry := &models.Transaction{}
		err := rows.Scan(&entry.ID, &entry.AccountID, &entry.Amount, &entry.Type, &entry.Reference, &entry.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %d: %w", accountID, err)
	}
	return entries, nil
}

func updateAccount(ctx context.Context, tx *sql.Tx, account *models.Account) error {
	query := `
		UPDATE bank.accounts
		SET owner_name = $2, balance = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`
	result, err := tx.ExecContext(ctx, query, account.ID, account.OwnerName, account.Balance)
	if err != nil {
		return fmt.Errorf("failed to update account %d: %w", account.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update account %d: %w", account.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("failed to update account %d: no such account", account.ID)
	}
	return nil
}

func insertEntry(ctx context.Context, tx *sql.Tx, entry *models.Transaction) error {
	query := `
		INSERT INTO bank.transactions (account_id, amount, type, reference, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := tx.QueryRowContext(ctx, query, entry.AccountID, entry.Amount, entry.Type, entry.Reference).
		Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to record transaction for account %d: %w", entry.AccountID, err)
	}
	return nil
}
