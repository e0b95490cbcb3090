package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/MirosMazurenko/Banking-solution/internal/cache"
	"github.com/MirosMazurenko/Banking-solution/internal/models"
	"github.com/MirosMazurenko/Banking-solution/internal/repository"
)

// Service enforces the business rules for account mutations: amount
// validation, the non-negative balance invariant, and atomic two-account
// transfers. All storage access goes through the AccountStore contract.
type Service struct {
	store repository.AccountStore
	cache *cache.AccountCache
	log   *logrus.Logger
	locks accountLocks
}

// NewService initializes a new service. accountCache may be nil when no
// cache is configured.
func NewService(store repository.AccountStore, accountCache *cache.AccountCache, log *logrus.Logger) *Service {
	return &Service{store: store, cache: accountCache, log: log}
}

// CreateAccount opens an account with the given owner and initial balance.
func (s *Service) CreateAccount(ctx context.Context, ownerName string, initialBalance decimal.Decimal) (*models.Account, error) {
	if initialBalance.IsNegative() {
		return nil, fmt.Errorf("initial balance cannot be negative: %w", ErrInvalidAmount)
	}

	account, err := s.store.Create(ctx, ownerName, initialBalance)
	if err != nil {
		return nil, err
	}

	s.log.Infof("Account %d created for %s with balance %s", account.ID, account.OwnerName, account.Balance.StringFixed(2))
	return account, nil
}

// GetAccountDetails returns the current state of one account.
func (s *Service) GetAccountDetails(ctx context.Context, id int64) (*models.Account, error) {
	if account, ok := s.cache.Get(ctx, id); ok {
		return account, nil
	}

	account, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("account with ID %d not found: %w", id, ErrAccountNotFound)
	}
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, account)
	return account, nil
}

// ListAllAccounts returns every account in creation order.
func (s *Service) ListAllAccounts(ctx context.Context) ([]*models.Account, error) {
	return s.store.GetAll(ctx)
}

// ListTransactions returns the account's recorded history.
func (s *Service) ListTransactions(ctx context.Context, id int64) ([]*models.Transaction, error) {
	entries, err := s.store.TransactionsByAccount(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("account with ID %d not found: %w", id, ErrAccountNotFound)
	}
	return entries, err
}

// Deposit credits an account. The amount must be strictly positive.
func (s *Service) Deposit(ctx context.Context, id int64, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("deposit amount must be greater than zero: %w", ErrInvalidAmount)
	}

	unlock := s.locks.lock(id)
	defer unlock()

	account, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("account with ID %d not found: %w", id, ErrAccountNotFound)
	}
	if err != nil {
		return err
	}

	account.Balance = account.Balance.Add(amount)
	entry := &models.Transaction{AccountID: id, Amount: amount, Type: models.TxDeposit}
	if err := s.store.Update(ctx, account, entry); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)

	s.log.Infof("Deposited %s to account %d, balance %s", amount.StringFixed(2), id, account.Balance.StringFixed(2))
	return nil
}

// Withdraw debits an account. The amount must be strictly positive and
// must not exceed the current balance.
func (s *Service) Withdraw(ctx context.Context, id int64, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("withdraw amount must be greater than zero: %w", ErrInvalidAmount)
	}

	unlock := s.locks.lock(id)
	defer unlock()

	account, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("account with ID %d not found: %w", id, ErrAccountNotFound)
	}
	if err != nil {
		return err
	}

	if account.Balance.LessThan(amount) {
		return fmt.Errorf("insufficient funds: %w", ErrInsufficientFunds)
	}

	account.Balance = account.Balance.Sub(amount)
	entry := &models.Transaction{AccountID: id, Amount: amount.Neg(), Type: models.TxWithdrawal}
	if err := s.store.Update(ctx, account, entry); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)

	s.log.Infof("Withdrew %s from account %d, balance %s", amount.StringFixed(2), id, account.Balance.StringFixed(2))
	return nil
}

// Transfer moves funds between two distinct accounts. Both balance
// updates and both history legs commit as one unit or not at all.
func (s *Service) Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("transfer amount must be positive: %w", ErrInvalidAmount)
	}
	if fromID == toID {
		return fmt.Errorf("cannot transfer from account %d to itself: %w", fromID, ErrSameAccount)
	}

	unlock := s.locks.lockPair(fromID, toID)
	defer unlock()

	from, err := s.store.GetByID(ctx, fromID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("source account not found: %w", ErrAccountNotFound)
	}
	if err != nil {
		return err
	}

	to, err := s.store.GetByID(ctx, toID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("destination account not found: %w", ErrAccountNotFound)
	}
	if err != nil {
		return err
	}

	if from.Balance.LessThan(amount) {
		return fmt.Errorf("insufficient funds in source account: %w", ErrInsufficientFunds)
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)

	reference := uuid.NewString()
	entries := []*models.Transaction{
		{AccountID: fromID, Amount: amount.Neg(), Type: models.TxTransferOut, Reference: reference},
		{AccountID: toID, Amount: amount, Type: models.TxTransferIn, Reference: reference},
	}
	if err := s.store.UpdateAll(ctx, []*models.Account{from, to}, entries); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, fromID)
	s.cache.Invalidate(ctx, toID)

	s.log.Infof("Transferred %s from account %d to account %d", amount.StringFixed(2), fromID, toID)
	return nil
}

// Discrepancy reports an account whose stored balance disagrees with the
// signed sum of its transaction history.
type Discrepancy struct {
	AccountID    int64
	Balance      decimal.Decimal
	HistoryTotal decimal.Decimal
	Drift        decimal.Decimal
}

// AuditBalances checks every account against its history. Each account is
// checked under its operation lock so the comparison sees a consistent
// snapshot even while mutations are in flight.
func (s *Service) AuditBalances(ctx context.Context) ([]Discrepancy, error) {
	accounts, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var discrepancies []Discrepancy
	for _, account := range accounts {
		d, ok, err := s.auditAccount(ctx, account.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Deleted between listing and the check.
				continue
			}
			return nil, err
		}
		if ok {
			discrepancies = append(discrepancies, d)
		}
	}
	return discrepancies, nil
}

func (s *Service) auditAccount(ctx context.Context, id int64) (Discrepancy, bool, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	account, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Discrepancy{}, false, err
	}
	entries, err := s.store.TransactionsByAccount(ctx, id)
	if err != nil {
		return Discrepancy{}, false, err
	}

	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.Amount)
	}
	if total.Equal(account.Balance) {
		return Discrepancy{}, false, nil
	}
	return Discrepancy{
		AccountID:    id,
		Balance:      account.Balance,
		HistoryTotal: total,
		Drift:        account.Balance.Sub(total),
	}, true, nil
}
