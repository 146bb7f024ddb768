package service

import (
	"sync"

	"github.com/shopspring/decimal"

	"casino-wallet/internal/domain"
	"casino-wallet/internal/errors"
)

// fakeStore is an in-memory domain.Store. WithTransaction holds a mutex for
// the whole span, standing in for the row lock the real store takes, and
// rolls back on error.
type fakeStore struct {
	mu           sync.Mutex
	nextID       int64
	accounts     map[string]*domain.Account
	transactions []*domain.Transaction
	policy       domain.ThresholdPolicy
}

func newFakeStore(policy domain.ThresholdPolicy) *fakeStore {
	return &fakeStore{
		nextID:   1,
		accounts: make(map[string]*domain.Account),
		policy:   policy,
	}
}

func (s *fakeStore) addAccount(externalID string, balance, freeCredit decimal.Decimal) *domain.Account {
	account := &domain.Account{
		ID:           s.nextID,
		ExternalID:   externalID,
		Balance:      balance,
		FreeCredit:   freeCredit,
		KYCStatus:    domain.KYCPending,
		TotalWagered: decimal.Zero,
		TotalWon:     decimal.Zero,
		CurrencyCode: "USD",
	}
	s.nextID++
	s.accounts[externalID] = account
	return account
}

func (s *fakeStore) account(externalID string) *domain.Account {
	return s.accounts[externalID]
}

func (s *fakeStore) transactionsOfType(txType domain.TransactionType) []*domain.Transaction {
	var out []*domain.Transaction
	for _, tx := range s.transactions {
		if tx.Type == txType {
			out = append(out, tx)
		}
	}
	return out
}

func (s *fakeStore) Account() domain.AccountRepository         { return &fakeAccountRepo{s} }
func (s *fakeStore) Transaction() domain.TransactionRepository { return &fakeTransactionRepo{s} }
func (s *fakeStore) Settings() domain.SettingsRepository       { return &fakeSettingsRepo{s} }

func (s *fakeStore) WithTransaction(fn func(domain.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]*domain.Account, len(s.accounts))
	for k, v := range s.accounts {
		copied := *v
		snapshot[k] = &copied
	}
	txCount := len(s.transactions)

	if err := fn(s); err != nil {
		s.accounts = snapshot
		s.transactions = s.transactions[:txCount]
		return err
	}
	return nil
}

type fakeAccountRepo struct{ s *fakeStore }

func (r *fakeAccountRepo) CreateAccount(account *domain.Account) error {
	if _, exists := r.s.accounts[account.ExternalID]; exists {
		return errors.ErrDuplicateAccount
	}
	account.ID = r.s.nextID
	r.s.nextID++
	copied := *account
	r.s.accounts[account.ExternalID] = &copied
	return nil
}

func (r *fakeAccountRepo) GetAccountByExternalID(externalID string) (*domain.Account, error) {
	account, ok := r.s.accounts[externalID]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) GetAccountForUpdate(externalID string) (*domain.Account, error) {
	return r.GetAccountByExternalID(externalID)
}

func (r *fakeAccountRepo) UpdateAccountState(account *domain.Account) error {
	for _, existing := range r.s.accounts {
		if existing.ID == account.ID {
			copied := *account
			r.s.accounts[existing.ExternalID] = &copied
			return nil
		}
	}
	return errors.ErrAccountNotFound
}

type fakeTransactionRepo struct{ s *fakeStore }

func (r *fakeTransactionRepo) CreateTransaction(tx *domain.Transaction) error {
	copied := *tx
	r.s.transactions = append(r.s.transactions, &copied)
	return nil
}

func (r *fakeTransactionRepo) ListTransactionsByAccount(accountID int64, limit int) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for i := len(r.s.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.transactions[i].AccountID == accountID {
			out = append(out, r.s.transactions[i])
		}
	}
	return out, nil
}

type fakeSettingsRepo struct{ s *fakeStore }

func (r *fakeSettingsRepo) GetThresholdPolicy() (*domain.ThresholdPolicy, error) {
	policy := r.s.policy
	return &policy, nil
}

func (r *fakeSettingsRepo) UpdateThresholdPolicy(policy *domain.ThresholdPolicy) error {
	r.s.policy = *policy
	return nil
}
