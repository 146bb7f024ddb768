package repository

import (
	"database/sql"
	"log/slog"

	"casino-wallet/internal/domain"
	"casino-wallet/internal/errors"
)

// Store provides a unified interface for all repository operations with
// transaction support. A Store built by WithTransaction routes every
// repository call through the same sql.Tx, which is what keeps a callback's
// read-modify-write-log span atomic.
type Store struct {
	executor SQLExecutor
	logger   *slog.Logger
}

// NewStore creates a new Store instance
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		executor: db,
		logger:   logger,
	}
}

var _ domain.Store = (*Store)(nil)

// Account returns an AccountRepository using the current executor
func (s *Store) Account() domain.AccountRepository {
	return NewAccountRepository(s.executor, s.logger)
}

// Transaction returns a TransactionRepository using the current executor
func (s *Store) Transaction() domain.TransactionRepository {
	return NewTransactionRepository(s.executor, s.logger)
}

// Settings returns a SettingsRepository using the current executor
func (s *Store) Settings() domain.SettingsRepository {
	return NewSettingsRepository(s.executor, s.logger)
}

// WithTransaction executes fn within a single database transaction. fn
// receives a Store bound to that transaction; returning an error rolls the
// whole span back.
func (s *Store) WithTransaction(fn func(domain.Store) error) error {
	db, ok := s.executor.(*sql.DB)
	if !ok {
		return errors.NewAppError(errors.InternalError, "cannot begin a nested transaction")
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	txStore := &Store{
		executor: &TxWrapper{Tx: tx},
		logger:   s.logger,
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
