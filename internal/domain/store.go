package domain

// Store bundles the repositories behind a single storage handle.
// WithTransaction yields a Store whose repositories all run inside one
// database transaction; the engine leans on that plus row locking for
// per-account serialization.
type Store interface {
	Account() AccountRepository
	Transaction() TransactionRepository
	Settings() SettingsRepository
	WithTransaction(fn func(Store) error) error
}
