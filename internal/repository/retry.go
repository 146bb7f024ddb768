package repository

import (
	"log/slog"
	"time"

	"github.com/lib/pq"

	"casino-wallet/internal/errors"
)

// Contention SQLSTATEs that a bounded retry can recover from.
var retryableSQLStates = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
}

// IsRetryable reports whether err is a transient storage contention error.
func IsRetryable(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return retryableSQLStates[string(pqErr.Code)]
	}
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr.Code == errors.StorageConflict
	}
	return false
}

// wrapStorageError maps a driver error onto the AppError taxonomy.
// Contention SQLSTATEs become StorageConflict so they stay recognizable to
// IsRetryable after wrapping; everything else is an internal error.
func wrapStorageError(err error, message string) *errors.AppError {
	if pqErr, ok := err.(*pq.Error); ok && retryableSQLStates[string(pqErr.Code)] {
		return errors.NewAppError(errors.StorageConflict, message).WithDetails(err.Error())
	}
	return errors.NewAppError(errors.InternalError, message).WithDetails(err.Error())
}

// WithRetry runs fn up to maxAttempts times, sleeping delay between attempts,
// retrying only on transient contention errors. Any other error is returned
// to the caller immediately; exhausting the attempts returns a storage
// conflict. Not tied to any particular storage backend: callers decide what
// counts as retryable through IsRetryable.
func WithRetry(logger *slog.Logger, maxAttempts int, delay time.Duration, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt < maxAttempts {
			logger.Warn("Retrying after storage contention",
				"attempt", attempt, "max_attempts", maxAttempts, "error", err)
			time.Sleep(delay)
		}
	}
	return errors.NewAppError(errors.StorageConflict, "storage contention, retries exhausted").WithDetails(err.Error())
}
