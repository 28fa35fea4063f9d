package persistence

import (
	"errors"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the repositories care about
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
)

// translateError maps driver and GORM errors onto the domain error set.
// Domain errors pass through untouched so callers can wrap freely.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return shared.ErrAlreadyExists
		case pgLockNotAvailable, pgQueryCanceled:
			return shared.NewTransientStorageError("The item is busy, please try again", err)
		case pgDeadlockDetected, pgSerializationFailure:
			return shared.NewTransientStorageError("Please try again", err)
		}
	}

	return shared.NewStorageError("Storage failure", err)
}
