package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      string
		transient bool
	}{
		{"record not found", gorm.ErrRecordNotFound, shared.CodeNotFound, false},
		{"duplicated key", gorm.ErrDuplicatedKey, shared.CodeAlreadyExists, false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, shared.CodeAlreadyExists, false},
		{"lock timeout", fmt.Errorf("select: %w", &pgconn.PgError{Code: "55P03"}), shared.CodeStorageFailure, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, shared.CodeStorageFailure, true},
		{"other driver error", errors.New("connection reset"), shared.CodeStorageFailure, false},
		{"domain error passes through", shared.ErrConcurrencyConflict, shared.CodeConcurrencyConflict, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(tt.err)

			var domainErr *shared.DomainError
			if assert.ErrorAs(t, err, &domainErr) {
				assert.Equal(t, tt.code, domainErr.Code)
				assert.Equal(t, tt.transient, domainErr.Transient)
			}
		})
	}

	assert.NoError(t, translateError(nil))
}

func TestTranslateError_KeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := translateError(cause)
	assert.ErrorIs(t, err, cause)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\o/`, escapeLike(`50% off_now \o/`))
}
