package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"no rows", pgx.ErrNoRows, CodeNotFound, http.StatusNotFound},
		{"wrapped no rows", fmt.Errorf("get user: %w", pgx.ErrNoRows), CodeNotFound, http.StatusNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, CodeConflict, http.StatusConflict},
		{"other pg error", &pgconn.PgError{Code: "08006"}, CodeStoreFailure, http.StatusInternalServerError},
		{"plain error", errors.New("boom"), CodeStoreFailure, http.StatusInternalServerError},
		{"domain error", NewInvalidInput("bad", nil), CodeInvalidInput, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			require.NotNil(t, de)
			assert.Equal(t, tt.wantCode, de.Code)
			assert.Equal(t, tt.wantStatus, de.HTTPStatus)
		})
	}
}

func TestMapErrorNil(t *testing.T) {
	assert.NoError(t, MapError(nil))
	assert.Nil(t, ToDomainError(nil))
}

func TestStoreFailureKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreFailure(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Internal Server Error: connection refused", err.Error())
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewNotFound("agent", map[string]any{"employee_id": 101}))
	assert.True(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(err, CodeConflict))
	assert.False(t, IsCode(errors.New("x"), CodeNotFound))
}

func TestNewValidationFailed(t *testing.T) {
	err := NewValidationFailed([]FieldError{{Field: "email", Message: "email must be a valid email", Code: "email"}})

	domainErr := ToDomainError(err)
	assert.Equal(t, CodeInvalidInput, domainErr.Code)
	assert.Equal(t, ValidationFailedMessage, domainErr.Message)
	assert.Len(t, domainErr.Fields, 1)
}
