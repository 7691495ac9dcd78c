package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dangerclosesec/siren/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), domain.ErrNotFound)
	assert.ErrorIs(t, translateError(fmt.Errorf("wrapped: %w", gorm.ErrRecordNotFound)), domain.ErrNotFound)

	missing := &pgconn.PgError{Code: "42P01", Message: `relation "check_runs" does not exist`}
	assert.ErrorIs(t, translateError(missing), domain.ErrSchemaMissing)

	other := &pgconn.PgError{Code: "23505"}
	assert.Same(t, other, translateError(other))

	plain := errors.New("connection refused")
	assert.Equal(t, plain, translateError(plain))
}
