// internal/repository/repository.go
package repository

import (
	"errors"
	"log/slog"

	"github.com/dangerclosesec/siren/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes the repositories translate
const (
	pgUndefinedTable = "42P01"
)

// translateError maps driver and gorm errors onto domain errors. Unknown
// errors are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		slog.Warn("table missing", "table", pgErr.TableName, "message", pgErr.Message)
		return domain.ErrSchemaMissing
	}

	return err
}
