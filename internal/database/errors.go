package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/portfolio-be/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err comes from a UNIQUE or PRIMARY KEY
// constraint on either supported driver.
func IsUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// Classify maps a driver error onto the application taxonomy: missing rows
// become apperr.ErrNotFound, uniqueness violations apperr.ErrConflict, and
// every other storage fault apperr.ErrStoreUnavailable.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return apperr.ErrNotFound
	case IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", apperr.ErrConflict, err)
	default:
		return fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, err)
	}
}
