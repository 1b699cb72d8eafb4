package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")
	ErrHealthcheckFailed        = errors.New("healthcheck failed, connection is not available")
	ErrFailedToParseDBConfig    = errors.New("failed to parse db config")
	ErrFailedToApplyMigrations  = errors.New("failed to apply migrations")
	ErrMigrationsNotProvided    = errors.New("migrations filesystem not provided")
)

// SQLSTATE codes of the integrity constraint violation class (23).
const (
	CodeRestrictViolation   = "23001"
	CodeNotNullViolation    = "23502"
	CodeForeignKeyViolation = "23503"
	CodeUniqueViolation     = "23505"
	CodeCheckViolation      = "23514"
	CodeExclusionViolation  = "23P01"
)

// SQLState returns the SQLSTATE of a PostgreSQL error, or "" if err does not
// carry one.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsIntegrityViolation reports whether err is any class 23 error.
func IsIntegrityViolation(err error) bool {
	code := SQLState(err)
	return len(code) == 5 && code[:2] == "23"
}

// IsNotFoundError detects pgx.ErrNoRows for consistent "not found" handling across queries.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, pgx.ErrNoRows)
}

// IsTxClosedError detects attempts to use closed transactions.
func IsTxClosedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, pgx.ErrTxClosed)
}

// IsDuplicateKeyError detects unique constraint violations (SQLSTATE 23505).
func IsDuplicateKeyError(err error) bool {
	return SQLState(err) == CodeUniqueViolation
}

// IsForeignKeyViolationError detects referential integrity violations (SQLSTATE 23503).
func IsForeignKeyViolationError(err error) bool {
	return SQLState(err) == CodeForeignKeyViolation
}

// IsNotNullViolationError detects NULL written to a NOT NULL column (SQLSTATE 23502).
func IsNotNullViolationError(err error) bool {
	return SQLState(err) == CodeNotNullViolation
}

// IsCheckViolationError detects CHECK constraint failures (SQLSTATE 23514).
func IsCheckViolationError(err error) bool {
	return SQLState(err) == CodeCheckViolation
}

// IsRestrictViolationError detects ON DELETE RESTRICT failures (SQLSTATE 23001).
func IsRestrictViolationError(err error) bool {
	return SQLState(err) == CodeRestrictViolation
}
