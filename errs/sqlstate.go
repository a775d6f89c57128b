package errs

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE codes the accessor callers care about.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
)

// SQLState extracts the PostgreSQL SQLSTATE from err, for either driver.
// It returns "" when err carries no engine error.
func SQLState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether the engine rejected a write because of a
// unique or primary key constraint, e.g. linking the same user and project
// twice.
func IsUniqueViolation(err error) bool {
	return SQLState(err) == UniqueViolation
}

// IsForeignKeyViolation reports whether a referenced row does not exist.
func IsForeignKeyViolation(err error) bool {
	return SQLState(err) == ForeignKeyViolation
}
