package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	apperrors "parkwise/internal/errors"
)

// PostgresStore implements Store on top of database/sql + lib/pq.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation, optionally on a specific constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func notFound(what string) error {
	return apperrors.New(apperrors.KindNotFound, what+" not found")
}
