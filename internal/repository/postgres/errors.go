package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"collabhub/internal/common"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

// notFoundOr maps sql.ErrNoRows to CodeNotFound and anything else to
// CodeInternal with the given message.
func notFoundOr(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.NewError(common.CodeNotFound, notFound, err)
	}
	return common.NewError(common.CodeInternal, internal, err)
}

type scanner interface {
	Scan(dest ...any) error
}
