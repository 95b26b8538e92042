package postgresdb

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes.
const (
	notNullViolation    = "23502"
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
	checkViolation      = "23514"
	undefinedTable      = "42P01"
)

// Normalized store errors. HandlePgError returns one of these, wrapped with the
// constraint or column name when PostgreSQL reports it.
var (
	ErrDBNotFound        = pgx.ErrNoRows
	ErrDBDuplicatedEntry = errors.New("duplicated entry")
	ErrDBForeignKey      = errors.New("foreign key violation")
	ErrDBConstraint      = errors.New("constraint violation")
	ErrUndefinedTable    = errors.New("undefined table")
)

// HandlePgError converts PostgreSQL errors to application errors. The constraint name
// is kept in the message so callers can tell which key collided.
func HandlePgError(err error) error {
	if err == nil {
		return nil
	}

	var pqerr *pgconn.PgError
	if errors.As(err, &pqerr) {
		switch pqerr.Code {
		case undefinedTable:
			return ErrUndefinedTable
		case uniqueViolation:
			return constraintError(ErrDBDuplicatedEntry, pqerr)
		case foreignKeyViolation:
			return constraintError(ErrDBForeignKey, pqerr)
		case notNullViolation, checkViolation:
			return constraintError(ErrDBConstraint, pqerr)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDBNotFound
	}

	return err
}

func constraintError(kind error, pqerr *pgconn.PgError) error {
	switch {
	case pqerr.ConstraintName != "":
		return fmt.Errorf("%w: %s", kind, pqerr.ConstraintName)
	case pqerr.ColumnName != "":
		return fmt.Errorf("%w: %s", kind, pqerr.ColumnName)
	}
	return kind
}
