package postgresdb

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestHandlePgError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name    string
		err     error
		want    error
		message string
	}{
		{name: "nil", err: nil, want: nil},
		{name: "no rows", err: fmt.Errorf("scan: %w", pgx.ErrNoRows), want: ErrDBNotFound},
		{
			name:    "unique",
			err:     &pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"},
			want:    ErrDBDuplicatedEntry,
			message: "duplicated entry: users_email_key",
		},
		{
			name:    "foreign key",
			err:     &pgconn.PgError{Code: foreignKeyViolation, ConstraintName: "events_user_id_fkey"},
			want:    ErrDBForeignKey,
			message: "foreign key violation: events_user_id_fkey",
		},
		{
			name:    "not null",
			err:     &pgconn.PgError{Code: notNullViolation, ColumnName: "title"},
			want:    ErrDBConstraint,
			message: "constraint violation: title",
		},
		{
			name:    "check without detail",
			err:     &pgconn.PgError{Code: checkViolation},
			want:    ErrDBConstraint,
			message: "constraint violation",
		},
		{name: "undefined table", err: &pgconn.PgError{Code: undefinedTable}, want: ErrUndefinedTable},
		{name: "other", err: other, want: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandlePgError(tt.err)
			if tt.want == nil {
				require.NoError(t, got)
				return
			}
			require.ErrorIs(t, got, tt.want)
			if tt.message != "" {
				require.EqualError(t, got, tt.message)
			}
		})
	}
}
