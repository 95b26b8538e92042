package postgresdb

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// QueryRaw runs a hand-written query and collects every row into T by column name.
// Use pgx.NamedArgs for args so the SQL can reference @names.
func QueryRaw[T any](ctx context.Context, db Querier, sql string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, HandlePgError(err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, HandlePgError(err)
	}
	return records, nil
}

// QueryRawOne is QueryRaw for queries that return exactly one row.
func QueryRawOne[T any](ctx context.Context, db Querier, sql string, args ...any) (T, error) {
	var zero T
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return zero, HandlePgError(err)
	}
	defer rows.Close()

	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, HandlePgError(err)
	}
	return record, nil
}

// ExecRaw runs a hand-written statement and returns the number of rows affected.
func ExecRaw(ctx context.Context, db Querier, sql string, args ...any) (int64, error) {
	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, HandlePgError(err)
	}
	return tag.RowsAffected(), nil
}
