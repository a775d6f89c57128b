package dbx

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNoGeneratedKey is returned by InsertID when the insert produced no row.
var ErrNoGeneratedKey = errors.New("no generated key obtained")

// Statement is a parameterized query with its arguments bound in order to
// $1..$n. It keeps no state between executions.
type Statement struct {
	Query      string
	Args       []any
	ReturnKeys bool
}

// Prepare binds values to query. With returnKeys the generated primary key
// is read back through a RETURNING clause. Calendar dates are converted to
// the engine's date representation.
func Prepare(query string, returnKeys bool, values ...any) Statement {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = bindValue(v)
	}
	if returnKeys {
		query += " RETURNING id"
	}
	return Statement{Query: query, Args: args, ReturnKeys: returnKeys}
}

func bindValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return SQLDate(&t)
	case *time.Time:
		return SQLDate(t)
	default:
		return v
	}
}

// SQLDate keeps the calendar date of t as read in t's own location and
// binds it as midnight UTC. A nil t binds as NULL.
func SQLDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Exec runs the statement and returns the number of affected rows.
func (s Statement) Exec(ctx context.Context, db DBTX) (int64, error) {
	res, err := db.ExecContext(ctx, s.Query, s.Args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// InsertID runs an insert prepared with returnKeys and scans the generated id.
func (s Statement) InsertID(ctx context.Context, db DBTX) (int64, error) {
	if !s.ReturnKeys {
		return 0, errors.New("statement was not prepared to return generated keys")
	}
	var id int64
	if err := db.QueryRowContext(ctx, s.Query, s.Args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNoGeneratedKey
		}
		return 0, err
	}
	return id, nil
}

// Rows runs the statement and returns its result set. The caller closes it.
func (s Statement) Rows(ctx context.Context, db DBTX) (*sql.Rows, error) {
	return db.QueryContext(ctx, s.Query, s.Args...)
}

func (s Statement) QueryRow(ctx context.Context, db DBTX) *sql.Row {
	return db.QueryRowContext(ctx, s.Query, s.Args...)
}
