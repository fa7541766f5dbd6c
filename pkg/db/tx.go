package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"github.com/storyreel/storyreel/pkg/logger"
)

const (
	slowLogTime = time.Millisecond * 200
)

type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)

	Rebind(query string) string
}

func logSQL(start time.Time, query string, args ...interface{}) {
	since := time.Since(start)
	if since >= slowLogTime {
		logger.Debugf("SLOW SQL [%v]: %s, args: %v", since, query, args)
	} else {
		logger.Tracef("SQL [%v]: %s, args: %v", since, query, args)
	}
}

type dbWrapper struct {
	tx txWrapper
}

func (w *dbWrapper) Insert(ctx context.Context, query *goqu.InsertDataset) (sql.Result, error) {
	q, args, err := query.WithDialect("sqlite3").Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	return w.tx.Exec(ctx, q, args...)
}

func (w *dbWrapper) Update(ctx context.Context, query *goqu.UpdateDataset) (sql.Result, error) {
	q, args, err := query.WithDialect("sqlite3").Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	return w.tx.Exec(ctx, q, args...)
}

func (w *dbWrapper) Destroy(ctx context.Context, query *goqu.DeleteDataset) (sql.Result, error) {
	q, args, err := query.WithDialect("sqlite3").Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	return w.tx.Exec(ctx, q, args...)
}

func (w *dbWrapper) InsertID(ctx context.Context, query *goqu.InsertDataset) (int, error) {
	result, err := w.Insert(ctx, query)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	return int(id), nil
}

func (w *dbWrapper) GetInt(ctx context.Context, query *goqu.SelectDataset) (int, error) {
	q, args, err := query.WithDialect("sqlite3").Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}

	var ret int
	if err := w.tx.Get(ctx, &ret, q, args...); err != nil {
		return 0, err
	}
	return ret, nil
}

// QueryFunc runs the query, calling f for each returned row. If single is
// true, only the first row is read.
func (w *dbWrapper) QueryFunc(ctx context.Context, query *goqu.SelectDataset, single bool, f func(rows *sqlx.Rows) error) error {
	q, args, err := query.WithDialect("sqlite3").Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	rows, err := w.tx.Query(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := f(rows); err != nil {
			return err
		}
		if single {
			break
		}
	}

	return rows.Err()
}

type txWrapper struct {
	tx Queryer
}

func sqlError(err error, sql string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("error executing `%s` [%v]: %w", sql, args, err)
}

func (w *txWrapper) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if len(args) > 0 {
		query = w.tx.Rebind(query)
	}

	start := time.Now()
	ret, err := w.tx.ExecContext(ctx, query, args...)
	logSQL(start, query, args...)

	return ret, sqlError(err, query, args...)
}

func (w *txWrapper) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if len(args) > 0 {
		query = w.tx.Rebind(query)
	}

	start := time.Now()
	err := w.tx.GetContext(ctx, dest, query, args...)
	logSQL(start, query, args...)

	return sqlError(err, query, args...)
}

func (w *txWrapper) Query(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	if len(args) > 0 {
		query = w.tx.Rebind(query)
	}

	start := time.Now()
	ret, err := w.tx.QueryxContext(ctx, query, args...)
	logSQL(start, query, args...)

	return ret, sqlError(err, query, args...)
}
