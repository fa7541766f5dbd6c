package db

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"github.com/storyreel/storyreel/pkg/models"
)

const idColumn = "id"

var dialect = goqu.Dialect("sqlite3")

type repository struct {
	tableName string
	idColumn  string
}

func (r *repository) destroyExisting(ctx context.Context, ids []int) error {
	for _, id := range ids {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}

		if !exists {
			return fmt.Errorf("%s %d does not exist in %s: %w", r.idColumn, id, r.tableName, models.ErrNotFound)
		}
	}

	return r.destroy(ctx, ids)
}

func (r *repository) destroy(ctx context.Context, ids []int) error {
	w, err := getDBWrapper(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		q := dialect.Delete(r.tableName).Where(goqu.C(r.idColumn).Eq(id))
		if _, err := w.Destroy(ctx, q); err != nil {
			return err
		}
	}

	return nil
}

func (r *repository) exists(ctx context.Context, id int) (bool, error) {
	q := dialect.Select(goqu.COUNT("*")).From(r.tableName).Where(goqu.C(r.idColumn).Eq(id))

	c, err := r.queryInt(ctx, q)
	if err != nil {
		return false, err
	}

	return c > 0, nil
}

func (r *repository) count(ctx context.Context) (int, error) {
	return r.queryInt(ctx, dialect.Select(goqu.COUNT("*")).From(r.tableName))
}

func (r *repository) queryInt(ctx context.Context, q *goqu.SelectDataset) (int, error) {
	w, err := getDBWrapper(ctx)
	if err != nil {
		return 0, err
	}

	return w.GetInt(ctx, q)
}

// queryFunc runs a query returning a single or multiple rows, running f for each returned row
func (r *repository) queryFunc(ctx context.Context, q *goqu.SelectDataset, single bool, f func(rows *sqlx.Rows) error) error {
	w, err := getDBWrapper(ctx)
	if err != nil {
		return err
	}

	return w.QueryFunc(ctx, q, single, f)
}
