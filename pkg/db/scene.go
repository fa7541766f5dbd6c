package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"
	"gopkg.in/guregu/null.v4/zero"

	"github.com/storyreel/storyreel/pkg/models"
)

const sceneTable = "scenes"

type sceneRow struct {
	ID          int         `db:"id" goqu:"skipinsert"`
	SourceURL   string      `db:"source_url"`
	DisplayName string      `db:"display_name"`
	Duration    null.Float  `db:"duration"`
	Color       zero.String `db:"color"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r *sceneRow) fromScene(o models.Scene) {
	r.ID = o.ID
	r.SourceURL = o.SourceURL
	r.DisplayName = o.DisplayName
	// unknown durations are stored as null until probed
	if o.DurationSeconds > 0 {
		r.Duration = null.FloatFrom(o.DurationSeconds)
	}
	r.Color = zero.StringFrom(o.Color)
	r.CreatedAt = o.CreatedAt
	r.UpdatedAt = o.UpdatedAt
}

func (r *sceneRow) resolve() *models.Scene {
	return &models.Scene{
		ID:              r.ID,
		SourceURL:       r.SourceURL,
		DisplayName:     r.DisplayName,
		DurationSeconds: r.Duration.Float64,
		Color:           r.Color.String,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type sceneRowRecord struct {
	goqu.Record
}

func (r *sceneRowRecord) setString(destField string, v models.OptionalString) {
	if v.Set {
		if v.Null {
			r.Record[destField] = nil
		} else {
			r.Record[destField] = v.Value
		}
	}
}

func (r *sceneRowRecord) setNullFloat64(destField string, v models.OptionalFloat64) {
	if v.Set {
		if v.Null || v.Value <= 0 {
			r.Record[destField] = nil
		} else {
			r.Record[destField] = v.Value
		}
	}
}

func (r *sceneRowRecord) fromPartial(o models.ScenePartial) {
	r.setString("source_url", o.SourceURL)
	r.setString("display_name", o.DisplayName)
	r.setNullFloat64("duration", o.DurationSeconds)
	r.setString("color", o.Color)
	r.Record["updated_at"] = o.UpdatedAt
}

type SceneStore struct {
	repository

	db *Database
}

func NewSceneStore(db *Database) *SceneStore {
	return &SceneStore{
		repository: repository{
			tableName: sceneTable,
			idColumn:  idColumn,
		},
		db: db,
	}
}

func (qb *SceneStore) selectDataset() *goqu.SelectDataset {
	table := goqu.T(sceneTable)
	return dialect.From(table).Select(table.All())
}

func (qb *SceneStore) Create(ctx context.Context, newObject *models.Scene) error {
	var r sceneRow
	r.fromScene(*newObject)

	w, err := getDBWrapper(ctx)
	if err != nil {
		return err
	}

	id, err := w.InsertID(ctx, dialect.Insert(sceneTable).Rows(r))
	if err != nil {
		return err
	}

	created, err := qb.find(ctx, id)
	if err != nil {
		return fmt.Errorf("finding after create: %w", err)
	}

	*newObject = *created

	return nil
}

func (qb *SceneStore) UpdatePartial(ctx context.Context, id int, partial models.ScenePartial) (*models.Scene, error) {
	r := sceneRowRecord{
		Record: make(goqu.Record),
	}
	r.fromPartial(partial)

	exists, err := qb.exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("scene %d: %w", id, models.ErrNotFound)
	}

	w, err := getDBWrapper(ctx)
	if err != nil {
		return nil, err
	}

	q := dialect.Update(sceneTable).Set(r.Record).Where(goqu.C(idColumn).Eq(id))
	if _, err := w.Update(ctx, q); err != nil {
		return nil, err
	}

	return qb.find(ctx, id)
}

func (qb *SceneStore) Destroy(ctx context.Context, id int) error {
	return qb.destroyExisting(ctx, []int{id})
}

// returns nil, nil if not found
func (qb *SceneStore) Find(ctx context.Context, id int) (*models.Scene, error) {
	ret, err := qb.find(ctx, id)
	if err != nil && !errors.Is(err, errNoRows) {
		return nil, err
	}
	return ret, nil
}

var errNoRows = fmt.Errorf("scene: %w", models.ErrNotFound)

func (qb *SceneStore) find(ctx context.Context, id int) (*models.Scene, error) {
	q := qb.selectDataset().Where(goqu.C(idColumn).Eq(id))
	return qb.get(ctx, q)
}

func (qb *SceneStore) get(ctx context.Context, q *goqu.SelectDataset) (*models.Scene, error) {
	ret, err := qb.getMany(ctx, q)
	if err != nil {
		return nil, err
	}

	if len(ret) == 0 {
		return nil, errNoRows
	}

	return ret[0], nil
}

func (qb *SceneStore) getMany(ctx context.Context, q *goqu.SelectDataset) ([]*models.Scene, error) {
	const single = false
	var ret []*models.Scene
	if err := qb.queryFunc(ctx, q, single, func(rows *sqlx.Rows) error {
		var f sceneRow
		if err := rows.StructScan(&f); err != nil {
			return err
		}

		ret = append(ret, f.resolve())
		return nil
	}); err != nil {
		return nil, err
	}

	return ret, nil
}

// FindMany returns the scenes with the given ids, in the order of ids.
// Returns an error if any are missing.
func (qb *SceneStore) FindMany(ctx context.Context, ids []int) ([]*models.Scene, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := qb.selectDataset().Where(goqu.C(idColumn).In(ids))
	unsorted, err := qb.getMany(ctx, q)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]*models.Scene, len(unsorted))
	for _, s := range unsorted {
		byID[s.ID] = s
	}

	ret := make([]*models.Scene, len(ids))
	for i, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("scene with id %d: %w", id, models.ErrNotFound)
		}
		ret[i] = s
	}

	return ret, nil
}

// returns nil, nil if not found
func (qb *SceneStore) FindBySourceURL(ctx context.Context, url string) (*models.Scene, error) {
	q := qb.selectDataset().Where(goqu.C("source_url").Eq(url))
	ret, err := qb.get(ctx, q)
	if err != nil && !errors.Is(err, errNoRows) {
		return nil, err
	}
	return ret, nil
}

func (qb *SceneStore) Count(ctx context.Context) (int, error) {
	return qb.count(ctx)
}

func (qb *SceneStore) All(ctx context.Context) ([]*models.Scene, error) {
	return qb.getMany(ctx, qb.selectDataset().Order(goqu.C(idColumn).Asc()))
}

// Query returns the scenes whose display name matches the regular
// expression q. An empty q matches all scenes.
func (qb *SceneStore) Query(ctx context.Context, q string) ([]*models.Scene, error) {
	if q == "" {
		return qb.All(ctx)
	}

	ds := qb.selectDataset().
		Where(goqu.L("display_name regexp ?", "(?i)"+q)).
		Order(goqu.C(idColumn).Asc())
	return qb.getMany(ctx, ds)
}
