package models

import "context"

type SceneFinder interface {
	Find(ctx context.Context, id int) (*Scene, error)
	FindMany(ctx context.Context, ids []int) ([]*Scene, error)
}

type SceneReader interface {
	SceneFinder
	FindBySourceURL(ctx context.Context, url string) (*Scene, error)
	Count(ctx context.Context) (int, error)
	All(ctx context.Context) ([]*Scene, error)
	// Query returns scenes whose display name matches the regular
	// expression q.
	Query(ctx context.Context, q string) ([]*Scene, error)
}

type SceneWriter interface {
	Create(ctx context.Context, newScene *Scene) error
	UpdatePartial(ctx context.Context, id int, updatedScene ScenePartial) (*Scene, error)
	Destroy(ctx context.Context, id int) error
}

type SceneReaderWriter interface {
	SceneReader
	SceneWriter
}
