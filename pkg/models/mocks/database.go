package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/storyreel/storyreel/pkg/models"
)

// Database is a mock repository whose transactions run immediately.
type Database struct {
	Scene *SceneReaderWriter
}

func (*Database) WithTxn(ctx context.Context, fn models.TxnFunc) error {
	return fn(ctx)
}

func (*Database) WithReadTxn(ctx context.Context, fn models.TxnFunc) error {
	return fn(ctx)
}

func NewDatabase() *Database {
	return &Database{
		Scene: &SceneReaderWriter{},
	}
}

func (db *Database) AssertExpectations(t mock.TestingT) {
	db.Scene.AssertExpectations(t)
}

func (db *Database) Repository() models.Repository {
	return models.Repository{
		TxnManager: db,
		Scene:      db.Scene,
	}
}
