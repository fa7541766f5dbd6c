package models

import "context"

//go:generate go run github.com/vektra/mockery/v2 --name SceneReaderWriter --output ./mocks

type TxnFunc func(ctx context.Context) error

// TxnManager runs functions inside database transactions. Repository
// methods must be called with a context obtained from one of these.
type TxnManager interface {
	WithTxn(ctx context.Context, fn TxnFunc) error
	WithReadTxn(ctx context.Context, fn TxnFunc) error
}

type Repository struct {
	TxnManager

	Scene SceneReaderWriter
}
