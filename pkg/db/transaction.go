package db

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"

	"github.com/storyreel/storyreel/pkg/logger"
	"github.com/storyreel/storyreel/pkg/models"
)

type key int

const (
	txnKey key = iota + 1
	dbKey
	exclusiveKey
)

const (
	maxRetries = 5
	retryDelay = 50 * time.Millisecond
)

// WithDatabase returns a context that runs queries outside of a transaction.
func (db *Database) WithDatabase(ctx context.Context) (context.Context, error) {
	if err := db.Ready(); err != nil {
		return nil, err
	}

	// if we are already in a transaction or have a database already, just use it
	if tx, _ := getDBWrapper(ctx); tx != nil {
		return ctx, nil
	}

	return context.WithValue(ctx, dbKey, db.db), nil
}

func (db *Database) Begin(ctx context.Context, exclusive bool) (context.Context, error) {
	if err := db.Ready(); err != nil {
		return nil, err
	}

	if tx, _ := getTx(ctx); tx != nil {
		// log the stack trace so we can see
		logger.Error(string(debug.Stack()))

		return nil, fmt.Errorf("already in transaction")
	}

	if exclusive {
		if err := db.lock(ctx); err != nil {
			return nil, err
		}
	}

	tx, err := db.db.BeginTxx(ctx, nil)
	if err != nil {
		// begin failed, unlock
		if exclusive {
			db.unlock()
		}
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	ctx = context.WithValue(ctx, exclusiveKey, exclusive)

	return context.WithValue(ctx, txnKey, tx), nil
}

func (db *Database) Commit(ctx context.Context) error {
	tx, err := getTx(ctx)
	if err != nil {
		return err
	}

	defer db.txnComplete(ctx)

	return tx.Commit()
}

func (db *Database) Rollback(ctx context.Context) error {
	tx, err := getTx(ctx)
	if err != nil {
		return err
	}

	defer db.txnComplete(ctx)

	return tx.Rollback()
}

func (db *Database) txnComplete(ctx context.Context) {
	if exclusive, _ := ctx.Value(exclusiveKey).(bool); exclusive {
		db.unlock()
	}
}

// WithTxn runs fn in a write transaction. The transaction is retried if the
// database is locked.
func (db *Database) WithTxn(ctx context.Context, fn models.TxnFunc) error {
	const exclusive = true
	return db.withRetryingTxn(ctx, exclusive, fn)
}

// WithReadTxn runs fn in a read-only transaction.
func (db *Database) WithReadTxn(ctx context.Context, fn models.TxnFunc) error {
	const exclusive = false
	return db.withRetryingTxn(ctx, exclusive, fn)
}

func (db *Database) withRetryingTxn(ctx context.Context, exclusive bool, fn models.TxnFunc) error {
	var err error
	for tries := 0; tries < maxRetries; tries++ {
		err = db.withTxn(ctx, exclusive, fn)
		if err == nil || !isLocked(err) {
			return err
		}

		logger.Debugf("database is locked, retrying transaction (%d/%d)", tries+1, maxRetries)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return fmt.Errorf("transaction failed after %d attempts: %w", maxRetries, err)
}

func (db *Database) withTxn(ctx context.Context, exclusive bool, fn models.TxnFunc) (err error) {
	txnCtx, err := db.Begin(ctx, exclusive)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			// a panic occurred, rollback and repanic
			if rbErr := db.Rollback(txnCtx); rbErr != nil {
				logger.Warnf("error rolling back transaction: %v", rbErr)
			}
			panic(p)
		}

		if err != nil {
			if rbErr := db.Rollback(txnCtx); rbErr != nil {
				logger.Warnf("error rolling back transaction: %v", rbErr)
			}
		} else {
			err = db.Commit(txnCtx)
		}
	}()

	err = fn(txnCtx)
	return err
}

func getTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, ok := ctx.Value(txnKey).(*sqlx.Tx)
	if !ok || tx == nil {
		return nil, fmt.Errorf("not in transaction")
	}
	return tx, nil
}

func getDBWrapper(ctx context.Context) (*dbWrapper, error) {
	// get transaction first if present
	tx, ok := ctx.Value(txnKey).(*sqlx.Tx)
	if !ok || tx == nil {
		// try to get database if present
		db, ok := ctx.Value(dbKey).(*sqlx.DB)
		if !ok || db == nil {
			return nil, fmt.Errorf("not in transaction")
		}

		return &dbWrapper{
			tx: txWrapper{db},
		}, nil
	}

	return &dbWrapper{
		tx: txWrapper{tx},
	}, nil
}

func (db *Database) Repository() models.Repository {
	return models.Repository{
		TxnManager: db,
		Scene:      db.Scene,
	}
}
