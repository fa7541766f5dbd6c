// Package db stores the scene catalog in sqlite.
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlite3mig "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/storyreel/storyreel/pkg/logger"
)

const (
	// Number of database connections to use.
	// The same value is used for both the maximum and idle limit.
	dbConns = 10
	// Idle connection timeout, in seconds
	dbConnTimeout = 30
)

var appSchemaVersion uint = 1

//go:embed migrations/*.sql
var migrationsBox embed.FS

var (
	// ErrDatabaseNotInitialized indicates that the database is not
	// initialized, usually due to an incomplete configuration.
	ErrDatabaseNotInitialized = errors.New("database not initialized")
)

type MismatchedSchemaVersionError struct {
	CurrentSchemaVersion  uint
	RequiredSchemaVersion uint
}

func (e *MismatchedSchemaVersionError) Error() string {
	return fmt.Sprintf("schema version %d is incompatible with required schema version %d", e.CurrentSchemaVersion, e.RequiredSchemaVersion)
}

type Database struct {
	Scene *SceneStore

	db     *sqlx.DB
	dbPath string

	schemaVersion uint

	lockChan chan struct{}
}

func NewDatabase() *Database {
	db := &Database{
		lockChan: make(chan struct{}, 1),
	}
	db.Scene = NewSceneStore(db)

	return db
}

// Ready returns an error if the database is not ready to begin transactions.
func (db *Database) Ready() error {
	if db.db == nil {
		return ErrDatabaseNotInitialized
	}

	return nil
}

// Open initializes the database at dbPath, migrating it to the latest
// schema version.
func (db *Database) Open(dbPath string) error {
	db.lockNoCtx()
	defer db.unlock()

	db.dbPath = dbPath
	return db.open()
}

func (db *Database) open() error {
	if err := db.close(); err != nil {
		return fmt.Errorf("closing existing database connection: %w", err)
	}

	if dir := filepath.Dir(db.dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}

	if err := db.runMigrations(); err != nil {
		return fmt.Errorf("running schema migrations: %w", err)
	}

	const disableForeignKeys = false
	conn, err := db.openDB(disableForeignKeys)
	if err != nil {
		return err
	}

	db.db = conn
	return nil
}

// lock locks the database for writing.
// This method will block until the lock is acquired or the context is cancelled.
func (db *Database) lock(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case db.lockChan <- struct{}{}:
		return nil
	}
}

// lock locks the database for writing. This method will block until the lock is acquired.
func (db *Database) lockNoCtx() {
	db.lockChan <- struct{}{}
}

// unlock unlocks the database
func (db *Database) unlock() {
	// will block the caller if the lock is not held, so check first
	select {
	case <-db.lockChan:
		return
	default:
		panic("database is not locked")
	}
}

func (db *Database) Close() error {
	db.lockNoCtx()
	defer db.unlock()

	return db.close()
}

func (db *Database) close() error {
	if db.db != nil {
		if err := db.db.Close(); err != nil {
			return err
		}

		db.db = nil
	}

	return nil
}

func (db *Database) openDB(disableForeignKeys bool) (*sqlx.DB, error) {
	// https://github.com/mattn/go-sqlite3
	url := "file:" + db.dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=50"
	if !disableForeignKeys {
		url += "&_fk=true"
	}

	conn, err := sqlx.Open(sqlite3Driver, url)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	conn.SetMaxOpenConns(dbConns)
	conn.SetMaxIdleConns(dbConns)
	conn.SetConnMaxIdleTime(dbConnTimeout * time.Second)

	return conn, nil
}

func (db *Database) getMigrate() (*migrate.Migrate, error) {
	migrations, err := iofs.New(migrationsBox, "migrations")
	if err != nil {
		return nil, err
	}

	const disableForeignKeys = true
	conn, err := db.openDB(disableForeignKeys)
	if err != nil {
		return nil, err
	}

	driver, err := sqlite3mig.WithInstance(conn.DB, &sqlite3mig.Config{})
	if err != nil {
		return nil, err
	}

	return migrate.NewWithInstance(
		"iofs",
		migrations,
		db.dbPath,
		driver,
	)
}

func (db *Database) runMigrations() error {
	m, err := db.getMigrate()
	if err != nil {
		return err
	}
	defer m.Close()

	databaseSchemaVersion, _, _ := m.Version()
	if databaseSchemaVersion > appSchemaVersion {
		return &MismatchedSchemaVersionError{
			CurrentSchemaVersion:  databaseSchemaVersion,
			RequiredSchemaVersion: appSchemaVersion,
		}
	}

	if databaseSchemaVersion != appSchemaVersion {
		logger.Infof("Migrating database from version %d to %d", databaseSchemaVersion, appSchemaVersion)
		if err := m.Migrate(appSchemaVersion); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	}

	db.schemaVersion, _, _ = m.Version()
	return nil
}

// AppSchemaVersion returns the schema version the application requires.
func (db *Database) AppSchemaVersion() uint {
	return appSchemaVersion
}

// Version returns the current schema version of the database.
func (db *Database) Version() uint {
	return db.schemaVersion
}

func (db *Database) DatabasePath() string {
	return db.dbPath
}

func isLocked(err error) bool {
	var sqliteError sqlite3.Error
	if errors.As(err, &sqliteError) {
		return sqliteError.Code == sqlite3.ErrBusy
	}
	return false
}
