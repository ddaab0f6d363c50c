// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package kvs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	createTableQuery = `CREATE TABLE IF NOT EXISTS kv_store (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`
	selectQuery      = `SELECT value FROM kv_store WHERE key = ?`
	upsertQuery      = `INSERT INTO kv_store (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	reserveRowQuery  = `INSERT INTO kv_store (key, value) VALUES (?, 'null') ON CONFLICT (key) DO NOTHING`
	selectLockSuffix = ` FOR UPDATE`
)

// ErrUnsupportedDSN is returned for connection strings no driver accepts.
var ErrUnsupportedDSN = errors.New("unsupported database url")

// SQLStore keeps documents in a single kv_store table.
type SQLStore struct {
	db     *sqlx.DB
	driver string
}

// ParseDSN maps a connection string to a registered driver and its data source.
func ParseDSN(dsn string) (driver, source string, err error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DriverPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return DriverSQLite, sqliteSource(strings.TrimPrefix(dsn, "sqlite://")), nil
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return DriverSQLite, dsn, nil
	case strings.HasSuffix(dsn, ".db"), strings.HasSuffix(dsn, ".sqlite"):
		return DriverSQLite, sqliteSource(dsn), nil
	}
	return "", "", fmt.Errorf("%w %q", ErrUnsupportedDSN, redactDSN(dsn))
}

func sqliteSource(path string) string {
	if path == ":memory:" {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)"
}

func redactDSN(dsn string) string {
	if at := strings.LastIndex(dsn, "@"); at >= 0 {
		if scheme := strings.Index(dsn, "://"); scheme >= 0 && scheme < at {
			return dsn[:scheme+3] + "***" + dsn[at:]
		}
	}
	return dsn
}

// OpenSQL opens the database behind dsn and creates kv_store if absent.
func OpenSQL(ctx context.Context, dsn string) (*SQLStore, error) {
	driver, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one writer, and a shared connection keeps ":memory:" databases alive
		db.SetMaxOpenConns(1)
	}

	store := &SQLStore{db: db, driver: driver}
	if err := store.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, createTableQuery); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}

	logrus.Infof("sql store initialized (driver: %s)", driver)
	return store, nil
}

func (s *SQLStore) Name() string { return "sql:" + s.driver }

func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", s.driver, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind(selectQuery), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		logrus.Warnf("failed to read %s from %s: %v", key, s.Name(), err)
		return nil, false
	}
	if value == "null" {
		return nil, false
	}
	return []byte(value), true
}

func (s *SQLStore) Set(ctx context.Context, key string, doc []byte) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(upsertQuery), key, string(doc)); err != nil {
		return fmt.Errorf("failed to upsert %s: %w", key, err)
	}
	return nil
}

// Update reserves the row first so the transaction holds the write lock
// before reading.
func (s *SQLStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, tx.Rebind(reserveRowQuery), key); err != nil {
		return fmt.Errorf("failed to reserve %s: %w", key, err)
	}

	query := selectQuery
	if s.driver == DriverPostgres {
		query += selectLockSuffix
	}

	var value string
	if err := tx.GetContext(ctx, &value, tx.Rebind(query), key); err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}

	var current []byte
	ok := value != "null"
	if ok {
		current = []byte(value)
	}

	next, err := fn(current, ok)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(upsertQuery), key, string(next)); err != nil {
		return fmt.Errorf("failed to upsert %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", key, err)
	}
	return nil
}
