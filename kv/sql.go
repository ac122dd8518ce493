package kv

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/amirrezaask/claimcache/errors"
)

const (
	driverMySQL  = "*mysql.MySQLDriver"
	driverSQLite = "*sqlite3.SQLiteDriver"
)

// SQL keeps entries in a kv_store table, partitioned by namespace. Rows past expires_at read as absent.
type SQL struct {
	db        *sql.DB
	namespace string
	driver    string
	now       func() time.Time
}

func NewSQL(ctx context.Context, db *sql.DB, namespace string) (*SQL, error) {
	driver := fmt.Sprintf("%T", db.Driver()) // to not import sql drivers here as well.

	var createTable string
	switch driver {
	case driverMySQL:
		createTable = "CREATE TABLE IF NOT EXISTS kv_store (" +
			"namespace VARCHAR(255) NOT NULL," +
			"`key` VARCHAR(255) NOT NULL," +
			"`value` LONGBLOB NOT NULL," +
			"expires_at BIGINT NULL," +
			"PRIMARY KEY (namespace, `key`)" +
			");"
	case driverSQLite:
		createTable = "CREATE TABLE IF NOT EXISTS kv_store (" +
			"namespace TEXT NOT NULL," +
			"`key` TEXT NOT NULL," +
			"`value` BLOB NOT NULL," +
			"expires_at INTEGER," +
			"PRIMARY KEY (namespace, `key`)" +
			");"
	default:
		return nil, errors.Newf("error in creating sql store, unsupported database driver: %s", driver)
	}

	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return nil, errors.Store("migrate", "", errors.Wrap(err, "error in creating table kv_store"))
	}

	return &SQL{
		db:        db,
		namespace: namespace,
		driver:    driver,
		now:       time.Now,
	}, nil
}

func (s *SQL) WithClock(now func() time.Time) *SQL {
	s.now = now
	return s
}

// row returns the stored value and its expiry in unix milliseconds (invalid when the row never expires).
func (s *SQL) row(ctx context.Context, key string) ([]byte, sql.NullInt64, bool, error) {
	var (
		raw       []byte
		expiresAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT `value`, expires_at FROM kv_store WHERE namespace = ? AND `key` = ?", s.namespace, key).
		Scan(&raw, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, expiresAt, false, nil
	}
	if err != nil {
		return nil, expiresAt, false, err
	}

	if expiresAt.Valid && s.now().UnixMilli() >= expiresAt.Int64 {
		// best effort, a failed delete only leaves a dead row behind.
		_, _ = s.db.ExecContext(ctx, "DELETE FROM kv_store WHERE namespace = ? AND `key` = ? AND expires_at = ?",
			s.namespace, key, expiresAt.Int64)
		return nil, expiresAt, false, nil
	}

	return raw, expiresAt, true, nil
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, _, ok, err := s.row(ctx, key)
	if err != nil {
		return nil, false, errors.Store("get", key, err)
	}
	return raw, ok, nil
}

func (s *SQL) Set(ctx context.Context, key string, raw []byte, ttl time.Duration) error {
	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: s.now().Add(ttl).UnixMilli(), Valid: true}
	}

	var query string
	switch s.driver {
	case driverMySQL:
		query = "INSERT INTO kv_store (namespace, `key`, `value`, expires_at) VALUES (?, ?, ?, ?) " +
			"ON DUPLICATE KEY UPDATE `value` = VALUES(`value`), expires_at = VALUES(expires_at);"
	case driverSQLite:
		query = "INSERT INTO kv_store (namespace, `key`, `value`, expires_at) VALUES (?, ?, ?, ?) " +
			"ON CONFLICT(namespace, `key`) DO UPDATE SET `value` = excluded.`value`, expires_at = excluded.expires_at;"
	default:
		return errors.Newf("unsupported driver '%s'", s.driver)
	}

	_, err := s.db.ExecContext(ctx, query, s.namespace, key, raw, expiresAt)
	return errors.Store("set", key, err)
}

func (s *SQL) Del(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv_store WHERE namespace = ? AND `key` = ?", s.namespace, key)
	return errors.Store("del", key, err)
}

func (s *SQL) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	_, expiresAt, ok, err := s.row(ctx, key)
	if err != nil {
		return 0, false, errors.Store("ttl", key, err)
	}
	if !ok {
		return 0, false, nil
	}
	if !expiresAt.Valid {
		return NoExpiry, true, nil
	}
	return time.UnixMilli(expiresAt.Int64).Sub(s.now()), true, nil
}

func (s *SQL) Ping(ctx context.Context) error {
	return errors.Store("ping", "", s.db.PingContext(ctx))
}
