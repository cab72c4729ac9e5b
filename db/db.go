package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var DB *sqlx.DB

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("username already taken")
)

const schema = `
CREATE TABLE IF NOT EXISTS teachers (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	display_name TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'teacher',
	session_expiry BIGINT
);

CREATE TABLE IF NOT EXISTS admins (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'admin',
	session_expiry BIGINT
);

CREATE TABLE IF NOT EXISTS exit_permissions (
	seq %s,
	id TEXT NOT NULL UNIQUE,
	student_name TEXT NOT NULL,
	teacher_username TEXT NOT NULL,
	teacher_display_name TEXT NOT NULL,
	created_at BIGINT NOT NULL,
	exit_date TEXT NOT NULL,
	exit_time TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_exit_permissions_teacher ON exit_permissions (teacher_username);
CREATE INDEX IF NOT EXISTS idx_exit_permissions_student ON exit_permissions (student_name);
CREATE INDEX IF NOT EXISTS idx_exit_permissions_date ON exit_permissions (exit_date);
`

// InitDB opens the store and creates the schema. driver is "sqlite3" or
// "postgres". Query text is written with '?' placeholders and rebound per driver.
func InitDB(driver, dataSourceName string) error {
	if driver == "" {
		driver = "sqlite3"
	}
	if driver == "sqlite3" {
		dataSourceName = sqliteDSN(dataSourceName)
	}

	conn, err := sqlx.Open(driver, dataSourceName)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}

	if driver == "sqlite3" {
		// A single connection serialises writers and keeps ":memory:" databases
		// shared across callers.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(25)
		conn.SetConnMaxLifetime(5 * time.Minute)
		conn.SetConnMaxIdleTime(1 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return errors.Wrap(err, "pinging database")
	}

	if _, err := conn.Exec(fmt.Sprintf(schema, sequenceColumn(driver))); err != nil {
		conn.Close()
		return errors.Wrap(err, "creating tables")
	}

	DB = conn
	return nil
}

// sequenceColumn is the DDL for the insertion-order key of exit_permissions.
func sequenceColumn(driver string) string {
	if driver == "postgres" {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

func sqliteDSN(dsn string) string {
	params := "_txlock=immediate&_busy_timeout=5000"
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}

// WithTx runs fn inside a transaction, committing on nil and rolling back otherwise.
func WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func notFound(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return errors.Wrap(err, msg)
}
