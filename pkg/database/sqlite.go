package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"

	_ "modernc.org/sqlite"
)

// SQLiteDSN builds a modernc.org/sqlite DSN with WAL, foreign keys, a busy timeout and
// IMMEDIATE write transactions.
func SQLiteDSN(path string, busyTimeoutMillis int64) string {
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)&_txlock=immediate",
		path, busyTimeoutMillis)
}

// SQLiteHandles is a single-connection writer pool and a multi-connection reader pool over
// the same database file.
type SQLiteHandles struct {
	Writer *sql.DB
	Reader *sql.DB
}

// OpenSQLite opens the writer and reader pools.
func OpenSQLite(ctx context.Context, path string, busyTimeoutMillis int64) (*SQLiteHandles, error) {
	dsn := SQLiteDSN(path, busyTimeoutMillis)

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(runtime.NumCPU())

	if err := writer.PingContext(ctx); err != nil {
		writer.Close()
		reader.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteHandles{Writer: writer, Reader: reader}, nil
}

// Close closes both pools.
func (h *SQLiteHandles) Close() error {
	err1 := h.Writer.Close()
	err2 := h.Reader.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
