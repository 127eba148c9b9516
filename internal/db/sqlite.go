// Package db opens and migrates the SQLite task store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// The store runs two pools over one file: a single-connection writer and a
// small reader pool. WAL lets reads proceed while the writer holds its lock,
// and the immediate txlock on the writer keeps BEGIN from deadlocking under
// contention with the overdue sweeper.
const defaultReaderConns = 4

// OpenWriter opens the single-connection write pool. The parent directory of
// path is created if it does not exist, so DB_PATH may point into a fresh
// data directory.
func OpenWriter(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", dir, err)
		}
	}
	return openPool(path, storeDSN(path, true), 1)
}

// OpenReader opens the read pool. maxConns <= 0 uses the default of 4.
func OpenReader(path string, maxConns int) (*sql.DB, error) {
	if maxConns <= 0 {
		maxConns = defaultReaderConns
	}
	return openPool(path, storeDSN(path, false), maxConns)
}

// OpenPair opens the writer and reader pools for the same store file. The
// writer is opened first so it creates the file and directory.
func OpenPair(path string, readerConns int) (writeDB, readDB *sql.DB, err error) {
	writeDB, err = OpenWriter(path)
	if err != nil {
		return nil, nil, err
	}
	readDB, err = OpenReader(path, readerConns)
	if err != nil {
		_ = writeDB.Close()
		return nil, nil, err
	}
	return writeDB, readDB, nil
}

func openPool(path, dsn string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping store %s: %w", path, err)
	}
	return db, nil
}

// storeDSN builds the DSN for the task store. Foreign keys are mandatory:
// tasks reference their creator and assignee rows and the repositories rely
// on the FK error to report an unknown assignee. busy_timeout covers writer
// contention between request handlers and the overdue sweeper.
func storeDSN(path string, writer bool) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", "5000")
	params.Set("_synchronous", "NORMAL")
	params.Set("_foreign_keys", "on")
	if writer {
		params.Set("_txlock", "immediate")
	}
	return path + "?" + params.Encode()
}
