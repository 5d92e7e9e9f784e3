// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"context"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/lockup/lib/codec"
	"github.com/bureau-foundation/lockup/lib/sqlitepool"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	program TEXT NOT NULL,
	address BLOB NOT NULL,
	kind    TEXT NOT NULL,
	version INTEGER NOT NULL,
	data    BLOB NOT NULL,
	PRIMARY KEY (program, address)
) WITHOUT ROWID;

CREATE INDEX IF NOT EXISTS records_by_kind ON records (program, kind, address);
`

// SQLiteConfig configures OpenSQLite.
type SQLiteConfig struct {
	// Path is the database file.
	Path string

	// PoolSize is the connection count. Defaults to 4.
	PoolSize int

	// Synchronous defaults to FULL.
	Synchronous sqlitepool.Synchronous

	Logger *slog.Logger
}

// SQLiteStore is a Store backed by a SQLite database.
type SQLiteStore struct {
	pool *sqlitepool.Pool
}

// OpenSQLite opens (creating if needed) the database at cfg.Path.
func OpenSQLite(cfg SQLiteConfig) (*SQLiteStore, error) {
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:        cfg.Path,
		PoolSize:    cfg.PoolSize,
		Synchronous: cfg.Synchronous,
		Logger:      cfg.Logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("state: %w", err)
	}
	return &SQLiteStore{pool: pool}, nil
}

// Update runs fn in an IMMEDIATE transaction, so concurrent Updates
// queue on the write lock instead of failing at commit.
func (s *SQLiteStore) Update(ctx context.Context, fn func(Tx) error) error {
	return s.pool.Update(ctx, func(conn *sqlite.Conn) error {
		return fn(&sqliteTx{conn: conn})
	})
}

// View runs fn in a read transaction.
func (s *SQLiteStore) View(ctx context.Context, fn func(Tx) error) error {
	return s.pool.View(ctx, func(conn *sqlite.Conn) error {
		return fn(&sqliteTx{conn: conn, readOnly: true})
	})
}

// Close closes the connection pool.
func (s *SQLiteStore) Close() error {
	return s.pool.Close()
}

type sqliteTx struct {
	conn     *sqlite.Conn
	readOnly bool
}

func (tx *sqliteTx) Get(program Program, address Address, record any) (bool, error) {
	var data []byte
	found := false
	err := sqlitex.Execute(tx.conn,
		`SELECT data FROM records WHERE program = ? AND address = ?`,
		&sqlitex.ExecOptions{
			Args: []any{string(program), address[:]},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found = true
				data = columnBlob(stmt, 0)
				return nil
			},
		})
	if err != nil {
		return false, fmt.Errorf("state: reading %s/%s: %w", program, address.Short(), err)
	}
	if !found {
		return false, nil
	}
	if err := codec.Unmarshal(data, record); err != nil {
		return false, fmt.Errorf("state: decoding %s/%s: %w", program, address.Short(), err)
	}
	return true, nil
}

func (tx *sqliteTx) Version(program Program, address Address) (uint64, error) {
	var version int64
	err := sqlitex.Execute(tx.conn,
		`SELECT version FROM records WHERE program = ? AND address = ?`,
		&sqlitex.ExecOptions{
			Args: []any{string(program), address[:]},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				version = stmt.ColumnInt64(0)
				return nil
			},
		})
	if err != nil {
		return 0, fmt.Errorf("state: reading version of %s/%s: %w", program, address.Short(), err)
	}
	return uint64(version), nil
}

func (tx *sqliteTx) Put(program Program, address Address, kind string, record any) error {
	if tx.readOnly {
		return ErrReadOnly
	}
	data, err := codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("state: encoding %s/%s: %w", program, address.Short(), err)
	}
	err = sqlitex.Execute(tx.conn, `
		INSERT INTO records (program, address, kind, version, data)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT (program, address) DO UPDATE SET
			kind = excluded.kind,
			data = excluded.data,
			version = records.version + 1`,
		&sqlitex.ExecOptions{
			Args: []any{string(program), address[:], kind, data},
		})
	if err != nil {
		return fmt.Errorf("state: writing %s/%s: %w", program, address.Short(), err)
	}
	return nil
}

func (tx *sqliteTx) Delete(program Program, address Address) error {
	if tx.readOnly {
		return ErrReadOnly
	}
	err := sqlitex.Execute(tx.conn,
		`DELETE FROM records WHERE program = ? AND address = ?`,
		&sqlitex.ExecOptions{Args: []any{string(program), address[:]}})
	if err != nil {
		return fmt.Errorf("state: deleting %s/%s: %w", program, address.Short(), err)
	}
	return nil
}

func (tx *sqliteTx) List(program Program, kind string, fn func(Entry) error) error {
	return sqlitex.Execute(tx.conn, `
		SELECT program, address, kind, version, data FROM records
		WHERE program = ? AND kind = ?
		ORDER BY address`,
		&sqlitex.ExecOptions{
			Args: []any{string(program), kind},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				return fn(scanEntry(stmt))
			},
		})
}

func (tx *sqliteTx) Scan(fn func(Entry) error) error {
	return sqlitex.Execute(tx.conn, `
		SELECT program, address, kind, version, data FROM records
		ORDER BY program, address`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				return fn(scanEntry(stmt))
			},
		})
}

func (tx *sqliteTx) Restore(entry Entry) error {
	if tx.readOnly {
		return ErrReadOnly
	}
	err := sqlitex.Execute(tx.conn, `
		INSERT OR REPLACE INTO records (program, address, kind, version, data)
		VALUES (?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{string(entry.Program), entry.Address[:], entry.Kind, int64(entry.Version), entry.Data},
		})
	if err != nil {
		return fmt.Errorf("state: restoring %s/%s: %w", entry.Program, entry.Address.Short(), err)
	}
	return nil
}

func scanEntry(stmt *sqlite.Stmt) Entry {
	var entry Entry
	entry.Program = Program(stmt.ColumnText(0))
	stmt.ColumnBytes(1, entry.Address[:])
	entry.Kind = stmt.ColumnText(2)
	entry.Version = uint64(stmt.ColumnInt64(3))
	entry.Data = columnBlob(stmt, 4)
	return entry
}

func columnBlob(stmt *sqlite.Stmt, column int) []byte {
	data := make([]byte, stmt.ColumnLen(column))
	stmt.ColumnBytes(column, data)
	return data
}
