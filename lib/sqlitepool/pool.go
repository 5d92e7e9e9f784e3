// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitepool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Synchronous is a PRAGMA synchronous level.
type Synchronous string

const (
	// SynchronousFull fsyncs the WAL at every commit.
	SynchronousFull Synchronous = "FULL"

	// SynchronousNormal survives a crashed process but may drop the
	// newest commits on power loss.
	SynchronousNormal Synchronous = "NORMAL"
)

const defaultPoolSize = 4

// Config describes a pool. Only Path is required.
type Config struct {
	// Path is the database file; its directory must exist.
	Path string

	// PoolSize defaults to 4. Writers serialize inside SQLite, so the
	// extra connections serve concurrent reads.
	PoolSize int

	// Synchronous defaults to SynchronousFull.
	Synchronous Synchronous

	Logger *slog.Logger

	// OnConnect runs on each new connection after the pragmas. The
	// ledger creates its schema here.
	OnConnect func(conn *sqlite.Conn) error
}

// Pool hands out prepared connections. The pool is safe for concurrent
// use; a borrowed connection belongs to one goroutine until it is put
// back.
type Pool struct {
	conns  *sqlitex.Pool
	path   string
	logger *slog.Logger
}

// Open returns a pool for cfg.Path. Connections open on first use.
func Open(cfg Config) (*Pool, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlitepool: Path is required")
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = defaultPoolSize
	}
	if cfg.Synchronous == "" {
		cfg.Synchronous = SynchronousFull
	}
	if cfg.Synchronous != SynchronousFull && cfg.Synchronous != SynchronousNormal {
		return nil, fmt.Errorf("sqlitepool: unsupported synchronous mode %q", cfg.Synchronous)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	conns, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize:    cfg.PoolSize,
		PrepareConn: prepare(cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlitepool: opening %s: %w", cfg.Path, err)
	}
	cfg.Logger.Info("sqlite pool opened",
		"path", cfg.Path,
		"pool_size", cfg.PoolSize,
		"synchronous", string(cfg.Synchronous),
	)
	return &Pool{conns: conns, path: cfg.Path, logger: cfg.Logger}, nil
}

func prepare(cfg Config) func(*sqlite.Conn) error {
	pragmas := []string{
		"journal_mode=WAL",
		"synchronous=" + string(cfg.Synchronous),
		"busy_timeout=5000",
		"foreign_keys=OFF",
		"cache_size=-8192",
		"temp_store=MEMORY",
	}
	return func(conn *sqlite.Conn) error {
		for _, pragma := range pragmas {
			if err := sqlitex.ExecuteTransient(conn, "PRAGMA "+pragma, nil); err != nil {
				return fmt.Errorf("sqlitepool: PRAGMA %s: %w", pragma, err)
			}
		}
		if cfg.OnConnect == nil {
			return nil
		}
		if err := cfg.OnConnect(conn); err != nil {
			return fmt.Errorf("sqlitepool: OnConnect: %w", err)
		}
		return nil
	}
}

// Take borrows a connection, waiting until one is free or ctx ends.
// Pair every Take with Put.
func (p *Pool) Take(ctx context.Context) (*sqlite.Conn, error) {
	conn, err := p.conns.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlitepool: take: %w", err)
	}
	return conn, nil
}

// Put returns conn. A nil conn is ignored.
func (p *Pool) Put(conn *sqlite.Conn) { p.conns.Put(conn) }

// Update runs fn in an IMMEDIATE transaction, which holds the write
// lock from BEGIN so concurrent writers queue instead of failing at
// COMMIT. fn's error rolls the transaction back.
//
// ctx bounds only the wait for a connection. A transaction that has
// started runs to the end.
func (p *Pool) Update(ctx context.Context, fn func(*sqlite.Conn) error) (err error) {
	conn, err := p.borrow(ctx)
	if err != nil {
		return err
	}
	defer p.Put(conn)

	end, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("sqlitepool: begin: %w", err)
	}
	defer end(&err)
	return fn(conn)
}

// View runs fn in a deferred read transaction.
func (p *Pool) View(ctx context.Context, fn func(*sqlite.Conn) error) (err error) {
	conn, err := p.borrow(ctx)
	if err != nil {
		return err
	}
	defer p.Put(conn)

	end := sqlitex.Transaction(conn)
	defer end(&err)
	return fn(conn)
}

func (p *Pool) borrow(ctx context.Context) (*sqlite.Conn, error) {
	conn, err := p.Take(ctx)
	if err != nil {
		return nil, err
	}
	conn.SetInterrupt(nil)
	return conn, nil
}

// Close closes all connections once borrowed ones are returned.
func (p *Pool) Close() error {
	if err := p.conns.Close(); err != nil {
		p.logger.Error("sqlite pool close failed", "path", p.path, "error", err)
		return fmt.Errorf("sqlitepool: closing %s: %w", p.path, err)
	}
	p.logger.Info("sqlite pool closed", "path", p.path)
	return nil
}
