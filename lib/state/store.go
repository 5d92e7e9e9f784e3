// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/bureau-foundation/lockup/lib/codec"
)

// ErrReadOnly is returned by mutating Tx methods inside View.
var ErrReadOnly = errors.New("state: write in a read-only transaction")

// Entry is one stored record in its encoded form.
type Entry struct {
	Program Program `cbor:"program"`
	Address Address `cbor:"address"`
	Kind    string  `cbor:"kind"`
	Version uint64  `cbor:"version"`
	Data    []byte  `cbor:"data"`
}

// Decode unmarshals the record payload into v.
func (e Entry) Decode(v any) error {
	if err := codec.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("state: decoding %s record %s: %w", e.Program, e.Address.Short(), err)
	}
	return nil
}

// Tx is the view of the store inside one transaction. Reads observe
// the transaction's own earlier writes.
type Tx interface {
	// Get decodes the record at (program, address) into record and
	// reports whether it exists.
	Get(program Program, address Address, record any) (bool, error)

	// Version returns the record's version, or 0 if it does not exist.
	Version(program Program, address Address) (uint64, error)

	// Put encodes record and writes it, creating it at version 1 or
	// incrementing the existing version.
	Put(program Program, address Address, kind string, record any) error

	// Delete removes the record. Deleting a missing record is a no-op.
	Delete(program Program, address Address) error

	// List calls fn for every record of the given kind in the program,
	// in address order. A non-nil error from fn stops the iteration
	// and is returned. fn must not call List or Scan again.
	List(program Program, kind string, fn func(Entry) error) error

	// Scan calls fn for every record in the store, ordered by program
	// then address.
	Scan(fn func(Entry) error) error

	// Restore writes an entry verbatim, version included. Snapshot
	// import is its only caller.
	Restore(entry Entry) error
}

// Store is a transactional record store.
type Store interface {
	// Update runs fn in a serialized read-write transaction. The
	// transaction commits if fn returns nil and rolls back otherwise.
	// ctx bounds only the wait for the store.
	Update(ctx context.Context, fn func(Tx) error) error

	// View runs fn in a read-only transaction over a consistent
	// snapshot.
	View(ctx context.Context, fn func(Tx) error) error

	Close() error
}

// Count returns the number of records in the store.
func Count(ctx context.Context, store Store) (int, error) {
	count := 0
	err := store.View(ctx, func(tx Tx) error {
		return tx.Scan(func(Entry) error {
			count++
			return nil
		})
	})
	return count, err
}
