// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/bureau-foundation/lockup/lib/codec"
)

var errClosed = errors.New("state: store is closed")

type recordKey struct {
	program Program
	address Address
}

// MemoryStore is an in-process Store. Updates are serialized by a
// mutex and buffered in an overlay until fn returns nil, so a failed
// Update leaves nothing behind.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[recordKey]Entry
	closed  bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[recordKey]Entry)}
}

func (s *MemoryStore) Update(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("state: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	tx := &memoryTx{base: s.records, writes: make(map[recordKey]*Entry)}
	if err := fn(tx); err != nil {
		return err
	}
	for key, entry := range tx.writes {
		if entry == nil {
			delete(s.records, key)
		} else {
			s.records[key] = *entry
		}
	}
	return nil
}

func (s *MemoryStore) View(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("state: %w", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return fn(&memoryTx{base: s.records, readOnly: true})
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

type memoryTx struct {
	base     map[recordKey]Entry
	writes   map[recordKey]*Entry
	readOnly bool
}

func (tx *memoryTx) lookup(key recordKey) (Entry, bool) {
	if entry, written := tx.writes[key]; written {
		if entry == nil {
			return Entry{}, false
		}
		return *entry, true
	}
	entry, ok := tx.base[key]
	return entry, ok
}

func (tx *memoryTx) Get(program Program, address Address, record any) (bool, error) {
	entry, ok := tx.lookup(recordKey{program, address})
	if !ok {
		return false, nil
	}
	if err := codec.Unmarshal(entry.Data, record); err != nil {
		return false, fmt.Errorf("state: decoding %s/%s: %w", program, address.Short(), err)
	}
	return true, nil
}

func (tx *memoryTx) Version(program Program, address Address) (uint64, error) {
	entry, ok := tx.lookup(recordKey{program, address})
	if !ok {
		return 0, nil
	}
	return entry.Version, nil
}

func (tx *memoryTx) Put(program Program, address Address, kind string, record any) error {
	if tx.readOnly {
		return ErrReadOnly
	}
	data, err := codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("state: encoding %s/%s: %w", program, address.Short(), err)
	}
	key := recordKey{program, address}
	version := uint64(1)
	if existing, ok := tx.lookup(key); ok {
		version = existing.Version + 1
	}
	tx.writes[key] = &Entry{Program: program, Address: address, Kind: kind, Version: version, Data: data}
	return nil
}

func (tx *memoryTx) Delete(program Program, address Address) error {
	if tx.readOnly {
		return ErrReadOnly
	}
	tx.writes[recordKey{program, address}] = nil
	return nil
}

func (tx *memoryTx) Restore(entry Entry) error {
	if tx.readOnly {
		return ErrReadOnly
	}
	entry.Data = bytes.Clone(entry.Data)
	tx.writes[recordKey{entry.Program, entry.Address}] = &entry
	return nil
}

func (tx *memoryTx) List(program Program, kind string, fn func(Entry) error) error {
	for _, entry := range tx.snapshot() {
		if entry.Program != program || entry.Kind != kind {
			continue
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return nil
}

func (tx *memoryTx) Scan(fn func(Entry) error) error {
	for _, entry := range tx.snapshot() {
		if err := fn(entry); err != nil {
			return err
		}
	}
	return nil
}

// snapshot merges base and overlay and sorts by (program, address),
// the order SQLiteStore returns.
func (tx *memoryTx) snapshot() []Entry {
	entries := make([]Entry, 0, len(tx.base)+len(tx.writes))
	for key, entry := range tx.base {
		if _, written := tx.writes[key]; written {
			continue
		}
		entries = append(entries, entry)
	}
	for _, entry := range tx.writes {
		if entry != nil {
			entries = append(entries, *entry)
		}
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		if a.Program != b.Program {
			if a.Program < b.Program {
				return -1
			}
			return 1
		}
		return bytes.Compare(a.Address[:], b.Address[:])
	})
	return entries
}
