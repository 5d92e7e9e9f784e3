// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"bytes"
	"context"
	"testing"
)

func seedStore(t *testing.T, store Store) {
	t.Helper()
	err := store.Update(context.Background(), func(tx Tx) error {
		for i := range 50 {
			address := Derive(ProgramLockup, []byte("release"), []byte{byte(i)})
			record := testRecord{Name: "release", Value: uint64(i) * 1_000_000_000}
			if err := tx.Put(ProgramLockup, address, "release", record); err != nil {
				return err
			}
			if i%2 == 0 {
				record.Value++
				if err := tx.Put(ProgramLockup, address, "release", record); err != nil {
					return err
				}
			}
		}
		return tx.Put(ProgramMintProxy, Derive(ProgramMintProxy, []byte("state")), "authority", testRecord{Name: "proxy"})
	})
	if err != nil {
		t.Fatalf("seeding store: %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(string(compression), func(t *testing.T) {
			ctx := context.Background()
			source := openTestSQLite(t)
			seedStore(t, source)

			var buffer bytes.Buffer
			header, err := Export(ctx, source, &buffer, compression, 1_700_000_000)
			if err != nil {
				t.Fatalf("Export: %v", err)
			}
			if header.Records != 51 {
				t.Errorf("header.Records = %d, want 51", header.Records)
			}

			peeked, err := ReadHeader(bytes.NewReader(buffer.Bytes()))
			if err != nil {
				t.Fatalf("ReadHeader: %v", err)
			}
			if peeked != header {
				t.Errorf("ReadHeader = %+v, want %+v", peeked, header)
			}

			target := NewMemoryStore()
			defer target.Close()
			if _, err := Import(ctx, target, &buffer); err != nil {
				t.Fatalf("Import: %v", err)
			}

			var sourceEntries, targetEntries []Entry
			collect := func(into *[]Entry) func(Tx) error {
				return func(tx Tx) error {
					return tx.Scan(func(entry Entry) error {
						*into = append(*into, entry)
						return nil
					})
				}
			}
			source.View(ctx, collect(&sourceEntries))
			target.View(ctx, collect(&targetEntries))

			if len(sourceEntries) != len(targetEntries) {
				t.Fatalf("imported %d entries, want %d", len(targetEntries), len(sourceEntries))
			}
			for i := range sourceEntries {
				s, d := sourceEntries[i], targetEntries[i]
				if s.Address != d.Address || s.Version != d.Version || !bytes.Equal(s.Data, d.Data) {
					t.Errorf("entry %d differs after round trip", i)
				}
			}
		})
	}
}

func TestImportRequiresEmptyStore(t *testing.T) {
	ctx := context.Background()
	source := NewMemoryStore()
	seedStore(t, source)

	var buffer bytes.Buffer
	if _, err := Export(ctx, source, &buffer, CompressionZstd, 0); err != nil {
		t.Fatalf("Export: %v", err)
	}

	target := NewMemoryStore()
	if err := target.Update(ctx, func(tx Tx) error {
		return tx.Put(ProgramToken, Address{9}, "mint", testRecord{})
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := Import(ctx, target, &buffer); err == nil {
		t.Fatal("Import into a non-empty store succeeded")
	}
	count, _ := Count(ctx, target)
	if count != 1 {
		t.Errorf("target holds %d records after failed import, want 1", count)
	}
}

func TestImportRejectsTruncatedBody(t *testing.T) {
	ctx := context.Background()
	source := NewMemoryStore()
	seedStore(t, source)

	var buffer bytes.Buffer
	if _, err := Export(ctx, source, &buffer, CompressionNone, 0); err != nil {
		t.Fatalf("Export: %v", err)
	}
	truncated := buffer.Bytes()[:buffer.Len()-10]

	target := NewMemoryStore()
	if _, err := Import(ctx, target, bytes.NewReader(truncated)); err == nil {
		t.Fatal("Import of truncated snapshot succeeded")
	}
	if count, _ := Count(ctx, target); count != 0 {
		t.Errorf("target holds %d records after failed import", count)
	}
}

func TestParseCompression(t *testing.T) {
	for input, want := range map[string]Compression{"": CompressionZstd, "none": CompressionNone, "lz4": CompressionLZ4, "zstd": CompressionZstd} {
		got, err := ParseCompression(input)
		if err != nil || got != want {
			t.Errorf("ParseCompression(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
	if _, err := ParseCompression("gzip"); err == nil {
		t.Error("ParseCompression accepted gzip")
	}
}
