// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/lockup/lib/config"
	"github.com/bureau-foundation/lockup/lib/state"
)

type record struct {
	Name string `cbor:"name"`
}

// useConfig points LOCKUP_CONFIG at a fresh root and returns the
// loaded config.
func useConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "lockup.yaml")
	contents := fmt.Sprintf("paths:\n  root: %s\n  socket: %s\nstore:\n  synchronous: NORMAL\n",
		root, filepath.Join(root, "s.sock"))
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvironmentVariable, path)
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func seed(t *testing.T, cfg *config.Config, count int) {
	t.Helper()
	if err := os.MkdirAll(cfg.Paths.State, 0o700); err != nil {
		t.Fatal(err)
	}
	store, err := state.OpenSQLite(state.SQLiteConfig{Path: cfg.DatabasePath(), PoolSize: 1})
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer store.Close()
	err = store.Update(context.Background(), func(tx state.Tx) error {
		for i := range count {
			address := state.Derive(state.ProgramLockup, []byte("record"), []byte{byte(i)})
			if err := tx.Put(state.ProgramLockup, address, "record", record{Name: fmt.Sprint(i)}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seeding: %v", err)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	command := Command(&stdout)
	command.HelpOutput = io.Discard
	command.Logger = slog.New(slog.DiscardHandler)
	err := command.Execute(context.Background(), args)
	return stdout.String(), err
}

func TestExportInfoImport(t *testing.T) {
	source := useConfig(t)
	seed(t, source, 5)
	snapshotPath := filepath.Join(t.TempDir(), "ledger.snap")

	output, err := run(t, "export", "--output", snapshotPath, "--compression", "lz4")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(output, "exported 5 records (lz4) to "+snapshotPath) {
		t.Errorf("export output = %q", output)
	}

	output, err = run(t, "info", snapshotPath, "--json")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	var header state.SnapshotHeader
	if err := json.Unmarshal([]byte(output), &header); err != nil {
		t.Fatalf("decoding info: %v\n%s", err, output)
	}
	if header.Records != 5 || header.Compression != state.CompressionLZ4 {
		t.Errorf("header = %+v", header)
	}

	if _, err := run(t, "import", "--input", snapshotPath); err == nil {
		t.Error("import into a non-empty ledger should fail")
	}

	useConfig(t)
	output, err = run(t, "import", "--input", snapshotPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(output, "imported 5 records (lz4) from") {
		t.Errorf("import output = %q", output)
	}
}

func TestExportDefaultsToConfiguredCompression(t *testing.T) {
	cfg := useConfig(t)
	seed(t, cfg, 1)
	snapshotPath := filepath.Join(t.TempDir(), "ledger.snap")

	if _, err := run(t, "export", "-o", snapshotPath); err != nil {
		t.Fatalf("export: %v", err)
	}
	output, err := run(t, "info", snapshotPath)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if !strings.Contains(output, "compression:  zstd") {
		t.Errorf("info = %q, want zstd", output)
	}

	if _, err := run(t, "export", "-o", snapshotPath); err == nil {
		t.Error("export over an existing file should fail")
	}
}

func TestSnapshotRefusesWhileLocked(t *testing.T) {
	cfg := useConfig(t)
	lock, err := state.Lock(cfg.Paths.State)
	if err != nil {
		t.Fatal(err)
	}
	defer lock.Release()

	_, err = run(t, "export", "--output", filepath.Join(t.TempDir(), "x.snap"))
	if err == nil || !strings.Contains(err.Error(), "stop lockupd first") {
		t.Errorf("export while locked: err = %v", err)
	}
}

func TestSnapshotFlagErrors(t *testing.T) {
	useConfig(t)
	for _, args := range [][]string{
		{"export"},
		{"import"},
		{"export", "--output", "x", "--compression", "gzip"},
		{"info"},
	} {
		if _, err := run(t, args...); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}
