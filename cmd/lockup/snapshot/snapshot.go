// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
	"github.com/bureau-foundation/lockup/lib/config"
	"github.com/bureau-foundation/lockup/lib/sqlitepool"
	"github.com/bureau-foundation/lockup/lib/state"
)

// Command returns the "snapshot" parent command.
func Command(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "snapshot",
		Summary: "Export and import the ledger database",
		Description: `Export the ledger to a snapshot file, or import one into an empty
ledger. lockupd must not be running: both take the state directory
lock.`,
		Subcommands: []*cli.Command{
			exportCommand(stdout),
			importCommand(stdout),
			infoCommand(stdout),
		},
		Examples: []cli.Example{
			{Description: "Back up with lz4", Command: "lockup snapshot export --output ledger.snap --compression lz4"},
			{Description: "Restore on a new host", Command: "lockup snapshot import --input ledger.snap"},
		},
	}
}

type exportParams struct {
	cli.Connection
	cli.JSONOutput
	Output      string `json:"-" flag:"output,o" desc:"snapshot file to write"`
	Compression string `json:"-" flag:"compression" desc:"none, zstd, or lz4 (default: store.snapshot_compression)"`
}

func exportCommand(stdout io.Writer) *cli.Command {
	var params exportParams

	return &cli.Command{
		Name:    "export",
		Summary: "Write every ledger record to a snapshot file",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if params.Output == "" {
				return cli.Validation("--output is required")
			}
			cfg, err := params.Config()
			if err != nil {
				return err
			}
			name := params.Compression
			if name == "" {
				name = cfg.Store.SnapshotCompression
			}
			compression, err := state.ParseCompression(name)
			if err != nil {
				return cli.Validation("--compression: %v", err)
			}

			var header state.SnapshotHeader
			err = withStore(cfg, logger, func(store *state.SQLiteStore) error {
				file, err := os.OpenFile(params.Output, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
				if err != nil {
					return fmt.Errorf("creating snapshot: %w", err)
				}
				header, err = state.Export(ctx, store, file, compression, time.Now().Unix())
				if err != nil {
					file.Close()
					os.Remove(params.Output)
					return err
				}
				return file.Close()
			})
			if err != nil {
				return err
			}
			return report(stdout, &params.JSONOutput, "exported", params.Output, header)
		},
	}
}

type importParams struct {
	cli.Connection
	cli.JSONOutput
	Input string `json:"-" flag:"input,i" desc:"snapshot file to read"`
}

func importCommand(stdout io.Writer) *cli.Command {
	var params importParams

	return &cli.Command{
		Name:        "import",
		Summary:     "Load a snapshot into an empty ledger",
		Description: "Load a snapshot file. The ledger database must hold no records.",
		Params:      func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if params.Input == "" {
				return cli.Validation("--input is required")
			}
			cfg, err := params.Config()
			if err != nil {
				return err
			}
			file, err := os.Open(params.Input)
			if err != nil {
				return fmt.Errorf("opening snapshot: %w", err)
			}
			defer file.Close()

			var header state.SnapshotHeader
			err = withStore(cfg, logger, func(store *state.SQLiteStore) error {
				header, err = state.Import(ctx, store, file)
				return err
			})
			if err != nil {
				return err
			}
			return report(stdout, &params.JSONOutput, "imported", params.Input, header)
		},
	}
}

type infoParams struct {
	cli.JSONOutput
}

func infoCommand(stdout io.Writer) *cli.Command {
	var params infoParams

	return &cli.Command{
		Name:    "info",
		Summary: "Show a snapshot file's header",
		Usage:   "lockup snapshot info <file>",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("expected one snapshot file")
			}
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening snapshot: %w", err)
			}
			defer file.Close()

			header, err := state.ReadHeader(file)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(stdout, header); done {
				return err
			}
			writeHeader(stdout, header)
			return nil
		},
	}
}

// withStore opens the ledger database under the state directory lock.
func withStore(cfg *config.Config, logger *slog.Logger, fn func(*state.SQLiteStore) error) error {
	lock, err := state.Lock(cfg.Paths.State)
	if err != nil {
		if errors.Is(err, state.ErrLocked) {
			return fmt.Errorf("%w (stop lockupd first)", err)
		}
		return err
	}
	defer lock.Release()

	store, err := state.OpenSQLite(state.SQLiteConfig{
		Path:        cfg.DatabasePath(),
		PoolSize:    1,
		Synchronous: sqlitepool.Synchronous(cfg.Store.Synchronous),
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

type result struct {
	Action string               `json:"action"`
	Path   string               `json:"path"`
	Header state.SnapshotHeader `json:"header"`
}

func report(w io.Writer, output *cli.JSONOutput, action, path string, header state.SnapshotHeader) error {
	if done, err := output.EmitJSON(w, result{Action: action, Path: path, Header: header}); done {
		return err
	}
	preposition := "to"
	if action == "imported" {
		preposition = "from"
	}
	fmt.Fprintf(w, "%s %d records (%s) %s %s\n", action, header.Records, header.Compression, preposition, path)
	return nil
}

func writeHeader(w io.Writer, header state.SnapshotHeader) {
	fmt.Fprintf(w, "format:       %s v%d\n", header.Format, header.Version)
	fmt.Fprintf(w, "compression:  %s\n", header.Compression)
	fmt.Fprintf(w, "records:      %d\n", header.Records)
	fmt.Fprintf(w, "created:      %s\n", cli.FormatTimestamp(header.CreatedAt))
}
