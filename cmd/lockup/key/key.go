// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package key

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
	"github.com/bureau-foundation/lockup/lib/identity"
)

type keygenParams struct {
	cli.Connection
	cli.JSONOutput
	PassphraseFile string `json:"-" flag:"passphrase-file" desc:"seal the key with the passphrase in this file ('-' reads stdin)"`
	Force          bool   `json:"-" flag:"force" desc:"overwrite an existing key"`
}

type keyResult struct {
	Name     string            `json:"name"`
	Path     string            `json:"path"`
	Identity identity.Identity `json:"identity"`
	Sealed   bool              `json:"sealed"`
}

// KeygenCommand returns "lockup keygen".
func KeygenCommand(stdout io.Writer) *cli.Command {
	var params keygenParams

	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate a signing key",
		Description: `Generate an Ed25519 keypair and store it in the key directory.

NAME.key holds the private key and NAME.key.pub the base58 identity.
With --passphrase-file the private key is sealed with age's scrypt
recipient; commands that sign with it then need the same passphrase.`,
		Usage: "lockup keygen <name> [flags]",
		Examples: []cli.Example{
			{Description: "Create the ledger owner's key", Command: "lockup keygen owner"},
			{Description: "Create a sealed key", Command: "lockup keygen treasury --passphrase-file ./treasury.pass"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("usage: lockup keygen <name>")
			}
			return runKeygen(stdout, args[0], &params, logger)
		},
	}
}

func runKeygen(stdout io.Writer, name string, params *keygenParams, logger *slog.Logger) error {
	cfg, err := params.Config()
	if err != nil {
		return err
	}
	path := cli.KeyPath(cfg, name)

	if !params.Force {
		if _, err := os.Stat(path); err == nil {
			return cli.Validation("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	passphrase, err := cli.ReadPassphrase(params.PassphraseFile)
	if err != nil {
		return err
	}

	keypair, err := identity.Generate()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating key directory: %w", err)
	}
	if err := identity.Save(path, keypair, passphrase); err != nil {
		return err
	}
	logger.Debug("key written", "path", path, "sealed", passphrase != "")

	result := keyResult{Name: name, Path: path, Identity: keypair.Identity, Sealed: passphrase != ""}
	if done, err := params.EmitJSON(stdout, result); done {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\nidentity %s\n", path, keypair.Identity)
	return nil
}

type identityParams struct {
	cli.Connection
	cli.JSONOutput
}

// IdentityCommand returns "lockup identity".
func IdentityCommand(stdout io.Writer) *cli.Command {
	var params identityParams

	return &cli.Command{
		Name:    "identity",
		Summary: "Print the identity of a key",
		Usage:   "lockup identity <name>",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("usage: lockup identity <name>")
			}
			cfg, err := params.Config()
			if err != nil {
				return err
			}
			path := cli.KeyPath(cfg, args[0])
			id, err := identity.LoadPublic(path)
			if err != nil {
				return err
			}
			sealed := false
			if contents, err := os.ReadFile(path); err == nil {
				sealed = identity.IsSealed(contents)
			}

			result := keyResult{Name: args[0], Path: path, Identity: id, Sealed: sealed}
			if done, err := params.EmitJSON(stdout, result); done {
				return err
			}
			fmt.Fprintln(stdout, id)
			return nil
		},
	}
}
