// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete lockup CLI command tree.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
	keycmd "github.com/bureau-foundation/lockup/cmd/lockup/key"
	ledgercmd "github.com/bureau-foundation/lockup/cmd/lockup/ledger"
	proxycmd "github.com/bureau-foundation/lockup/cmd/lockup/proxy"
	releasecmd "github.com/bureau-foundation/lockup/cmd/lockup/release"
	simulatecmd "github.com/bureau-foundation/lockup/cmd/lockup/simulate"
	snapshotcmd "github.com/bureau-foundation/lockup/cmd/lockup/snapshot"
	tokencmd "github.com/bureau-foundation/lockup/cmd/lockup/token"
	"github.com/bureau-foundation/lockup/lib/version"
)

// Root builds the lockup command tree. Command output goes to stdout;
// help and logs go to stderr unless the caller sets HelpOutput and
// Logger on the result.
func Root(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name: "lockup",
		Description: `lockup: token vesting releases behind a capped mint proxy.

Every change to the ledger is a signed transition submitted to
lockupd over its Unix socket. Commands that change state take --key
to sign, or --out to write the signed transition to a file for
"lockup submit" later.`,
		Subcommands: []*cli.Command{
			keycmd.KeygenCommand(stdout),
			keycmd.IdentityCommand(stdout),
			tokencmd.Command(stdout),
			tokencmd.BalanceCommand(stdout),
			proxycmd.Command(stdout),
			ledgercmd.Command(stdout),
			releasecmd.Command(stdout),
			releasecmd.WatchCommand(stdout),
			submitCommand(stdout),
			inspectCommand(stdout),
			statusCommand(stdout),
			snapshotcmd.Command(stdout),
			simulatecmd.Command(stdout),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Fprintf(stdout, "lockup %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Create keys for the owner and a beneficiary",
				Command:     "lockup keygen owner && lockup keygen alice",
			},
			{
				Description: "Set up a token, its capped proxy, and the ledger",
				Command:     "lockup token create --token token --key owner && lockup proxy create --token token --hard-cap 1000000 --key owner && lockup ledger init --token token --key owner",
			},
			{
				Description: "Grant alice 1000 tokens over a year",
				Command:     "lockup release create --beneficiary alice --amount 1000 --duration 8760h --key owner",
			},
			{
				Description: "Withdraw as alice",
				Command:     "lockup release withdraw --key alice",
			},
			{
				Description: "Try a schedule without a daemon",
				Command:     "lockup simulate grant.yaml",
			},
		},
	}
}
