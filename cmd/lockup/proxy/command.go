// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"io"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
)

// Command returns the "proxy" parent command with all subcommands.
func Command(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "proxy",
		Summary: "Manage the capped mint proxy",
		Description: `Manage the mint proxy of a token.

"create" moves the token's mint authority to the proxy and fixes the
hard cap forever. Minters then issue within their allowance, and the
total never exceeds the cap. Ownership moves in two steps: the owner
proposes with transfer-ownership and the successor accepts.`,
		Subcommands: []*cli.Command{
			createCommand(stdout),
			addMinterCommand(stdout),
			removeMinterCommand(stdout),
			issueCommand(stdout),
			ownershipCommand(stdout, transferOwnership),
			ownershipCommand(stdout, acceptOwnership),
			ownershipCommand(stdout, cancelTransfer),
			showCommand(stdout),
			minterCommand(stdout),
		},
		Examples: []cli.Example{
			{
				Description: "Put a token behind a one-million cap",
				Command:     "lockup proxy create --token token --hard-cap 1000000 --key owner",
			},
			{
				Description: "Let the treasury issue up to 5000",
				Command:     "lockup proxy add-minter --token token --minter treasury --allowance 5000 --key owner",
			},
			{
				Description: "Show the cap and every minter",
				Command:     "lockup proxy show --token token",
			},
		},
	}
}
