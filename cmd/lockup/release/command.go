// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"context"
	"io"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
	"github.com/bureau-foundation/lockup/lib/transition"
)

// Command returns the "release" parent command.
func Command(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "release",
		Summary: "Create, withdraw from, and revoke vesting releases",
		Description: `Manage vesting releases.

A release vests linearly from its start to its end. The beneficiary
may withdraw the vested amount less what was already withdrawn, and
each withdrawal issues tokens through the mint proxy. Revoking stops
further vesting and withdrawals; tokens already withdrawn stay with
the beneficiary.`,
		Subcommands: []*cli.Command{
			createCommand(stdout),
			withdrawCommand(stdout),
			revokeCommand(stdout),
			showCommand(stdout),
			listCommand(stdout),
			availableCommand(stdout),
		},
		Examples: []cli.Example{
			{
				Description: "Grant 1000 tokens vesting over a year, starting now",
				Command:     "lockup release create --beneficiary alice --amount 1000 --duration 8760h --key owner",
			},
			{
				Description: "Withdraw everything vested so far",
				Command:     "lockup release withdraw --key alice",
			},
			{
				Description: "Revoke only if nobody changed the release since version 3",
				Command:     "lockup release revoke --beneficiary alice --if-version 3 --key owner",
			},
		},
	}
}

// Selector names one release. An empty beneficiary is resolved by the
// caller: the signer for withdraw, required elsewhere.
type Selector struct {
	Beneficiary string `json:"-" flag:"beneficiary,b" desc:"beneficiary identity or key name"`
	Nonce       uint64 `json:"-" flag:"nonce,n" desc:"release nonce"`
}

func apply(ctx context.Context, stdout io.Writer, params *cli.TransitionParams, kind transition.Kind, body any) error {
	receipt, err := params.Apply(ctx, stdout, kind, body)
	if err != nil {
		return err
	}
	return params.Report(stdout, receipt)
}
