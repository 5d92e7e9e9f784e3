// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
	"github.com/bureau-foundation/lockup/lib/lockup"
	"github.com/bureau-foundation/lockup/lib/transition"
)

// Command returns the "ledger" parent command.
func Command(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "ledger",
		Summary: "Initialize and administer the release ledger",
		Description: `Initialize and administer the release ledger.

The ledger is bound to one token's mint proxy at init and never
rebinds. Its owner creates and revokes releases; the ledger registers
and revokes their minters on the proxy itself, so ownership of the
proxy is only needed at init.`,
		Subcommands: []*cli.Command{
			initCommand(stdout),
			transferCommand(stdout),
			simpleCommand(stdout, "accept-ownership", "Accept a proposed ledger ownership", transition.LedgerAcceptOwnership),
			simpleCommand(stdout, "cancel-transfer", "Cancel a proposed ledger ownership transfer", transition.LedgerCancelTransfer),
			showCommand(stdout),
		},
		Examples: []cli.Example{
			{Description: "Bind the ledger to a token's proxy", Command: "lockup ledger init --token token --key owner"},
			{Description: "Hand the ledger to a new owner", Command: "lockup ledger transfer-ownership --new-owner ops --key owner"},
		},
	}
}

type initParams struct {
	cli.TransitionParams
	Token string `json:"-" flag:"token,t" desc:"token identity or key name"`
}

func initCommand(stdout io.Writer) *cli.Command {
	var params initParams

	return &cli.Command{
		Name:    "init",
		Summary: "Initialize the ledger for a token",
		Description: `Initialize the ledger. The token must already have a mint proxy,
and the signer must own it. The signer becomes the ledger owner.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			cfg, err := params.Config()
			if err != nil {
				return err
			}
			tokenID, err := cli.RequireIdentity(cfg, "token", params.Token)
			if err != nil {
				return err
			}
			return apply(ctx, stdout, &params.TransitionParams, transition.LedgerInitialize, transition.InitializeBody{Token: tokenID})
		},
	}
}

type transferParams struct {
	cli.TransitionParams
	NewOwner string `json:"-" flag:"new-owner" desc:"proposed owner identity or key name"`
}

func transferCommand(stdout io.Writer) *cli.Command {
	var params transferParams

	return &cli.Command{
		Name:        "transfer-ownership",
		Summary:     "Propose a new ledger owner",
		Description: "Propose a new ledger owner. Nothing changes until the proposed owner accepts.",
		Params:      func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			cfg, err := params.Config()
			if err != nil {
				return err
			}
			newOwner, err := cli.RequireIdentity(cfg, "new-owner", params.NewOwner)
			if err != nil {
				return err
			}
			return apply(ctx, stdout, &params.TransitionParams, transition.LedgerTransferOwnership,
				transition.LedgerOwnershipBody{NewOwner: newOwner})
		},
	}
}

func simpleCommand(stdout io.Writer, name, summary string, kind transition.Kind) *cli.Command {
	var params cli.TransitionParams

	return &cli.Command{
		Name:    name,
		Summary: summary,
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			return apply(ctx, stdout, &params, kind, struct{}{})
		},
	}
}

func apply(ctx context.Context, stdout io.Writer, params *cli.TransitionParams, kind transition.Kind, body any) error {
	receipt, err := params.Apply(ctx, stdout, kind, body)
	if err != nil {
		return err
	}
	return params.Report(stdout, receipt)
}

type showParams struct {
	cli.Connection
	cli.JSONOutput
}

func showCommand(stdout io.Writer) *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show the ledger's admin record",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			var admin lockup.Admin
			if err := params.Call(ctx, "admin", nil, &admin); err != nil {
				return err
			}
			if done, err := params.EmitJSON(stdout, admin); done {
				return err
			}
			fmt.Fprintf(stdout, "token:          %s\n", admin.Token)
			fmt.Fprintf(stdout, "owner:          %s\n", admin.Owner)
			if admin.PendingOwner != nil {
				fmt.Fprintf(stdout, "pending owner:  %s\n", *admin.PendingOwner)
			}
			fmt.Fprintf(stdout, "created:        %s\n", cli.FormatTimestamp(admin.CreatedTS))
			return nil
		},
	}
}
