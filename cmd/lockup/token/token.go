// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
	"github.com/bureau-foundation/lockup/lib/ledgerservice"
	lockuptoken "github.com/bureau-foundation/lockup/lib/token"
	"github.com/bureau-foundation/lockup/lib/transition"
)

// Command returns the "token" parent command.
func Command(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "token",
		Summary: "Create and inspect token mints",
		Subcommands: []*cli.Command{
			createCommand(stdout),
			showCommand(stdout),
		},
		Examples: []cli.Example{
			{Description: "Create a 9-decimal token named by a key", Command: "lockup token create --token token --key owner"},
			{Description: "Show the mint", Command: "lockup token show --token token"},
		},
	}
}

type createParams struct {
	cli.TransitionParams
	Token string `json:"-" flag:"token,t" desc:"token identity or key name"`
}

func createCommand(stdout io.Writer) *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create a token mint",
		Description: `Create a mint for a token identity with --decimals precision. The
signer becomes the mint authority.`,
		Usage:  "lockup token create --token <identity> --key <signer> [flags]",
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
			receipt, err := params.Apply(ctx, stdout, transition.TokenCreateMint, transition.CreateMintBody{
				Token:    tokenID,
				Decimals: params.Decimals,
			})
			if err != nil {
				return err
			}
			return params.Report(stdout, receipt)
		},
	}
}

type showParams struct {
	cli.Connection
	cli.JSONOutput
	Token string `json:"-" flag:"token,t" desc:"token identity or key name"`
}

func showCommand(stdout io.Writer) *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show a token mint",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			cfg, err := params.Config()
			if err != nil {
				return err
			}
			tokenID, err := cli.RequireIdentity(cfg, "token", params.Token)
			if err != nil {
				return err
			}

			var mint lockuptoken.Mint
			if err := params.Call(ctx, "mint", map[string]any{"token": tokenID}, &mint); err != nil {
				return err
			}
			if done, err := params.EmitJSON(stdout, mint); done {
				return err
			}
			fmt.Fprintf(stdout, "token:           %s\n", mint.Token)
			fmt.Fprintf(stdout, "decimals:        %d\n", mint.Decimals)
			fmt.Fprintf(stdout, "supply:          %s\n", lockuptoken.FormatAmount(mint.Supply, mint.Decimals))
			fmt.Fprintf(stdout, "mint authority:  %s\n", mint.MintAuthority)
			return nil
		},
	}
}

type balanceParams struct {
	cli.Connection
	cli.AmountFormat
	cli.JSONOutput
	Token  string `json:"-" flag:"token,t" desc:"token identity or key name"`
	Holder string `json:"-" flag:"holder" desc:"holder identity or key name"`
}

// BalanceCommand returns "lockup balance".
func BalanceCommand(stdout io.Writer) *cli.Command {
	var params balanceParams

	return &cli.Command{
		Name:    "balance",
		Summary: "Show a holder's token balance",
		Usage:   "lockup balance --token <identity> --holder <identity> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			cfg, err := params.Config()
			if err != nil {
				return err
			}
			tokenID, err := cli.RequireIdentity(cfg, "token", params.Token)
			if err != nil {
				return err
			}
			holder, err := cli.RequireIdentity(cfg, "holder", params.Holder)
			if err != nil {
				return err
			}

			var balance ledgerservice.BalanceResponse
			if err := params.Call(ctx, "balance", map[string]any{"token": tokenID, "holder": holder}, &balance); err != nil {
				return err
			}
			if done, err := params.EmitJSON(stdout, balance); done {
				return err
			}
			fmt.Fprintln(stdout, params.Format(balance.Balance))
			return nil
		},
	}
}
