// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
	"github.com/bureau-foundation/lockup/lib/mintproxy"
)

type showParams struct {
	cli.Connection
	cli.AmountFormat
	cli.JSONOutput
	Token string `json:"-" flag:"token,t" desc:"token identity or key name"`
}

type showResult struct {
	Authority *mintproxy.Authority `json:"authority"`
	Minters   []mintproxy.Minter   `json:"minters"`
}

func showCommand(stdout io.Writer) *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show the cap, issuance, owner, and minters",
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

			var result showResult
			fields := map[string]any{"token": tokenID}
			if err := params.Call(ctx, "authority", fields, &result.Authority); err != nil {
				return err
			}
			if err := params.Call(ctx, "minters", fields, &result.Minters); err != nil {
				return err
			}
			if result.Minters == nil {
				result.Minters = []mintproxy.Minter{}
			}
			if done, err := params.EmitJSON(stdout, result); done {
				return err
			}

			authority := result.Authority
			fmt.Fprintf(stdout, "token:           %s\n", authority.Token)
			fmt.Fprintf(stdout, "owner:           %s\n", authority.Owner)
			if authority.PendingOwner != nil {
				fmt.Fprintf(stdout, "pending owner:   %s\n", *authority.PendingOwner)
			}
			fmt.Fprintf(stdout, "hard cap:        %s\n", params.Format(authority.HardCap))
			fmt.Fprintf(stdout, "total issued:    %s\n", params.Format(authority.TotalIssued))
			fmt.Fprintf(stdout, "remaining:       %s\n", params.Format(authority.Remaining()))
			fmt.Fprintf(stdout, "mint authority:  %s\n", authority.MintAuthority)

			if len(result.Minters) == 0 {
				fmt.Fprintln(stdout, "\nno minters")
				return nil
			}
			fmt.Fprintln(stdout)
			writer := tabwriter.NewWriter(stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "MINTER\tALLOWANCE\n")
			for _, minter := range result.Minters {
				fmt.Fprintf(writer, "%s\t%s\n", minter.Minter, params.Format(minter.Allowance))
			}
			return writer.Flush()
		},
	}
}

type minterShowParams struct {
	cli.Connection
	cli.AmountFormat
	cli.JSONOutput
	Token  string `json:"-" flag:"token,t" desc:"token identity or key name"`
	Minter string `json:"-" flag:"minter,m" desc:"minter identity or key name"`
}

func minterCommand(stdout io.Writer) *cli.Command {
	var params minterShowParams

	return &cli.Command{
		Name:    "minter",
		Summary: "Show one minter's allowance",
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
			minterID, err := cli.RequireIdentity(cfg, "minter", params.Minter)
			if err != nil {
				return err
			}

			var minter mintproxy.Minter
			if err := params.Call(ctx, "minter", map[string]any{"token": tokenID, "minter": minterID}, &minter); err != nil {
				return err
			}
			if done, err := params.EmitJSON(stdout, minter); done {
				return err
			}
			fmt.Fprintf(stdout, "minter %s: allowance %s\n", minter.Minter, params.Format(minter.Allowance))
			return nil
		},
	}
}
