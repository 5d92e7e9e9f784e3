// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
	"github.com/bureau-foundation/lockup/lib/config"
	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/lockup"
	"github.com/bureau-foundation/lockup/lib/transition"
)

type createParams struct {
	cli.TransitionParams
	Selector
	Token    string        `json:"-" flag:"token,t" desc:"token identity or key name (default: the ledger's token, asked of lockupd)"`
	Amount   string        `json:"-" flag:"amount" desc:"total amount, in whole tokens"`
	Start    string        `json:"-" flag:"start" desc:"vesting start: now, +DURATION, RFC 3339, or Unix seconds" default:"now"`
	End      string        `json:"-" flag:"end" desc:"vesting end, in the same forms as --start"`
	Duration time.Duration `json:"-" flag:"duration" desc:"vesting length from --start (instead of --end)"`
}

func createCommand(stdout io.Writer) *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create a vesting release",
		Description: `Create a release for a beneficiary. The signer must own the ledger
and the mint proxy. The release is registered as a proxy minter with
an allowance of its total, so it can never issue more. The end must
be after the start.`,
		Usage:  "lockup release create --beneficiary <identity> --amount <amount> (--end <time> | --duration <d>) --key <owner> [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			cfg, err := params.Config()
			if err != nil {
				return err
			}
			beneficiary, err := cli.RequireIdentity(cfg, "beneficiary", params.Beneficiary)
			if err != nil {
				return err
			}
			amount, err := params.Parse("amount", params.Amount)
			if err != nil {
				return err
			}
			startTS, endTS, err := scheduleBounds(params.Start, params.End, params.Duration, time.Now())
			if err != nil {
				return err
			}
			mint, err := params.mint(ctx, cfg)
			if err != nil {
				return err
			}
			return apply(ctx, stdout, &params.TransitionParams, transition.LedgerCreateRelease, transition.CreateReleaseBody{
				Beneficiary: beneficiary,
				Nonce:       params.Nonce,
				Mint:        mint,
				Amount:      amount,
				StartTS:     startTS,
				EndTS:       endTS,
			})
		},
	}
}

// mint returns --token, or the ledger's token when the flag is unset.
func (p *createParams) mint(ctx context.Context, cfg *config.Config) (identity.Identity, error) {
	if p.Token != "" {
		return cli.RequireIdentity(cfg, "token", p.Token)
	}
	if p.Out != "" {
		return identity.Identity{}, cli.Validation("--token is required with --out")
	}
	var admin lockup.Admin
	if err := p.Call(ctx, "admin", nil, &admin); err != nil {
		return identity.Identity{}, err
	}
	return admin.Token, nil
}

type withdrawParams struct {
	cli.TransitionParams
	Selector
	Amount    string `json:"-" flag:"amount" desc:"amount to withdraw, in whole tokens (default: everything available)"`
	IfVersion uint64 `json:"-" flag:"if-version" desc:"fail unless the release is at this store version"`
}

func withdrawCommand(stdout io.Writer) *cli.Command {
	var params withdrawParams

	return &cli.Command{
		Name:    "withdraw",
		Summary: "Withdraw vested tokens",
		Description: `Withdraw vested tokens to the beneficiary. The signer must be the
beneficiary. Without --amount everything available is withdrawn.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			cfg, err := params.Config()
			if err != nil {
				return err
			}
			beneficiary, err := cli.OptionalIdentity(cfg, "beneficiary", params.Beneficiary)
			if err != nil {
				return err
			}
			body := transition.WithdrawBody{
				Beneficiary: beneficiary,
				Nonce:       params.Nonce,
				IfVersion:   params.IfVersion,
			}
			if params.Amount != "" {
				amount, err := params.Parse("amount", params.Amount)
				if err != nil {
					return err
				}
				body.Amount = &amount
			}
			return apply(ctx, stdout, &params.TransitionParams, transition.LedgerWithdraw, body)
		},
	}
}

type revokeParams struct {
	cli.TransitionParams
	Selector
	IfVersion uint64 `json:"-" flag:"if-version" desc:"fail unless the release is at this store version"`
}

func revokeCommand(stdout io.Writer) *cli.Command {
	var params revokeParams

	return &cli.Command{
		Name:    "revoke",
		Summary: "Revoke a release",
		Description: `Revoke a release. The signer must own the ledger. The release's
minter allowance drops to zero. Revoking an already revoked release
succeeds and changes nothing.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			cfg, err := params.Config()
			if err != nil {
				return err
			}
			beneficiary, err := cli.RequireIdentity(cfg, "beneficiary", params.Beneficiary)
			if err != nil {
				return err
			}
			return apply(ctx, stdout, &params.TransitionParams, transition.LedgerRevokeRelease, transition.RevokeBody{
				Beneficiary: beneficiary,
				Nonce:       params.Nonce,
				IfVersion:   params.IfVersion,
			})
		},
	}
}
