// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"context"
	"io"
	"log/slog"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/transition"
)

type createParams struct {
	cli.TransitionParams
	Token   string `json:"-" flag:"token,t" desc:"token identity or key name"`
	HardCap string `json:"-" flag:"hard-cap" desc:"maximum total issuance, in whole tokens"`
	Owner   string `json:"-" flag:"owner" desc:"proxy owner (default: the signer)"`
}

func createCommand(stdout io.Writer) *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create the mint proxy for a token",
		Description: `Create the mint proxy for a token. The signer must be the token's
current mint authority; the authority moves to an address derived
from the proxy, which nobody can sign for.`,
		Usage:  "lockup proxy create --token <identity> --hard-cap <amount> --key <signer> [flags]",
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
			hardCap, err := params.Parse("hard-cap", params.HardCap)
			if err != nil {
				return err
			}
			owner, err := cli.OptionalIdentity(cfg, "owner", params.Owner)
			if err != nil {
				return err
			}
			return apply(ctx, stdout, &params.TransitionParams, transition.ProxyCreate, transition.ProxyCreateBody{
				Token:   tokenID,
				HardCap: hardCap,
				Owner:   owner,
			})
		},
	}
}

type minterParams struct {
	cli.TransitionParams
	Token     string `json:"-" flag:"token,t" desc:"token identity or key name"`
	Minter    string `json:"-" flag:"minter,m" desc:"minter identity or key name"`
	Allowance string `json:"-" flag:"allowance" desc:"issuance allowance, in whole tokens"`
}

func addMinterCommand(stdout io.Writer) *cli.Command {
	var params minterParams

	return &cli.Command{
		Name:        "add-minter",
		Summary:     "Register a minter or replace its allowance",
		Description: "Register a minter with an allowance. An existing minter's allowance is replaced, not added to.",
		Params:      func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			tokenID, minter, err := params.resolve()
			if err != nil {
				return err
			}
			allowance, err := params.Parse("allowance", params.Allowance)
			if err != nil {
				return err
			}
			return apply(ctx, stdout, &params.TransitionParams, transition.ProxyAddMinter, transition.MinterBody{
				Token:     tokenID,
				Minter:    minter,
				Allowance: allowance,
			})
		},
	}
}

func removeMinterCommand(stdout io.Writer) *cli.Command {
	var params minterParams

	return &cli.Command{
		Name:    "remove-minter",
		Summary: "Remove a minter",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			tokenID, minter, err := params.resolve()
			if err != nil {
				return err
			}
			if params.Allowance != "" {
				return cli.Validation("--allowance does not apply to remove-minter")
			}
			return apply(ctx, stdout, &params.TransitionParams, transition.ProxyRemoveMinter, transition.MinterBody{
				Token:  tokenID,
				Minter: minter,
			})
		},
	}
}

func (p *minterParams) resolve() (identity.Identity, identity.Identity, error) {
	cfg, err := p.Config()
	if err != nil {
		return identity.Identity{}, identity.Identity{}, err
	}
	tokenID, err := cli.RequireIdentity(cfg, "token", p.Token)
	if err != nil {
		return identity.Identity{}, identity.Identity{}, err
	}
	minter, err := cli.RequireIdentity(cfg, "minter", p.Minter)
	if err != nil {
		return identity.Identity{}, identity.Identity{}, err
	}
	return tokenID, minter, nil
}

type issueParams struct {
	cli.TransitionParams
	Token       string `json:"-" flag:"token,t" desc:"token identity or key name"`
	Amount      string `json:"-" flag:"amount" desc:"amount to issue, in whole tokens"`
	Destination string `json:"-" flag:"destination" desc:"receiving identity or key name"`
}

func issueCommand(stdout io.Writer) *cli.Command {
	var params issueParams

	return &cli.Command{
		Name:    "issue",
		Summary: "Issue tokens as a minter",
		Description: `Issue tokens to a destination. The signer is the minter; the amount
comes out of its allowance and counts against the hard cap.`,
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
			destination, err := cli.RequireIdentity(cfg, "destination", params.Destination)
			if err != nil {
				return err
			}
			amount, err := params.Parse("amount", params.Amount)
			if err != nil {
				return err
			}
			return apply(ctx, stdout, &params.TransitionParams, transition.ProxyIssue, transition.IssueBody{
				Token:       tokenID,
				Amount:      amount,
				Destination: destination,
			})
		},
	}
}

// ownershipAction is one step of the two-phase ownership transfer.
type ownershipAction struct {
	name    string
	summary string
	kind    transition.Kind
}

var (
	transferOwnership = ownershipAction{"transfer-ownership", "Propose a new proxy owner", transition.ProxyTransferOwnership}
	acceptOwnership   = ownershipAction{"accept-ownership", "Accept a proposed proxy ownership", transition.ProxyAcceptOwnership}
	cancelTransfer    = ownershipAction{"cancel-transfer", "Cancel a proposed ownership transfer", transition.ProxyCancelTransfer}
)

type ownershipParams struct {
	cli.TransitionParams
	Token    string `json:"-" flag:"token,t" desc:"token identity or key name"`
	NewOwner string `json:"-" flag:"new-owner" desc:"proposed owner (transfer-ownership only)"`
}

func ownershipCommand(stdout io.Writer, action ownershipAction) *cli.Command {
	var params ownershipParams

	return &cli.Command{
		Name:    action.name,
		Summary: action.summary,
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
			body := transition.ProxyOwnershipBody{Token: tokenID}
			switch {
			case action.kind == transition.ProxyTransferOwnership:
				if body.NewOwner, err = cli.RequireIdentity(cfg, "new-owner", params.NewOwner); err != nil {
					return err
				}
			case params.NewOwner != "":
				return cli.Validation("--new-owner only applies to transfer-ownership")
			}
			return apply(ctx, stdout, &params.TransitionParams, action.kind, body)
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
