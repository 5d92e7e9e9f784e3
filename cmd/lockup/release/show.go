// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/ledgerservice"
	"github.com/bureau-foundation/lockup/lib/lockup"
)

type showParams struct {
	cli.Connection
	cli.AmountFormat
	cli.JSONOutput
	Selector
}

func (p *showParams) beneficiary() (identity.Identity, error) {
	cfg, err := p.Config()
	if err != nil {
		return identity.Identity{}, err
	}
	return cli.RequireIdentity(cfg, "beneficiary", p.Beneficiary)
}

func showCommand(stdout io.Writer) *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show a release as of now",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			beneficiary, err := params.beneficiary()
			if err != nil {
				return err
			}
			var status lockup.Status
			if err := params.Call(ctx, "release", map[string]any{"beneficiary": beneficiary, "nonce": params.Nonce}, &status); err != nil {
				return err
			}
			if done, err := params.EmitJSON(stdout, status); done {
				return err
			}
			writeStatus(stdout, &status, params.AmountFormat)
			return nil
		},
	}
}

func writeStatus(w io.Writer, status *lockup.Status, amounts cli.AmountFormat) {
	release := status.Release
	fmt.Fprintf(w, "beneficiary:  %s\n", release.Beneficiary)
	fmt.Fprintf(w, "nonce:        %d\n", release.Nonce)
	fmt.Fprintf(w, "address:      %s\n", status.Address)
	fmt.Fprintf(w, "version:      %d\n", status.Version)
	fmt.Fprintf(w, "mint:         %s\n", release.Mint)
	fmt.Fprintf(w, "schedule:     %s to %s\n", cli.FormatTimestamp(release.StartTS), cli.FormatTimestamp(release.EndTS))
	fmt.Fprintf(w, "total:        %s\n", amounts.Format(release.TotalAmount))
	fmt.Fprintf(w, "vested:       %s (%.1f%%)\n", amounts.Format(status.Vested), status.Fraction()*100)
	fmt.Fprintf(w, "withdrawn:    %s\n", amounts.Format(release.WithdrawnAmount))
	fmt.Fprintf(w, "available:    %s\n", amounts.Format(status.Available))
	fmt.Fprintf(w, "state:        %s\n", describeState(status))
	fmt.Fprintf(w, "as of:        %s\n", cli.FormatTimestamp(status.Now))
}

func describeState(status *lockup.Status) string {
	release := status.Release
	switch {
	case release.Revoked:
		return "revoked at " + cli.FormatTimestamp(release.RevokedTS)
	case release.FullyWithdrawn():
		return "fully withdrawn"
	case status.Now < release.StartTS:
		return "not started"
	}
	if remaining := release.Schedule().Remaining(status.Now); remaining > 0 {
		return fmt.Sprintf("vesting, %s remaining", time.Duration(remaining)*time.Second)
	}
	return "fully vested"
}

type listParams struct {
	cli.Connection
	cli.AmountFormat
	cli.JSONOutput
	Beneficiary string `json:"-" flag:"beneficiary,b" desc:"only this beneficiary's releases"`
}

func listCommand(stdout io.Writer) *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List releases",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			cfg, err := params.Config()
			if err != nil {
				return err
			}
			fields := map[string]any{}
			if params.Beneficiary != "" {
				beneficiary, err := cli.ResolveIdentity(cfg, params.Beneficiary)
				if err != nil {
					return err
				}
				fields["beneficiary"] = beneficiary
			}

			var statuses []lockup.Status
			if err := params.Call(ctx, "releases", fields, &statuses); err != nil {
				return err
			}
			if statuses == nil {
				statuses = []lockup.Status{}
			}
			if done, err := params.EmitJSON(stdout, statuses); done {
				return err
			}
			if len(statuses) == 0 {
				fmt.Fprintln(stdout, "no releases")
				return nil
			}

			writer := tabwriter.NewWriter(stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "BENEFICIARY\tNONCE\tTOTAL\tVESTED\tWITHDRAWN\tAVAILABLE\tSTATE\n")
			for i := range statuses {
				status := &statuses[i]
				release := status.Release
				fmt.Fprintf(writer, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
					release.Beneficiary, release.Nonce,
					params.Format(release.TotalAmount),
					params.Format(status.Vested),
					params.Format(release.WithdrawnAmount),
					params.Format(status.Available),
					describeState(status))
			}
			return writer.Flush()
		},
	}
}

func availableCommand(stdout io.Writer) *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "available",
		Summary: "Show the amount withdrawable now",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			beneficiary, err := params.beneficiary()
			if err != nil {
				return err
			}
			var response ledgerservice.AvailableResponse
			if err := params.Call(ctx, "available", map[string]any{"beneficiary": beneficiary, "nonce": params.Nonce}, &response); err != nil {
				return err
			}
			if done, err := params.EmitJSON(stdout, response); done {
				return err
			}
			fmt.Fprintln(stdout, params.Format(response.Available))
			return nil
		},
	}
}
