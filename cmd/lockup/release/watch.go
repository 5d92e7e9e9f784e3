// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
	"github.com/bureau-foundation/lockup/lib/watchui"
)

type watchParams struct {
	cli.Connection
	cli.AmountFormat
	Selector
	Interval time.Duration `json:"-" flag:"interval" desc:"refresh interval" default:"2s"`
	Plain    bool          `json:"-" flag:"plain" desc:"disable color"`
}

// WatchCommand returns "lockup watch", a live view of one release.
func WatchCommand(stdout io.Writer) *cli.Command {
	var params watchParams

	return &cli.Command{
		Name:    "watch",
		Summary: "Watch a release vest in the terminal",
		Description: `Show one release with a progress bar, refreshed from lockupd. Press
r to refresh now and q to quit. Polling stops once the release is
revoked or fully withdrawn.`,
		Usage:  "lockup watch --beneficiary <identity> [--nonce N] [flags]",
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
			client, err := params.Client()
			if err != nil {
				return err
			}
			source := &watchui.ClientSource{Client: client, Beneficiary: beneficiary, Nonce: params.Nonce}
			return watchui.Run(ctx, source, stdout, watchui.Options{
				Interval: params.Interval,
				Decimals: params.Decimals,
				Plain:    params.Plain,
			})
		},
	}
}
