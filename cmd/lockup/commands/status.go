// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
	"github.com/bureau-foundation/lockup/lib/ledgerservice"
)

type statusParams struct {
	cli.Connection
	cli.JSONOutput
}

func statusCommand(stdout io.Writer) *cli.Command {
	var params statusParams

	return &cli.Command{
		Name:    "status",
		Summary: "Check that lockupd is running",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			var status ledgerservice.StatusResponse
			if err := params.Call(ctx, "status", nil, &status); err != nil {
				return err
			}
			if done, err := params.EmitJSON(stdout, status); done {
				return err
			}
			uptime := time.Duration(status.UptimeSeconds * float64(time.Second)).Truncate(time.Second)
			fmt.Fprintf(stdout, "lockupd %s, up %s\n", status.Build.Version, uptime)
			fmt.Fprintf(stdout, "clock:        %s\n", cli.FormatTimestamp(status.Now))
			fmt.Fprintf(stdout, "transitions:  %d applied\n", status.Applied)
			fmt.Fprintf(stdout, "records:      %d\n", status.Records)
			return nil
		},
	}
}
