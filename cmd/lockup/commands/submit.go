// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
)

type submitParams struct {
	cli.Connection
	cli.AmountFormat
	cli.JSONOutput
}

func submitCommand(stdout io.Writer) *cli.Command {
	var params submitParams

	return &cli.Command{
		Name:    "submit",
		Summary: "Submit signed transition files to lockupd",
		Description: `Submit transitions written by --out. Files are submitted in order;
the first failure stops the rest. A transition that was already
applied fails with duplicate_transition.`,
		Usage:  "lockup submit <file>... [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return cli.Validation("expected at least one transition file")
			}
			for _, path := range args {
				signed, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading transition: %w", err)
				}
				receipt, err := params.Submit(ctx, signed)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				logger.Debug("submitted transition", "path", path, "id", receipt.ID, "kind", string(receipt.Kind))
				if done, err := params.EmitJSON(stdout, receipt); done {
					if err != nil {
						return err
					}
					continue
				}
				cli.WriteReceipt(stdout, receipt, params.AmountFormat)
			}
			return nil
		},
	}
}
