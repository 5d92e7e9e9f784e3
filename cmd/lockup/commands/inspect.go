// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
	"github.com/bureau-foundation/lockup/lib/codec"
	"github.com/bureau-foundation/lockup/lib/transition"
)

type inspectParams struct {
	cli.JSONOutput
}

type inspection struct {
	ID        string          `json:"id"`
	Kind      transition.Kind `json:"kind"`
	Signer    string          `json:"signer"`
	IssuedAt  int64           `json:"issued_at"`
	ExpiresAt int64           `json:"expires_at"`
	Body      string          `json:"body"`
	Signature string          `json:"signature"`
	Expired   bool            `json:"expired"`
}

func inspectCommand(stdout io.Writer) *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Decode a signed transition file",
		Description: `Decode a transition written by --out and check its signature and
expiry locally. The body is shown in CBOR diagnostic notation.`,
		Usage:  "lockup inspect <file>",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("expected one transition file")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading transition: %w", err)
			}
			result, err := inspectTransition(data, time.Now())
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(stdout, result); done {
				return err
			}
			fmt.Fprintf(stdout, "id:         %s\n", result.ID)
			fmt.Fprintf(stdout, "kind:       %s\n", result.Kind)
			fmt.Fprintf(stdout, "signer:     %s\n", result.Signer)
			fmt.Fprintf(stdout, "issued:     %s\n", cli.FormatTimestamp(result.IssuedAt))
			expires := cli.FormatTimestamp(result.ExpiresAt)
			if result.Expired {
				expires += " (expired)"
			}
			fmt.Fprintf(stdout, "expires:    %s\n", expires)
			fmt.Fprintf(stdout, "signature:  %s\n", result.Signature)
			fmt.Fprintf(stdout, "body:       %s\n", result.Body)
			return nil
		},
	}
}

// inspectTransition decodes data and checks it. A bad signature is an
// error; expiry is reported, since an expired file is still worth
// reading.
func inspectTransition(data []byte, now time.Time) (*inspection, error) {
	t, _, err := transition.Payload(data)
	if err != nil {
		return nil, err
	}
	body, err := codec.Diagnose(t.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}

	result := &inspection{
		ID:        t.ID,
		Kind:      t.Kind,
		Signer:    t.Signer.String(),
		IssuedAt:  t.IssuedAt,
		ExpiresAt: t.ExpiresAt,
		Body:      body,
		Signature: "valid",
		Expired:   now.Unix() >= t.ExpiresAt,
	}
	verifyAt := now
	if result.Expired {
		verifyAt = time.Unix(t.IssuedAt, 0)
	}
	if _, err := transition.Verify(data, verifyAt); err != nil {
		return nil, err
	}
	return result, nil
}
