// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bureau-foundation/lockup/lib/lockup"
	"github.com/bureau-foundation/lockup/lib/mintproxy"
	"github.com/bureau-foundation/lockup/lib/token"
	"github.com/bureau-foundation/lockup/lib/transition"
)

// TransitionParams are the flags shared by every command that signs an
// instruction. Embed it in the command's params struct.
type TransitionParams struct {
	Connection
	SignerParams
	AmountFormat
	JSONOutput
}

// Apply signs an instruction with --key and submits it to lockupd.
// With --out the signed bytes go to that file instead, and the
// returned receipt is nil.
func (p *TransitionParams) Apply(ctx context.Context, w io.Writer, kind transition.Kind, body any) (*transition.Receipt, error) {
	cfg, err := p.Config()
	if err != nil {
		return nil, err
	}
	keypair, err := p.Keypair(cfg)
	if err != nil {
		return nil, err
	}

	unsigned, err := transition.New(kind, keypair.Identity, body, time.Now(), p.Validity)
	if err != nil {
		return nil, err
	}
	signed, err := transition.Sign(keypair, unsigned)
	if err != nil {
		return nil, err
	}

	if p.Out != "" {
		if err := os.WriteFile(p.Out, signed, 0o600); err != nil {
			return nil, fmt.Errorf("writing transition: %w", err)
		}
		fmt.Fprintf(w, "wrote %s transition %s to %s (expires %s)\n",
			kind, unsigned.ID, p.Out, FormatTimestamp(unsigned.ExpiresAt))
		return nil, nil
	}
	return p.Submit(ctx, signed)
}

// Report writes a receipt from Apply as JSON or text. A nil receipt
// (the transition went to --out) writes nothing.
func (p *TransitionParams) Report(w io.Writer, receipt *transition.Receipt) error {
	if receipt == nil {
		return nil
	}
	if done, err := p.EmitJSON(w, receipt); done {
		return err
	}
	WriteReceipt(w, receipt, p.AmountFormat)
	return nil
}

// Submit sends signed transition bytes to lockupd and decodes the
// receipt's typed result.
func (c *Connection) Submit(ctx context.Context, signed []byte) (*transition.Receipt, error) {
	var encoded transition.EncodedReceipt
	if err := c.Call(ctx, "submit", map[string]any{"transition": signed}, &encoded); err != nil {
		return nil, err
	}
	return encoded.Decode()
}

// WriteReceipt writes a one-line summary of the applied transition and
// a description of its result.
func WriteReceipt(w io.Writer, receipt *transition.Receipt, amounts AmountFormat) {
	fmt.Fprintf(w, "applied %s %s at %s\n", receipt.Kind, receipt.ID, FormatTimestamp(receipt.AppliedTS))
	if line := DescribeResult(receipt.Result, amounts); line != "" {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// DescribeResult renders an instruction result in one line.
func DescribeResult(result any, amounts AmountFormat) string {
	switch result := result.(type) {
	case *token.Mint:
		return fmt.Sprintf("mint %s: %d decimals, supply %s, mint authority %s",
			result.Token, result.Decimals, token.FormatAmount(result.Supply, result.Decimals), result.MintAuthority)
	case *mintproxy.Authority:
		line := fmt.Sprintf("mint proxy for %s: issued %s of cap %s, owner %s",
			result.Token, amounts.Format(result.TotalIssued), amounts.Format(result.HardCap), result.Owner)
		if result.PendingOwner != nil {
			line += fmt.Sprintf(", pending owner %s", *result.PendingOwner)
		}
		return line
	case *mintproxy.Minter:
		return fmt.Sprintf("minter %s: allowance %s", result.Minter, amounts.Format(result.Allowance))
	case *lockup.Admin:
		line := fmt.Sprintf("ledger for %s: owner %s", result.Token, result.Owner)
		if result.PendingOwner != nil {
			line += fmt.Sprintf(", pending owner %s", *result.PendingOwner)
		}
		return line
	case *lockup.Release:
		return fmt.Sprintf("release %d for %s: %s from %s to %s",
			result.Nonce, result.Beneficiary, amounts.Format(result.TotalAmount),
			FormatTimestamp(result.StartTS), FormatTimestamp(result.EndTS))
	case *lockup.Withdrawal:
		return fmt.Sprintf("withdrew %s from release %d (withdrawn %s of %s)",
			amounts.Format(result.Amount), result.Release.Nonce,
			amounts.Format(result.Release.WithdrawnAmount), amounts.Format(result.Release.TotalAmount))
	case *lockup.Revocation:
		if result.AlreadyRevoked {
			return fmt.Sprintf("release %d for %s was already revoked at %s",
				result.Release.Nonce, result.Release.Beneficiary, FormatTimestamp(result.Release.RevokedTS))
		}
		return fmt.Sprintf("revoked release %d for %s (withdrawn %s of %s)",
			result.Release.Nonce, result.Release.Beneficiary,
			amounts.Format(result.Release.WithdrawnAmount), amounts.Format(result.Release.TotalAmount))
	default:
		return ""
	}
}

// FormatTimestamp renders Unix seconds as RFC 3339 in UTC.
func FormatTimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
