// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simulate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
	lockupsim "github.com/bureau-foundation/lockup/lib/simulate"
)

type simulateParams struct {
	cli.JSONOutput
	Validate bool `json:"-" flag:"validate" desc:"check the scenario without running it"`
}

// Command returns "lockup simulate".
func Command(stdout io.Writer) *cli.Command {
	var params simulateParams

	return &cli.Command{
		Name:    "simulate",
		Summary: "Run a release scenario against an in-memory ledger",
		Description: `Run a scenario file against a fresh in-memory ledger. Nothing touches
lockupd or the configured database.

The scenario names its actors; each name maps to a fixed keypair, so
identities are stable across runs. The mint, mint proxy, and ledger
are created for the owner before the first step. Each step advances
the clock by "after" and then acts. A step with "expect" passes only
if it fails with that error kind.

Actions: ` + strings.Join(lockupsim.Actions(), ", ") + `

Exits 1 when any step misses its expectation.`,
		Usage:  "lockup simulate <scenario.yaml> [flags]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{Description: "Run a scenario", Command: "lockup simulate grant.yaml"},
			{Description: "Check a scenario for mistakes", Command: "lockup simulate --validate grant.yaml"},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("expected one scenario file")
			}
			scenario, err := lockupsim.ReadFile(args[0])
			if err != nil {
				return err
			}

			if params.Validate {
				issues := scenario.Validate()
				if len(issues) == 0 {
					fmt.Fprintf(stdout, "%s: %d steps, valid\n", args[0], len(scenario.Steps))
					return nil
				}
				for _, issue := range issues {
					fmt.Fprintf(stdout, "%s: %s\n", args[0], issue)
				}
				return &cli.ExitError{Code: 1}
			}

			report, err := lockupsim.Run(ctx, scenario, logger)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(stdout, report); done {
				if err == nil && report.Failed > 0 {
					return &cli.ExitError{Code: 1}
				}
				return err
			}
			if err := writeReport(stdout, scenario, report); err != nil {
				return err
			}
			if report.Failed > 0 {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func writeReport(w io.Writer, scenario *lockupsim.Scenario, report *lockupsim.Report) error {
	renderer := lipgloss.NewRenderer(w)
	pass := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	fail := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	faint := renderer.NewStyle().Faint(true)

	amounts := cli.AmountFormat{Decimals: scenario.Decimals}

	writer := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	fmt.Fprintf(writer, "#\tAT\tACTION\tSIGNER\tOUTCOME\t\n")
	for _, step := range report.Steps {
		action := step.Action
		if step.Name != "" {
			action += " (" + step.Name + ")"
		}
		signer := step.Signer
		if signer == "" {
			signer = "-"
		}
		status := pass.Render("PASS")
		if !step.Passed {
			status = fail.Render("FAIL")
		}
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%s\t%s\n",
			step.Index, cli.FormatTimestamp(step.At), action, signer, outcome(step, amounts), status)
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, status := range report.Releases {
		release := status.Release
		fmt.Fprintf(w, "release %d for %s: withdrawn %s of %s",
			release.Nonce, nameOf(report, release.Beneficiary.String()),
			amounts.Format(release.WithdrawnAmount), amounts.Format(release.TotalAmount))
		if release.Revoked {
			fmt.Fprint(w, ", revoked")
		}
		fmt.Fprintln(w)
	}
	if authority := report.Authority; authority != nil {
		fmt.Fprintf(w, "mint proxy: issued %s of cap %s\n",
			amounts.Format(authority.TotalIssued), amounts.Format(authority.HardCap))
	}

	summary := fmt.Sprintf("%d steps, %d failed", len(report.Steps), report.Failed)
	if report.Failed > 0 {
		fmt.Fprintln(w, fail.Render(summary))
	} else {
		fmt.Fprintln(w, pass.Render(summary))
	}
	fmt.Fprintln(w, faint.Render(fmt.Sprintf("clock started at %s", cli.FormatTimestamp(scenario.Start.Unix()))))
	return nil
}

func outcome(step lockupsim.StepResult, amounts cli.AmountFormat) string {
	switch {
	case step.Error != "" && step.Expect != "" && step.Passed:
		return "failed as expected: " + string(step.ErrorKind)
	case step.Error != "":
		text := "error: " + step.Error
		if step.Expect != "" {
			text += " (expected " + step.Expect + ")"
		}
		return text
	case step.Expect != "":
		return "succeeded, expected " + step.Expect
	case step.Result != nil:
		if line := cli.DescribeResult(step.Result, amounts); line != "" {
			return line
		}
	}
	return "ok"
}

// nameOf returns the actor name for an identity string, or the string
// itself.
func nameOf(report *lockupsim.Report, id string) string {
	for name, actor := range report.Actors {
		if actor.String() == id {
			return name
		}
	}
	return id
}
