// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simulate

import (
	"context"
	"strings"
	"testing"

	"github.com/bureau-foundation/lockup/lib/fault"
	"github.com/bureau-foundation/lockup/lib/lockup"
)

const billion = 1_000_000_000

const grantScenario = `
decimals: 9
hard_cap: "1000000"
steps:
  - name: grant alice
    action: create_release
    beneficiary: alice
    amount: "1000"
    duration: 20s
  - action: check
    after: 5s
    beneficiary: alice
    amount: "250"
  - name: overdraw
    action: withdraw
    beneficiary: alice
    amount: "300"
    expect: insufficient_vested
  - action: withdraw
    beneficiary: alice
    amount: "10"
  - action: check
    beneficiary: alice
    amount: "240"
  - name: beneficiary cannot revoke
    action: revoke
    signer: alice
    beneficiary: alice
    expect: unauthorized
  - action: revoke
    after: 5s
    beneficiary: alice
  - action: withdraw
    beneficiary: alice
    expect: revoked
`

func mustParse(t *testing.T, text string) *Scenario {
	t.Helper()
	scenario, err := Parse([]byte(text))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return scenario
}

func TestRunGrantScenario(t *testing.T) {
	report, err := Run(context.Background(), mustParse(t, grantScenario), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Failed != 0 {
		for _, step := range report.Steps {
			if !step.Passed {
				t.Errorf("step %d (%s) failed: %s", step.Index, step.Action, step.Error)
			}
		}
	}
	if len(report.Steps) != 8 {
		t.Fatalf("len(Steps) = %d, want 8", len(report.Steps))
	}

	start := DefaultStart.Unix()
	if report.Steps[0].At != start || report.Steps[1].At != start+5 || report.Steps[6].At != start+10 {
		t.Errorf("step times = %d, %d, %d", report.Steps[0].At, report.Steps[1].At, report.Steps[6].At)
	}
	if report.Steps[2].ErrorKind != fault.InsufficientVested {
		t.Errorf("overdraw kind = %q", report.Steps[2].ErrorKind)
	}
	if report.Steps[3].Signer != "alice" {
		t.Errorf("withdraw signer = %q, want alice", report.Steps[3].Signer)
	}
	withdrawal, ok := report.Steps[3].Result.(*lockup.Withdrawal)
	if !ok || withdrawal.Amount != 10*billion {
		t.Errorf("withdraw result = %#v", report.Steps[3].Result)
	}

	if len(report.Releases) != 1 {
		t.Fatalf("len(Releases) = %d, want 1", len(report.Releases))
	}
	status := report.Releases[0]
	if !status.Release.Revoked || status.Release.WithdrawnAmount != 10*billion || status.Available != 0 {
		t.Errorf("final release = %+v", status)
	}
	if report.Authority == nil || report.Authority.TotalIssued != 10*billion {
		t.Errorf("authority = %+v", report.Authority)
	}
	if report.Actors["alice"] != status.Release.Beneficiary {
		t.Errorf("actor alice = %s, release beneficiary %s", report.Actors["alice"], status.Release.Beneficiary)
	}
}

func TestRunRecordsUnexpectedOutcomes(t *testing.T) {
	report, err := Run(context.Background(), mustParse(t, `
hard_cap: "100"
steps:
  - action: create_release
    beneficiary: bob
    amount: "10"
    duration: 10s
  - name: expected failure that succeeds
    action: withdraw
    beneficiary: bob
    expect: insufficient_vested
  - name: wrong available
    action: check
    after: 5s
    beneficiary: bob
    amount: "4"
  - name: unexpected failure
    action: create_release
    beneficiary: bob
    amount: "10"
    duration: 10s
`), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Failed != 3 {
		t.Fatalf("Failed = %d, want 3", report.Failed)
	}
	if !report.Steps[0].Passed || report.Steps[1].Passed {
		t.Errorf("passed flags = %v, %v", report.Steps[0].Passed, report.Steps[1].Passed)
	}
	if !strings.Contains(report.Steps[2].Error, "available is 5, want 4") || report.Steps[2].ErrorKind != "" {
		t.Errorf("check step = %+v", report.Steps[2])
	}
	if report.Steps[3].ErrorKind != fault.DuplicateRelease {
		t.Errorf("duplicate kind = %q", report.Steps[3].ErrorKind)
	}
}

func TestRunMinterAndOwnership(t *testing.T) {
	report, err := Run(context.Background(), mustParse(t, `
decimals: 2
hard_cap: "50"
steps:
  - action: add_minter
    minter: treasury
    allowance: "40"
  - action: issue
    signer: treasury
    amount: "30.25"
    destination: carol
  - action: issue
    signer: treasury
    amount: "10"
    expect: allowance_exceeded
  - action: remove_minter
    minter: treasury
  - action: issue
    signer: treasury
    amount: "1"
    expect: unknown_minter
  - action: transfer_ownership
    new_owner: successor
  - action: accept_ownership
    signer: successor
  - action: accept_ownership
    signer: successor
    expect: no_pending_transfer
  - action: proxy_transfer_ownership
    new_owner: successor
  - action: proxy_cancel_transfer
  - action: proxy_accept_ownership
    signer: successor
    expect: no_pending_transfer
`), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, step := range report.Steps {
		if !step.Passed {
			t.Errorf("step %d (%s) failed: expect %q, got %q %s", step.Index, step.Action, step.Expect, step.ErrorKind, step.Error)
		}
	}
	if report.Authority.TotalIssued != 3025 {
		t.Errorf("TotalIssued = %d, want 3025", report.Authority.TotalIssued)
	}
	if len(report.Releases) != 0 {
		t.Errorf("Releases = %v, want none", report.Releases)
	}
}

func TestRunInvalidScenario(t *testing.T) {
	_, err := Run(context.Background(), &Scenario{Token: "token", Owner: "owner"}, nil)
	if err == nil || !strings.Contains(err.Error(), "invalid scenario") {
		t.Errorf("err = %v, want invalid scenario", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, mustParse(t, grantScenario), nil); err == nil {
		t.Error("Run with a cancelled context should fail")
	}
}

func TestActorKeypairDeterministic(t *testing.T) {
	first, err := ActorKeypair("alice")
	if err != nil {
		t.Fatal(err)
	}
	second, _ := ActorKeypair("alice")
	other, _ := ActorKeypair("bob")
	if first.Identity != second.Identity {
		t.Error("same name produced different identities")
	}
	if first.Identity == other.Identity {
		t.Error("different names produced the same identity")
	}
	if _, err := ActorKeypair(""); err == nil {
		t.Error("empty name should fail")
	}
}
