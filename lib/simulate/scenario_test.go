// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simulate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	scenario, err := Parse([]byte(`
hard_cap: "100"
steps:
  - action: wait
    after: 90s
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !scenario.Start.Equal(DefaultStart) {
		t.Errorf("Start = %s, want %s", scenario.Start, DefaultStart)
	}
	if scenario.Token != "token" || scenario.Owner != "owner" {
		t.Errorf("actors = %q, %q", scenario.Token, scenario.Owner)
	}
	if len(scenario.Steps) != 1 || scenario.Steps[0].After != 90*time.Second {
		t.Errorf("steps = %+v", scenario.Steps)
	}
	if issues := scenario.Validate(); len(issues) != 0 {
		t.Errorf("Validate() = %v", issues)
	}
}

func TestParseStart(t *testing.T) {
	scenario, err := Parse([]byte(`
start: 2026-03-01T12:00:00Z
hard_cap: "1"
steps: [{action: wait}]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	if !scenario.Start.Equal(want) {
		t.Errorf("Start = %s, want %s", scenario.Start, want)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte(`
hard_cap: "1"
steps:
  - action: withdraw
    benificiary: alice
`))
	if err == nil || !strings.Contains(err.Error(), "benificiary") {
		t.Errorf("err = %v, want unknown field error", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grant.yaml")
	if err := os.WriteFile(path, []byte("hard_cap: \"5\"\nsteps: [{action: wait}]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	scenario, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if scenario.HardCap != "5" {
		t.Errorf("HardCap = %q", scenario.HardCap)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		scenario Scenario
		want     []string
	}{
		{
			name:     "empty",
			scenario: Scenario{Token: "token", Owner: "owner"},
			want:     []string{"hard_cap is required", "no steps"},
		},
		{
			name:     "same actor",
			scenario: Scenario{Token: "x", Owner: "x", HardCap: "1", Steps: []Step{{Action: ActionWait}}},
			want:     []string{"must be different actors"},
		},
		{
			name: "bad hard cap",
			scenario: Scenario{Token: "token", Owner: "owner", HardCap: "1.5", Decimals: 0,
				Steps: []Step{{Action: ActionWait}}},
			want: []string{"hard_cap:"},
		},
		{
			name: "create release",
			scenario: Scenario{Token: "token", Owner: "owner", HardCap: "1", Steps: []Step{
				{Name: "grant", Action: ActionCreateRelease},
			}},
			want: []string{
				`steps[0] "grant": beneficiary is required`,
				`steps[0] "grant": amount is required`,
				`steps[0] "grant": duration must be positive`,
			},
		},
		{
			name: "unknown action and kind",
			scenario: Scenario{Token: "token", Owner: "owner", HardCap: "1", Steps: []Step{
				{Action: "mint"},
				{Action: ActionRevoke, Beneficiary: "alice", Expect: "oops"},
			}},
			want: []string{`steps[0]: unknown action "mint"`, `steps[1]: expect: unknown fault kind "oops"`},
		},
		{
			name: "expect on check",
			scenario: Scenario{Token: "token", Owner: "owner", HardCap: "1", Steps: []Step{
				{Action: ActionCheck, Beneficiary: "alice", Amount: "1", Expect: "revoked"},
			}},
			want: []string{"expect is not valid on check steps"},
		},
		{
			name: "issue needs a signer",
			scenario: Scenario{Token: "token", Owner: "owner", HardCap: "1", Steps: []Step{
				{Action: ActionIssue, Amount: "x"},
			}},
			want: []string{"signer is required", "amount:"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			issues := strings.Join(test.scenario.Validate(), "\n")
			for _, want := range test.want {
				if !strings.Contains(issues, want) {
					t.Errorf("issues missing %q:\n%s", want, issues)
				}
			}
		})
	}
}

func TestActions(t *testing.T) {
	for _, action := range Actions() {
		step := Step{Action: action}
		for _, issue := range step.validate(0) {
			if strings.Contains(issue, "unknown action") {
				t.Errorf("action %q rejected as unknown", action)
			}
		}
	}
}
