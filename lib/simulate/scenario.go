// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simulate

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/lockup/lib/fault"
	"github.com/bureau-foundation/lockup/lib/token"
)

// DefaultStart is the clock's starting point when a scenario leaves
// start unset.
var DefaultStart = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// Step actions.
const (
	ActionCreateRelease          = "create_release"
	ActionWithdraw               = "withdraw"
	ActionRevoke                 = "revoke"
	ActionAddMinter              = "add_minter"
	ActionRemoveMinter           = "remove_minter"
	ActionIssue                  = "issue"
	ActionTransferOwnership      = "transfer_ownership"
	ActionAcceptOwnership        = "accept_ownership"
	ActionCancelTransfer         = "cancel_transfer"
	ActionProxyTransferOwnership = "proxy_transfer_ownership"
	ActionProxyAcceptOwnership   = "proxy_accept_ownership"
	ActionProxyCancelTransfer    = "proxy_cancel_transfer"

	// ActionWait only advances the clock.
	ActionWait = "wait"

	// ActionCheck compares a release's available amount to Amount.
	ActionCheck = "check"
)

var actions = []string{
	ActionCreateRelease, ActionWithdraw, ActionRevoke,
	ActionAddMinter, ActionRemoveMinter, ActionIssue,
	ActionTransferOwnership, ActionAcceptOwnership, ActionCancelTransfer,
	ActionProxyTransferOwnership, ActionProxyAcceptOwnership, ActionProxyCancelTransfer,
	ActionWait, ActionCheck,
}

// Actions returns every step action name.
func Actions() []string {
	return slices.Clone(actions)
}

// Scenario is a scripted sequence of ledger operations.
type Scenario struct {
	// Start is the fake clock's initial time. Default: [DefaultStart].
	Start time.Time `yaml:"start"`

	// Token and Owner are actor names. Defaults: "token" and "owner".
	Token string `yaml:"token"`
	Owner string `yaml:"owner"`

	Decimals uint8  `yaml:"decimals"`
	HardCap  string `yaml:"hard_cap"`

	Steps []Step `yaml:"steps"`
}

// Step is one operation. Amounts are decimal strings in whole tokens,
// scaled by the scenario's decimals.
type Step struct {
	Name string `yaml:"name"`

	// After advances the clock before the step runs.
	After time.Duration `yaml:"after"`

	Action string `yaml:"action"`

	// Signer defaults to the beneficiary for withdraw and to the owner
	// for everything else.
	Signer string `yaml:"signer"`

	Beneficiary string `yaml:"beneficiary"`
	Nonce       uint64 `yaml:"nonce"`
	Amount      string `yaml:"amount"`

	// Delay offsets a new release's start from the step's time;
	// Duration is its length.
	Delay    time.Duration `yaml:"delay"`
	Duration time.Duration `yaml:"duration"`

	Minter      string `yaml:"minter"`
	Allowance   string `yaml:"allowance"`
	Destination string `yaml:"destination"`
	NewOwner    string `yaml:"new_owner"`

	// Expect is the fault kind the step should fail with. Empty means
	// the step should succeed.
	Expect string `yaml:"expect"`
}

// Parse decodes a YAML scenario. Unknown fields are errors so a typo
// does not silently drop part of a schedule.
func Parse(data []byte) (*Scenario, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var scenario Scenario
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	scenario.applyDefaults()
	return &scenario, nil
}

// ReadFile reads and parses a scenario file.
func ReadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	scenario, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenario, nil
}

func (s *Scenario) applyDefaults() {
	if s.Start.IsZero() {
		s.Start = DefaultStart
	}
	if s.Token == "" {
		s.Token = "token"
	}
	if s.Owner == "" {
		s.Owner = "owner"
	}
}

// Validate checks a scenario for structural issues. An empty list
// means the scenario can run.
func (s *Scenario) Validate() []string {
	var issues []string

	if s.HardCap == "" {
		issues = append(issues, "hard_cap is required")
	} else if hardCap, err := token.ParseAmount(s.HardCap, s.Decimals); err != nil {
		issues = append(issues, fmt.Sprintf("hard_cap: %v", err))
	} else if hardCap == 0 {
		issues = append(issues, "hard_cap must be positive")
	}
	if s.Token == s.Owner {
		issues = append(issues, "token and owner must be different actors")
	}
	if len(s.Steps) == 0 {
		issues = append(issues, "scenario has no steps (at least one step is required)")
	}

	for index, step := range s.Steps {
		prefix := fmt.Sprintf("steps[%d]", index)
		if step.Name != "" {
			prefix = fmt.Sprintf("steps[%d] %q", index, step.Name)
		}
		for _, issue := range step.validate(s.Decimals) {
			issues = append(issues, prefix+": "+issue)
		}
	}

	return issues
}

func (step *Step) validate(decimals uint8) []string {
	var issues []string
	require := func(field, value string) {
		if value == "" {
			issues = append(issues, field+" is required")
		}
	}
	amount := func(field, value string) {
		if value == "" {
			return
		}
		if _, err := token.ParseAmount(value, decimals); err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", field, err))
		}
	}

	if step.After < 0 {
		issues = append(issues, fmt.Sprintf("after must not be negative, got %s", step.After))
	}
	if step.Expect != "" && !fault.Kind(step.Expect).Known() {
		issues = append(issues, fmt.Sprintf("expect: unknown fault kind %q", step.Expect))
	}

	switch step.Action {
	case "":
		issues = append(issues, "action is required")
	case ActionCreateRelease:
		require("beneficiary", step.Beneficiary)
		require("amount", step.Amount)
		if step.Duration <= 0 {
			issues = append(issues, "duration must be positive")
		}
		if step.Delay < 0 {
			issues = append(issues, "delay must not be negative")
		}
	case ActionRevoke, ActionCheck:
		require("beneficiary", step.Beneficiary)
		if step.Action == ActionCheck {
			require("amount", step.Amount)
		}
	case ActionWithdraw:
		if step.Beneficiary == "" && step.Signer == "" {
			issues = append(issues, "withdraw needs a beneficiary or a signer")
		}
	case ActionAddMinter:
		require("minter", step.Minter)
		require("allowance", step.Allowance)
		amount("allowance", step.Allowance)
	case ActionRemoveMinter:
		require("minter", step.Minter)
	case ActionIssue:
		require("signer", step.Signer)
		require("amount", step.Amount)
	case ActionTransferOwnership, ActionProxyTransferOwnership:
		require("new_owner", step.NewOwner)
	case ActionAcceptOwnership, ActionCancelTransfer,
		ActionProxyAcceptOwnership, ActionProxyCancelTransfer, ActionWait:
	default:
		issues = append(issues, fmt.Sprintf("unknown action %q", step.Action))
	}
	amount("amount", step.Amount)

	if step.Action == ActionWait || step.Action == ActionCheck {
		if step.Expect != "" {
			issues = append(issues, fmt.Sprintf("expect is not valid on %s steps", step.Action))
		}
	}

	return issues
}
