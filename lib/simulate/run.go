// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simulate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bureau-foundation/lockup/lib/clock"
	"github.com/bureau-foundation/lockup/lib/fault"
	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/lockup"
	"github.com/bureau-foundation/lockup/lib/mintproxy"
	"github.com/bureau-foundation/lockup/lib/state"
	"github.com/bureau-foundation/lockup/lib/token"
	"github.com/bureau-foundation/lockup/lib/transition"
)

// transitionValidity is how long each simulated transition stays valid.
// The clock does not move between signing and submission.
const transitionValidity = time.Minute

// StepResult is the outcome of one step.
type StepResult struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Action string `json:"action"`
	Signer string `json:"signer,omitempty"`
	At     int64  `json:"at"`

	Kind   transition.Kind `json:"kind,omitempty"`
	Result any             `json:"result,omitempty"`

	Error     string     `json:"error,omitempty"`
	ErrorKind fault.Kind `json:"error_kind,omitempty"`
	Expect    string     `json:"expect,omitempty"`
	Passed    bool       `json:"passed"`
}

// Report is the outcome of a scenario run.
type Report struct {
	Actors    map[string]identity.Identity `json:"actors"`
	Steps     []StepResult                 `json:"steps"`
	Releases  []lockup.Status              `json:"releases"`
	Authority *mintproxy.Authority         `json:"authority"`
	Failed    int                          `json:"failed"`
}

// runner carries one scenario run.
type runner struct {
	scenario  *Scenario
	store     *state.MemoryStore
	clock     *clock.FakeClock
	processor *transition.Processor
	actors    *actors
	token     identity.Identity
}

// Run validates scenario, bootstraps a ledger in memory, and applies
// every step. Step failures are recorded in the report; the returned
// error is reserved for invalid scenarios and bootstrap failures.
func Run(ctx context.Context, scenario *Scenario, logger *slog.Logger) (*Report, error) {
	if issues := scenario.Validate(); len(issues) > 0 {
		return nil, fmt.Errorf("invalid scenario:\n  %s", strings.Join(issues, "\n  "))
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store := state.NewMemoryStore()
	defer store.Close()

	fakeClock := clock.Fake(scenario.Start)
	processor, err := transition.NewProcessor(transition.Config{
		Store:       store,
		Clock:       fakeClock,
		MaxValidity: transitionValidity,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	r := &runner{
		scenario:  scenario,
		store:     store,
		clock:     fakeClock,
		processor: processor,
		actors:    newActors(),
	}
	if err := r.bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("bootstrapping ledger: %w", err)
	}

	report := &Report{Steps: make([]StepResult, 0, len(scenario.Steps))}
	for index, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result := r.step(ctx, index, step)
		if !result.Passed {
			report.Failed++
		}
		logger.Debug("scenario step",
			"index", index,
			"action", step.Action,
			"passed", result.Passed,
			"error_kind", string(result.ErrorKind),
		)
		report.Steps = append(report.Steps, result)
	}

	if err := r.summarize(ctx, report); err != nil {
		return nil, err
	}
	report.Actors = r.actors.identities()
	return report, nil
}

// bootstrap creates the mint, the mint proxy, and the ledger, all
// owned by the scenario owner.
func (r *runner) bootstrap(ctx context.Context) error {
	var err error
	if r.token, err = r.actors.identity(r.scenario.Token); err != nil {
		return err
	}
	hardCap, err := token.ParseAmount(r.scenario.HardCap, r.scenario.Decimals)
	if err != nil {
		return err
	}

	owner := r.scenario.Owner
	setup := []struct {
		kind transition.Kind
		body any
	}{
		{transition.TokenCreateMint, transition.CreateMintBody{Token: r.token, Decimals: r.scenario.Decimals}},
		{transition.ProxyCreate, transition.ProxyCreateBody{Token: r.token, HardCap: hardCap}},
		{transition.LedgerInitialize, transition.InitializeBody{Token: r.token}},
	}
	for _, instruction := range setup {
		if _, err := r.submit(ctx, owner, instruction.kind, instruction.body); err != nil {
			return fmt.Errorf("%s: %w", instruction.kind, err)
		}
	}
	return nil
}

func (r *runner) submit(ctx context.Context, signerName string, kind transition.Kind, body any) (*transition.Receipt, error) {
	keypair, err := r.actors.keypair(signerName)
	if err != nil {
		return nil, err
	}
	unsigned, err := transition.New(kind, keypair.Identity, body, r.clock.Now(), transitionValidity)
	if err != nil {
		return nil, err
	}
	signed, err := transition.Sign(keypair, unsigned)
	if err != nil {
		return nil, err
	}
	return r.processor.Submit(ctx, signed)
}

func (r *runner) step(ctx context.Context, index int, step Step) StepResult {
	r.clock.Advance(step.After)

	result := StepResult{
		Index:  index,
		Name:   step.Name,
		Action: step.Action,
		At:     clock.Unix(r.clock),
		Expect: step.Expect,
	}

	var err error
	switch step.Action {
	case ActionWait:
	case ActionCheck:
		err = r.check(ctx, step)
	default:
		result.Signer = r.signer(step)
		var kind transition.Kind
		var body any
		kind, body, err = r.instruction(step, result.Signer)
		if err == nil {
			result.Kind = kind
			var receipt *transition.Receipt
			receipt, err = r.submit(ctx, result.Signer, kind, body)
			if err == nil {
				result.Result = receipt.Result
			}
		}
	}

	if err == nil {
		result.Passed = step.Expect == ""
		return result
	}
	result.Error = err.Error()
	var faultErr *fault.Error
	if errors.As(err, &faultErr) {
		result.ErrorKind = faultErr.Kind
	}
	result.Passed = step.Expect != "" && string(result.ErrorKind) == step.Expect
	return result
}

func (r *runner) signer(step Step) string {
	switch {
	case step.Signer != "":
		return step.Signer
	case step.Action == ActionWithdraw:
		return step.Beneficiary
	default:
		return r.scenario.Owner
	}
}

// instruction builds the transition for a step. Names resolve to actor
// identities; amounts scale by the scenario's decimals.
func (r *runner) instruction(step Step, signer string) (transition.Kind, any, error) {
	decimals := r.scenario.Decimals
	var errs []error
	resolve := func(name string) identity.Identity {
		if name == "" {
			return identity.Identity{}
		}
		id, err := r.actors.identity(name)
		errs = append(errs, err)
		return id
	}
	amount := func(text string) uint64 {
		value, err := token.ParseAmount(text, decimals)
		errs = append(errs, err)
		return value
	}

	var kind transition.Kind
	var body any
	switch step.Action {
	case ActionCreateRelease:
		start := r.clock.Now().Add(step.Delay)
		kind, body = transition.LedgerCreateRelease, transition.CreateReleaseBody{
			Beneficiary: resolve(step.Beneficiary),
			Nonce:       step.Nonce,
			Mint:        r.token,
			Amount:      amount(step.Amount),
			StartTS:     start.Unix(),
			EndTS:       start.Add(step.Duration).Unix(),
		}
	case ActionWithdraw:
		withdraw := transition.WithdrawBody{Beneficiary: resolve(step.Beneficiary), Nonce: step.Nonce}
		if step.Amount != "" {
			value := amount(step.Amount)
			withdraw.Amount = &value
		}
		kind, body = transition.LedgerWithdraw, withdraw
	case ActionRevoke:
		kind, body = transition.LedgerRevokeRelease, transition.RevokeBody{
			Beneficiary: resolve(step.Beneficiary),
			Nonce:       step.Nonce,
		}
	case ActionAddMinter:
		kind, body = transition.ProxyAddMinter, transition.MinterBody{
			Token:     r.token,
			Minter:    resolve(step.Minter),
			Allowance: amount(step.Allowance),
		}
	case ActionRemoveMinter:
		kind, body = transition.ProxyRemoveMinter, transition.MinterBody{Token: r.token, Minter: resolve(step.Minter)}
	case ActionIssue:
		destination := step.Destination
		if destination == "" {
			destination = signer
		}
		kind, body = transition.ProxyIssue, transition.IssueBody{
			Token:       r.token,
			Amount:      amount(step.Amount),
			Destination: resolve(destination),
		}
	case ActionTransferOwnership:
		kind, body = transition.LedgerTransferOwnership, transition.LedgerOwnershipBody{NewOwner: resolve(step.NewOwner)}
	case ActionAcceptOwnership:
		kind, body = transition.LedgerAcceptOwnership, struct{}{}
	case ActionCancelTransfer:
		kind, body = transition.LedgerCancelTransfer, struct{}{}
	case ActionProxyTransferOwnership:
		kind, body = transition.ProxyTransferOwnership, transition.ProxyOwnershipBody{
			Token:    r.token,
			NewOwner: resolve(step.NewOwner),
		}
	case ActionProxyAcceptOwnership:
		kind, body = transition.ProxyAcceptOwnership, transition.ProxyOwnershipBody{Token: r.token}
	case ActionProxyCancelTransfer:
		kind, body = transition.ProxyCancelTransfer, transition.ProxyOwnershipBody{Token: r.token}
	default:
		return "", nil, fmt.Errorf("simulate: unknown action %q", step.Action)
	}
	if err := errors.Join(errs...); err != nil {
		return "", nil, err
	}
	return kind, body, nil
}

// check compares the available amount of a release to step.Amount.
func (r *runner) check(ctx context.Context, step Step) error {
	beneficiary, err := r.actors.identity(step.Beneficiary)
	if err != nil {
		return err
	}
	want, err := token.ParseAmount(step.Amount, r.scenario.Decimals)
	if err != nil {
		return err
	}
	var available uint64
	err = r.store.View(ctx, func(tx state.Tx) error {
		available, err = lockup.Available(tx, beneficiary, step.Nonce, clock.Unix(r.clock))
		return err
	})
	if err != nil {
		return err
	}
	if available != want {
		return fmt.Errorf("available is %s, want %s",
			token.FormatAmount(available, r.scenario.Decimals), token.FormatAmount(want, r.scenario.Decimals))
	}
	return nil
}

// summarize records every release and the mint authority as of the
// final clock.
func (r *runner) summarize(ctx context.Context, report *Report) error {
	now := clock.Unix(r.clock)
	return r.store.View(ctx, func(tx state.Tx) error {
		releases, err := lockup.Releases(tx)
		if err != nil {
			return err
		}
		report.Releases = make([]lockup.Status, 0, len(releases))
		for _, release := range releases {
			status, err := lockup.StatusAt(tx, release.Beneficiary, release.Nonce, now)
			if err != nil {
				return err
			}
			report.Releases = append(report.Releases, *status)
		}
		report.Authority, err = mintproxy.GetAuthority(tx, r.token)
		return err
	})
}
