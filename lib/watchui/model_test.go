// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package watchui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/lockup"
)

const start = 1_700_000_000

func testStatus(now int64, withdrawn uint64, revoked bool) *lockup.Status {
	var beneficiary identity.Identity
	beneficiary[0] = 2
	release := lockup.Release{
		Beneficiary:     beneficiary,
		TotalAmount:     1000_000_000_000,
		WithdrawnAmount: withdrawn,
		StartTS:         start,
		EndTS:           start + 20,
		Revoked:         revoked,
	}
	if revoked {
		release.RevokedTS = now
	}
	return &lockup.Status{
		Release:   release,
		Address:   release.Address(),
		Version:   1,
		Now:       now,
		Vested:    release.Vested(now),
		Available: release.Available(now),
	}
}

func staticSource(status *lockup.Status, err error) Source {
	return SourceFunc(func(context.Context) (*lockup.Status, error) {
		return status, err
	})
}

func apply(t *testing.T, model Model, message tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := model.Update(message)
	updated, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return updated, cmd
}

func TestInitFetchesStatus(t *testing.T) {
	status := testStatus(start+5, 0, false)
	model := NewModel(staticSource(status, nil), Options{})

	message := model.Init()()
	received, ok := message.(statusMsg)
	if !ok {
		t.Fatalf("Init produced %T, want statusMsg", message)
	}
	if received.status != status || received.err != nil {
		t.Errorf("statusMsg = %+v", received)
	}
}

func TestViewShowsProgress(t *testing.T) {
	model := NewModel(staticSource(nil, nil), Options{Decimals: 9})
	model, cmd := apply(t, model, statusMsg{status: testStatus(start+5, 100_000_000_000, false)})
	if cmd == nil {
		t.Error("live release should schedule a refresh")
	}

	view := model.View()
	for _, want := range []string{
		"250 / 1000 (25.0%)",
		"withdrawn",
		"100",
		"available",
		"150",
		"15s",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if model.Status() == nil {
		t.Error("Status() is nil after an update")
	}
}

func TestFinishedReleaseStopsPolling(t *testing.T) {
	model := NewModel(staticSource(nil, nil), Options{})
	model, cmd := apply(t, model, statusMsg{status: testStatus(start+8, 0, true)})
	if cmd != nil {
		t.Error("revoked release should not schedule a refresh")
	}
	if !strings.Contains(model.View(), "revoked at") {
		t.Errorf("view does not show revocation:\n%s", model.View())
	}

	model = NewModel(staticSource(nil, nil), Options{})
	model, cmd = apply(t, model, statusMsg{status: testStatus(start+30, 1000_000_000_000, false)})
	if cmd != nil {
		t.Error("fully withdrawn release should not schedule a refresh")
	}
	if !strings.Contains(model.View(), "fully withdrawn") {
		t.Errorf("view does not show completion:\n%s", model.View())
	}
}

func TestFetchErrors(t *testing.T) {
	model := NewModel(staticSource(nil, nil), Options{})
	model, _ = apply(t, model, statusMsg{err: errors.New("daemon unreachable")})
	if !strings.Contains(model.View(), "error: daemon unreachable") {
		t.Errorf("view without status:\n%s", model.View())
	}

	model, _ = apply(t, model, statusMsg{status: testStatus(start+5, 0, false)})
	model, cmd := apply(t, model, statusMsg{err: errors.New("timeout")})
	if cmd == nil {
		t.Error("an error should not stop polling")
	}
	view := model.View()
	if !strings.Contains(view, "stale: timeout") {
		t.Errorf("view after failed refresh:\n%s", view)
	}
	if model.Status() == nil || model.Err() == nil {
		t.Error("failed refresh should keep the last status and record the error")
	}
}

func TestKeys(t *testing.T) {
	model := NewModel(staticSource(testStatus(start, 0, false), nil), Options{})

	_, cmd := apply(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}

	_, cmd = apply(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if cmd == nil {
		t.Fatal("r produced no command")
	}
	if _, ok := cmd().(statusMsg); !ok {
		t.Error("r did not fetch")
	}
}

func TestTickFetches(t *testing.T) {
	model := NewModel(staticSource(testStatus(start, 0, false), nil), Options{})
	_, cmd := apply(t, model, tickMsg{})
	if cmd == nil {
		t.Fatal("tick produced no command")
	}
	if _, ok := cmd().(statusMsg); !ok {
		t.Error("tick did not fetch")
	}
}

func TestViewFitsWidth(t *testing.T) {
	model := NewModel(staticSource(nil, nil), Options{Plain: true})
	model, _ = apply(t, model, tea.WindowSizeMsg{Width: 30, Height: 20})
	model, _ = apply(t, model, statusMsg{status: testStatus(start+5, 0, false)})

	for _, line := range strings.Split(model.View(), "\n") {
		if width := ansi.StringWidth(line); width > 30 {
			t.Errorf("line is %d cells wide, limit 30: %q", width, line)
		}
	}
}
