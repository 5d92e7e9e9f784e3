// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package watchui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/lockup/lib/lockup"
	"github.com/bureau-foundation/lockup/lib/token"
)

const (
	defaultInterval = 2 * time.Second
	defaultWidth    = 80
	minBarWidth     = 10

	// Each fetch gets its own deadline so a stalled daemon cannot
	// freeze the view.
	fetchTimeout = 5 * time.Second
)

// Options configures a Model.
type Options struct {
	// Interval between refreshes. Default: 2s.
	Interval time.Duration

	// Decimals formats amounts; zero shows base units.
	Decimals uint8

	// Plain disables color, for terminals without color support.
	Plain bool

	Theme  *Theme
	KeyMap *KeyMap
}

type statusMsg struct {
	status *lockup.Status
	err    error
}

type tickMsg struct{}

// Model is the bubbletea model for one release.
type Model struct {
	source   Source
	interval time.Duration
	decimals uint8
	theme    Theme
	keys     KeyMap

	bar  progress.Model
	help help.Model

	status *lockup.Status
	err    error
	width  int
}

// NewModel returns a model polling source.
func NewModel(source Source, options Options) Model {
	theme := DefaultTheme
	if options.Theme != nil {
		theme = *options.Theme
	}
	keys := DefaultKeyMap
	if options.KeyMap != nil {
		keys = *options.KeyMap
	}
	interval := options.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	var bar progress.Model
	if options.Plain {
		bar = progress.New(progress.WithoutPercentage(), progress.WithFillCharacters('#', '.'), progress.WithColorProfile(termenv.Ascii))
	} else {
		bar = progress.New(progress.WithoutPercentage(), progress.WithGradient(theme.BarStart, theme.BarEnd))
	}

	model := Model{
		source:   source,
		interval: interval,
		decimals: options.Decimals,
		theme:    theme,
		keys:     keys,
		bar:      bar,
		help:     help.New(),
	}
	model.resize(defaultWidth)
	return model
}

// Init fetches the first status.
func (model Model) Init() tea.Cmd {
	return model.fetch()
}

func (model Model) fetch() tea.Cmd {
	source := model.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		status, err := source.Status(ctx)
		return statusMsg{status: status, err: err}
	}
}

func (model Model) scheduleTick() tea.Cmd {
	return tea.Tick(model.interval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Update handles messages.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit
		case key.Matches(message, model.keys.Refresh):
			return model, model.fetch()
		}

	case tea.WindowSizeMsg:
		model.resize(message.Width)

	case statusMsg:
		model.err = message.err
		if message.err == nil {
			model.status = message.status
		}
		// A finished release never changes again.
		if model.status != nil && model.status.Finished() {
			return model, nil
		}
		return model, model.scheduleTick()

	case tickMsg:
		return model, model.fetch()
	}
	return model, nil
}

func (model *Model) resize(width int) {
	model.width = width
	model.bar.Width = max(width-4, minBarWidth)
	model.help.Width = width
}

// View renders the release.
func (model Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(model.theme.Title)
	label := lipgloss.NewStyle().Foreground(model.theme.Label).Width(12)
	value := lipgloss.NewStyle().Foreground(model.theme.Value)
	faint := lipgloss.NewStyle().Foreground(model.theme.Faint)

	var lines []string
	if model.status == nil {
		if model.err != nil {
			lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.Error).Render("error: "+model.err.Error()))
		} else {
			lines = append(lines, faint.Render("loading release..."))
		}
		lines = append(lines, "", model.help.View(model.keys))
		return model.truncate(lines)
	}

	status := model.status
	release := status.Release
	lines = append(lines,
		title.Render(fmt.Sprintf("release %d  %s", release.Nonce, release.Beneficiary)),
		"",
		"  "+model.bar.ViewAs(status.Fraction()),
		"",
	)

	row := func(name, text string) {
		lines = append(lines, "  "+label.Render(name)+value.Render(text))
	}
	row("vested", fmt.Sprintf("%s / %s (%.1f%%)",
		model.amount(status.Vested), model.amount(release.TotalAmount), status.Fraction()*100))
	row("withdrawn", model.amount(release.WithdrawnAmount))
	lines = append(lines, "  "+label.Render("available")+
		lipgloss.NewStyle().Foreground(model.theme.Available).Render(model.amount(status.Available)))

	switch {
	case release.Revoked:
		lines = append(lines, "  "+label.Render("state")+
			lipgloss.NewStyle().Foreground(model.theme.Revoked).Render(
				fmt.Sprintf("revoked at %s", formatTimestamp(release.RevokedTS))))
	case release.FullyWithdrawn():
		lines = append(lines, "  "+label.Render("state")+
			lipgloss.NewStyle().Foreground(model.theme.Complete).Render("fully withdrawn"))
	default:
		remaining := release.Schedule().Remaining(status.Now)
		if remaining > 0 {
			row("remaining", (time.Duration(remaining) * time.Second).String())
		} else {
			row("remaining", "fully vested")
		}
	}
	row("schedule", fmt.Sprintf("%s to %s", formatTimestamp(release.StartTS), formatTimestamp(release.EndTS)))

	footer := faint.Render(fmt.Sprintf("as of %s", formatTimestamp(status.Now)))
	if model.err != nil {
		footer = lipgloss.NewStyle().Foreground(model.theme.Error).Render("stale: " + model.err.Error())
	}
	lines = append(lines, "", "  "+footer, "", model.help.View(model.keys))

	return model.truncate(lines)
}

func (model Model) amount(amount uint64) string {
	return token.FormatAmount(amount, model.decimals)
}

func (model Model) truncate(lines []string) string {
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, model.width, "…")
	}
	return strings.Join(lines, "\n") + "\n"
}

func formatTimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

// Status returns the last status received, or nil.
func (model Model) Status() *lockup.Status {
	return model.status
}

// Err returns the error from the last fetch, or nil.
func (model Model) Err() error {
	return model.err
}
