// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package watchui

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Run shows the viewer on output until the user quits or ctx is
// cancelled. Color is disabled when output does not support it.
func Run(ctx context.Context, source Source, output io.Writer, options Options) error {
	if output == nil {
		output = os.Stdout
	}
	profile := termenv.NewOutput(output).EnvColorProfile()
	if profile == termenv.Ascii {
		options.Plain = true
	}
	lipgloss.SetColorProfile(profile)

	program := tea.NewProgram(NewModel(source, options),
		tea.WithContext(ctx),
		tea.WithOutput(output),
		tea.WithAltScreen(),
	)
	_, err := program.Run()
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
