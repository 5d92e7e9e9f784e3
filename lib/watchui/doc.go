// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package watchui is the terminal view behind `lockup watch`: one
// release's vesting progress, refreshed on an interval.
//
// The model polls a [Source] for a [lockup.Status] and renders the
// vested fraction as a progress bar with the withdrawn, available, and
// remaining amounts beneath it. The daemon evaluates the release at its
// own clock, so the view shows exactly what a withdraw would see.
//
// [ClientSource] reads from a running lockupd; tests and the simulator
// supply a [SourceFunc].
package watchui
