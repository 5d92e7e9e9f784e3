// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is the source of "now" for the ledger.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Real is the wall clock.
func Real() Clock { return systemClock{} }

// Unix reads c at the one-second resolution of stored timestamps.
func Unix(c Clock) int64 { return c.Now().Unix() }
