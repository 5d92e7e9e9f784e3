// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Release builds stamp these with -ldflags:
//
//	go build -ldflags "-X github.com/bureau-foundation/lockup/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"
	Version   = "0.1.0-dev"
)

// Build is the build information lockupd reports in its status reply.
type Build struct {
	Version   string `cbor:"version" json:"version"`
	Commit    string `cbor:"commit" json:"commit"`
	Dirty     bool   `cbor:"dirty" json:"dirty"`
	BuildTime string `cbor:"build_time" json:"build_time"`
	GoVersion string `cbor:"go_version" json:"go_version"`
}

// Current describes the running binary. An unstamped binary built from
// a checkout falls back to the VCS settings the go command records.
func Current() Build {
	build := Build{
		Version:   Version,
		Commit:    GitCommit,
		Dirty:     GitDirty == "true",
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
	if build.Commit == "unknown" {
		fillFromVCS(&build)
	}
	return build
}

func fillFromVCS(build *Build) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			build.Commit = setting.Value[:min(len(setting.Value), 7)]
		case "vcs.modified":
			build.Dirty = setting.Value == "true"
		case "vcs.time":
			if build.BuildTime == "unknown" {
				build.BuildTime = setting.Value
			}
		}
	}
}

// String formats the build as "0.1.0-dev (abc1234-dirty, 2026-...)".
func (b Build) String() string {
	commit := b.Commit
	if b.Dirty {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)", b.Version, commit, b.BuildTime)
}

// Info is the one-line version of the running binary.
func Info() string { return Current().String() }

// Full adds the toolchain and platform to Info.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
