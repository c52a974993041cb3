// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package version identifies the running hotword-scan build.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const unset = "unknown"

// Release builds stamp these with
// -ldflags "-X hotword-scan/internal/version.Version=v1.2.3 ...".
var (
	Version   = "0.0.0-development"
	GitCommit = unset
	BuildDate = unset

	// Modified is true when the binary was built from a dirty checkout
	Modified = false

	GoVersion = runtime.Version()
	Platform  = runtime.GOOS + "/" + runtime.GOARCH
)

func init() {
	applyBuildInfo(debug.ReadBuildInfo)
}

// applyBuildInfo fills the commit and date from the VCS stamp of a plain
// `go build` when no ldflags were given.
func applyBuildInfo(read func() (*debug.BuildInfo, bool)) {
	info, ok := read()
	if !ok {
		return
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if GitCommit == unset {
				GitCommit = setting.Value
			}
		case "vcs.time":
			if BuildDate == unset {
				BuildDate = setting.Value
			}
		case "vcs.modified":
			Modified = setting.Value == "true"
		}
	}
}

// Info is the one-line description printed by `hotword-scan version`
func Info() string {
	commit := GitCommit
	if Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("hotword-scan %s (commit: %s, built: %s, go: %s, platform: %s)",
		Version, commit, BuildDate, GoVersion, Platform)
}

func Short() string {
	return Version
}

// Full lists every build detail under the keys used by `version --full`
func Full() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit":     GitCommit,
		"modified":   fmt.Sprint(Modified),
		"build_date": BuildDate,
		"go_version": GoVersion,
		"platform":   Platform,
	}
}
