// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package version reports which build of pdfimages is running and which
// releases of the PDF and image libraries it was linked against.
package version

import (
	"fmt"
	"path"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X pdfimages/internal/version.Version=..." at release
// time. Commit and date fall back to the toolchain's VCS stamp.
var (
	Version   = "0.0.0-development"
	GitCommit = ""
	BuildDate = ""
)

// linkedLibraries are the modules whose versions decide how images are
// listed and decoded
var linkedLibraries = []string{
	"github.com/pdfcpu/pdfcpu",
	"github.com/ledongthuc/pdf",
	"github.com/rwcarlsen/goexif",
}

// Build describes the running binary
type Build struct {
	Version  string
	Commit   string
	Date     string
	Go       string
	Platform string
	// Libraries maps a library's short name to its module version
	Libraries map[string]string
}

// Current collects the build description
func Current() Build {
	b := Build{
		Version:   Version,
		Commit:    GitCommit,
		Date:      BuildDate,
		Go:        runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Libraries: map[string]string{},
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && b.Commit == "":
				b.Commit = s.Value
			case s.Key == "vcs.time" && b.Date == "":
				b.Date = s.Value
			}
		}
		for _, dep := range info.Deps {
			for _, lib := range linkedLibraries {
				if dep.Path == lib {
					b.Libraries[path.Base(lib)] = dep.Version
				}
			}
		}
	}

	if len(b.Commit) > 12 {
		b.Commit = b.Commit[:12]
	}
	if b.Commit == "" {
		b.Commit = "unknown"
	}
	if b.Date == "" {
		b.Date = "unknown"
	}

	return b
}

// Info returns a one-line description for `pdfimages version`
func Info() string {
	b := Current()
	line := fmt.Sprintf("pdfimages %s (commit %s, built %s, %s %s)", b.Version, b.Commit, b.Date, b.Go, b.Platform)
	if v, ok := b.Libraries["pdfcpu"]; ok {
		line += ", pdfcpu " + v
	}
	return line
}

// Short returns just the version number
func Short() string {
	return Version
}

// Full returns every field of the build description keyed by name, with one
// "lib/<name>" entry per linked library
func Full() map[string]string {
	b := Current()
	fields := map[string]string{
		"version":  b.Version,
		"commit":   b.Commit,
		"built":    b.Date,
		"go":       b.Go,
		"platform": b.Platform,
	}
	for name, v := range b.Libraries {
		fields["lib/"+name] = v
	}
	return fields
}
