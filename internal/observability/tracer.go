// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Tracer writes a human-readable trace of a run, one line per event, next to
// the JSON lines of its StandardObserver. Offsets are relative to NewTracer.
type Tracer struct {
	*StandardObserver
	start time.Time
	depth int
}

// NewTracer creates a tracer and a debug-level observer sharing writer
func NewTracer(writer io.Writer) *Tracer {
	t := &Tracer{
		StandardObserver: NewStandardObserver(ObservabilityDebug, writer),
		start:            time.Now(),
	}
	t.StandardObserver.Tracer = t
	return t
}

// Step opens a nested section; the returned function closes it with the
// step's outcome
func (t *Tracer) Step(component, label string) func(err error) {
	begun := time.Now()
	t.line("▶", component, label)
	t.depth++

	return func(err error) {
		t.depth--
		elapsed := time.Since(begun).Round(time.Microsecond)
		if err != nil {
			t.line("✘", component, fmt.Sprintf("%s failed after %s: %v", label, elapsed, err))
			return
		}
		t.line("✔", component, fmt.Sprintf("%s done in %s", label, elapsed))
	}
}

// Note writes a free-form line inside the current section
func (t *Tracer) Note(component, format string, args ...interface{}) {
	t.line("·", component, fmt.Sprintf(format, args...))
}

// Count writes a named counter
func (t *Tracer) Count(component, name string, n int) {
	t.line("#", component, fmt.Sprintf("%s=%d", name, n))
}

// Image records one image written from a page
func (t *Tracer) Image(objNr int, resource, file string, size int64) {
	t.line("·", "extractor", fmt.Sprintf("obj %d %s -> %s (%s)", objNr, resource, file, humanize.Bytes(uint64(size))))
}

func (t *Tracer) line(mark, component, text string) {
	fmt.Fprintf(t.writer, "[+%6dms] %s%s %s: %s\n",
		time.Since(t.start).Milliseconds(), strings.Repeat("  ", t.depth), mark, component, text)
}
