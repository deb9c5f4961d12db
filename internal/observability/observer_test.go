// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardObserver_DebugWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityDebug, &buf)

	finish := obs.StartTiming("extractor", "extract", "in.pdf")
	finish(true, map[string]interface{}{"images": 3})
	require.NoError(t, obs.Sync())

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "extractor", entry["component"])
	assert.Equal(t, "extract", entry["operation"])
	assert.Equal(t, "in.pdf", entry["file_path"])
	assert.Equal(t, true, entry["success"])
	assert.NotEmpty(t, entry["run_id"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestStandardObserver_OffAndMetricsAreSilent(t *testing.T) {
	for _, level := range []ObservabilityLevel{ObservabilityOff, ObservabilityMetrics} {
		var buf bytes.Buffer
		obs := NewStandardObserver(level, &buf)
		obs.LogError("extractor", "write", "x.png", errors.New("disk full"))
		_ = obs.Sync()
		assert.Empty(t, buf.String(), "level %d should not write", level)
	}
}

func TestStandardObserver_LogErrorIncludesMessage(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityDebug, &buf)
	obs.LogError("pdfdoc", "open", "missing.pdf", errors.New("no such file"))
	_ = obs.Sync()

	assert.Contains(t, buf.String(), `"error":"no such file"`)
	assert.Contains(t, buf.String(), `"success":false`)
}

func TestStandardObserver_NilWriter(t *testing.T) {
	obs := NewStandardObserver(ObservabilityDebug, nil)
	assert.NotPanics(t, func() {
		obs.LogOperation(StandardObservabilityData{Component: "c", Operation: "o", Success: true})
	})
}

func TestTracer_NestsSteps(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracer(&buf)
	assert.Same(t, tr, tr.StandardObserver.Tracer)

	done := tr.Step("extractor", "page 1")
	tr.Note("extractor", "%d image references", 2)
	tr.Count("extractor", "images", 2)
	tr.Image(5, "Im0", "image_0.jpg", 2048)
	done(nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "] ▶ extractor: page 1")
	assert.Contains(t, lines[1], "]   · extractor: 2 image references")
	assert.Contains(t, lines[2], "]   # extractor: images=2")
	assert.Contains(t, lines[3], "obj 5 Im0 -> image_0.jpg (2.0 kB)")
	assert.Contains(t, lines[4], "] ✔ extractor: page 1 done in")
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "[+"), line)
	}
}

func TestTracer_FailedStep(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracer(&buf)

	done := tr.Step("pdfdoc", "open")
	done(errors.New("not a PDF"))

	assert.Contains(t, buf.String(), "✘ pdfdoc: open failed after")
	assert.Contains(t, buf.String(), ": not a PDF")
}
