// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogHandler_ForwardsToZerolog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.Info("service started", "component", "supervisor", "restarts", int64(2))

	out := buf.String()
	if !strings.Contains(out, `"message":"service started"`) {
		t.Errorf("message missing: %s", out)
	}
	if !strings.Contains(out, `"component":"supervisor"`) {
		t.Errorf("string attr missing: %s", out)
	}
	if !strings.Contains(out, `"restarts":2`) {
		t.Errorf("int attr missing: %s", out)
	}
}

func TestSlogHandler_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.Warn("careful")
	logger.Error("broken")

	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("warn level missing: %s", out)
	}
	if !strings.Contains(out, `"level":"error"`) {
		t.Errorf("error level missing: %s", out)
	}
}

func TestSlogHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger := base.With("service", "http").WithGroup("req")
	logger.Info("handled", "path", "/api/v1/feed/run")

	out := buf.String()
	if !strings.Contains(out, `"service":"http"`) {
		t.Errorf("WithAttrs field missing: %s", out)
	}
	if !strings.Contains(out, `"req.path":"/api/v1/feed/run"`) {
		t.Errorf("grouped field missing: %s", out)
	}
}
