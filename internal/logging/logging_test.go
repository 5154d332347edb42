package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_LevelFollowsDebug(t *testing.T) {
	var quiet bytes.Buffer
	logger := New(Options{Output: &quiet})
	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()
	if strings.Contains(quiet.String(), "hidden") {
		t.Fatalf("debug line written at info level: %q", quiet.String())
	}
	if !strings.Contains(quiet.String(), "INFO") || !strings.Contains(quiet.String(), "shown") {
		t.Fatalf("info line missing: %q", quiet.String())
	}

	var loud bytes.Buffer
	debug := New(Options{Output: &loud, Debug: true})
	debug.Debug("visible")
	_ = debug.Sync()
	if !strings.Contains(loud.String(), "DEBUG") || !strings.Contains(loud.String(), "visible") {
		t.Fatalf("debug line missing: %q", loud.String())
	}
}
