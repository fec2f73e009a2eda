package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pmdrill/internal/platform/logging"
)

func TestNewRespectsLevel(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger := logging.New(buf, "warn")
	logger.Info("hidden")
	logger.Warn("visible", "session_id", "s-1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "session_id=s-1") {
		t.Fatalf("expected warn line with fields, got %s", out)
	}
}

func TestNewFileAppends(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "pmdrill.log")
	logger, closer, err := logging.NewFile(path, "bogus")
	if err != nil {
		t.Fatalf("new file logger: %v", err)
	}
	logger.Info("first")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), "first") {
		t.Fatalf("expected info line with fallback level, got %q", raw)
	}
}

func TestOrNullNeverNil(t *testing.T) {
	t.Parallel()
	if logging.OrNull(nil) == nil {
		t.Fatalf("OrNull(nil) must return a logger")
	}
}
