package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	logger.Info("test message")

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug message should be filtered at info level")
	}

	logger.SetLevel(log.DebugLevel)
	logger.Debug("visible")
	if buf.Len() == 0 {
		t.Error("debug message should pass at debug level")
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	track := newProgress(logger)
	track.done("finished")

	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("finished")) {
		t.Errorf("progress output missing message: %q", out)
	}
	// Elapsed time is appended in parentheses.
	if !bytes.Contains(buf.Bytes(), []byte("(")) {
		t.Errorf("progress output missing elapsed time: %q", out)
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(context.Background(), logger)
	if got := loggerFromContext(ctx); got != logger {
		t.Error("loggerFromContext should return the attached logger")
	}

	if got := loggerFromContext(context.Background()); got == nil {
		t.Error("loggerFromContext should default to a usable logger")
	}
}
