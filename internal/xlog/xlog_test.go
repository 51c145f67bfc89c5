package xlog

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestLoggerDefaultsToDiscard(t *testing.T) {
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
}

func TestSetLoggerIsObserved(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	Logger().Info("resolved font path", "name", "cmr10")

	if buf.Len() == 0 {
		t.Fatal("expected log output, got none")
	}
}
