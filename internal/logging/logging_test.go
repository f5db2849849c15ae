package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	logger, err := New("warn", false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if logger.Core().Enabled(zap.InfoLevel) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zap.ErrorLevel) {
		t.Fatalf("error should be enabled at warn level")
	}

	dev, err := New("debug", true)
	if err != nil {
		t.Fatalf("New(debug) error = %v", err)
	}
	if !dev.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("debug should be enabled")
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud", false); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
