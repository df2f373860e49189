// ABOUTME: Tests for the global logger setup.
// ABOUTME: Checks levels for default and verbose modes.
package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestInitLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		debugOn   bool
		warningOn bool
	}{
		{"default", false, false, true},
		{"verbose", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Init(tt.verbose); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			core := L().Core()
			if got := core.Enabled(zapcore.DebugLevel); got != tt.debugOn {
				t.Errorf("debug enabled = %v, want %v", got, tt.debugOn)
			}
			if got := core.Enabled(zapcore.WarnLevel); got != tt.warningOn {
				t.Errorf("warn enabled = %v, want %v", got, tt.warningOn)
			}
		})
	}
}

func TestLBeforeInit(t *testing.T) {
	if L() == nil {
		t.Fatal("Expected non-nil logger")
	}
}
