package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew_Modes(t *testing.T) {
	tests := []struct {
		mode    string
		verbose bool
		debug   bool
		wantErr bool
	}{
		{mode: "development", verbose: true, debug: true},
		{mode: "", debug: false},
		{mode: "production", debug: false},
		{mode: "PROD", verbose: true, debug: true},
		{mode: "off", verbose: true, debug: false},
		{mode: "syslog", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			logger, err := New(tt.mode, tt.verbose)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if got := logger.Desugar().Core().Enabled(zap.DebugLevel); got != tt.debug {
				t.Errorf("debug enabled = %v, want %v", got, tt.debug)
			}
		})
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	if logger.Desugar().Core().Enabled(zap.ErrorLevel) {
		t.Error("nop logger should not enable any level")
	}
	logger.Infow("discarded", "key", "value")
}
