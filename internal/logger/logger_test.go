package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{"off", LevelOff, false, false},
		{"normal", LevelNormal, false, true},
		{"verbose", LevelVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level, &buf)
			log.Debug("debug line")
			log.Info("info line")

			out := buf.String()
			if got := strings.Contains(out, "[DBG] "); got != tt.wantDebug {
				t.Errorf("debug output = %v, want %v (%q)", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "[INF] "); got != tt.wantInfo {
				t.Errorf("info output = %v, want %v (%q)", got, tt.wantInfo, out)
			}
		})
	}
}

func TestWithSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelOff, &buf)
	stock := root.With("stock")

	stock.Warn("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output while off, got %q", buf.String())
	}

	root.SetLevel(LevelNormal)
	stock.Warn("low on %s", "tomato")
	if !strings.Contains(buf.String(), "stock: low on tomato") {
		t.Fatalf("expected component prefix, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel(false, false) != LevelNormal {
		t.Error("default should be normal")
	}
	if ParseLevel(true, false) != LevelVerbose {
		t.Error("verbose flag should give verbose")
	}
	if ParseLevel(true, true) != LevelOff {
		t.Error("quiet should win over verbose")
	}
}
