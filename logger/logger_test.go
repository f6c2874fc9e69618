package logger

import "testing"

func TestNewZapLogger(t *testing.T) {
	l, err := NewZapLogger()
	if err != nil {
		t.Fatalf("NewZapLogger failed: %v", err)
	}
	// Must not panic with or without fields.
	l.Info("boot", String("component", "test"), Int("n", 1))
	l.Warn("warn", Float64("x", 1.5))
	l.Error("err", Bool("flag", true))
}

func TestNopLogger(t *testing.T) {
	l := NewNop()
	l.Info("discarded")
	l.Warn("discarded")
	l.Error("discarded")
}
