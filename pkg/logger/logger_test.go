package logger

import "testing"

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "DEBUG",
		"warn":    "WARN",
		"error":   "ERROR",
		"info":    "INFO",
		"garbage": "INFO",
	}
	for in, want := range tests {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestSetupDoesNotPanic(t *testing.T) {
	Setup("debug", "json")
	Setup("info", "text")
	logger := WithComponent("test")
	if logger == nil {
		t.Fatal("WithComponent returned nil")
	}
}
