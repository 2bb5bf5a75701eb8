package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		" warn ":  WARN,
		"error":   ERROR,
		"none":    NONE,
		"verbose": INFO,
		"":        INFO,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInit_WritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sentiment.log")
	if err := Init(path, "debug"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Debug("trained %d rows", 42)
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "trained 42 rows") {
		t.Errorf("log file missing entry: %s", data)
	}

	if err := Init("", "info"); err != nil {
		t.Fatalf("reset Init failed: %v", err)
	}
}

func TestWarnOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warn.log")
	if err := Init(path, "warn"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		WarnOnce("test-key", "run store unavailable (%d)", i)
	}
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if n := strings.Count(string(data), "run store unavailable"); n != 1 {
		t.Errorf("expected one warning, got %d: %s", n, data)
	}

	if err := Init("", "info"); err != nil {
		t.Fatalf("reset Init failed: %v", err)
	}
}
