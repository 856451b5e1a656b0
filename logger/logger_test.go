package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	InitLogger(path)
	Log.Infow("hello from test", "entry", "pokemon-heart-soul")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file missing message, got %q", string(data))
	}
	if !strings.Contains(string(data), "pokemon-heart-soul") {
		t.Errorf("log file missing field, got %q", string(data))
	}
}
