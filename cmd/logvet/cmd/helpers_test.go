package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for a command writing while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// executeCommand runs the root command with args and returns stdout, stderr and the error.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeCommandContext(context.Background(), t, args...)
}

func executeCommandContext(ctx context.Context, t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

// writeConfig writes a config file scanning logDir and returns its path.
func writeConfig(t *testing.T, logDir string, extra ...string) string {
	t.Helper()
	lines := []string{
		"system:",
		"  max_workers: 2",
		"  log_directory: " + logDir,
		`  patterns: ["*.csv", "*.json", "*.log", "*.txt"]`,
		"logging:",
		"  level: error",
		"  format: text",
	}
	lines = append(lines, extra...)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const (
	validCSV  = "timestamp,log_level,message,source\n2024-01-01T10:00:00,INFO,started,api\n"
	validLog  = "2024-01-01 10:00:00 | INFO | started\n2024-01-01 10:00:01 | ERROR | failed\n"
	brokenLog = "2024-01-01 10:00:00 | INFO | started\nno separators here\n"
)
