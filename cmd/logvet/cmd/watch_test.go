package cmd

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/logvet/internal/watcher"
)

func TestChangedPaths_SkipsDeletes(t *testing.T) {
	// Given: a batch mixing every operation
	events := []watcher.FileEvent{
		{Path: "a.log", Operation: watcher.OpCreate},
		{Path: "b.log", Operation: watcher.OpDelete},
		{Path: "c.log", Operation: watcher.OpModify},
	}

	// Then: only files that still exist are revalidated, in order
	assert.Equal(t, []string{"a.log", "c.log"}, changedPaths(events))
}

func TestChangedPaths_AllDeleted(t *testing.T) {
	events := []watcher.FileEvent{{Path: "a.log", Operation: watcher.OpDelete}}
	assert.Empty(t, changedPaths(events))
}

func TestWatchCmd_RevalidatesNewFiles(t *testing.T) {
	// Given: a watched directory with one file
	dir := t.TempDir()
	writeFile(t, dir, "a.log", validLog)
	cfg := writeConfig(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := NewRootCmd()
	stdout := &syncBuffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&syncBuffer{})
	cmd.SetArgs([]string{"--config", cfg, "watch", "--debounce", "50ms"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	// Then: the initial batch is printed before watching starts
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "Watching "+dir)
	}, 3*time.Second, 20*time.Millisecond)
	assert.Contains(t, stdout.String(), "VALID    "+filepath.Join(dir, "a.log"))

	// When: a broken file appears
	broken := writeFile(t, dir, "b.log", brokenLog)

	// Then: it is validated and reported
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "INVALID  "+broken)
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchCmd_MissingDirectory(t *testing.T) {
	cfg := writeConfig(t, filepath.Join(t.TempDir(), "missing"))

	_, _, err := executeCommand(t, "--config", cfg, "watch")

	assert.Error(t, err)
}
