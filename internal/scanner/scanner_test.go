package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vetErrors "github.com/Aman-CERP/logvet/internal/errors"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestDiscover_DefaultPatternIsSortedAndFlat(t *testing.T) {
	// Given a directory with mixed files and a nested log
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.log"))
	touch(t, filepath.Join(dir, "a.log"))
	touch(t, filepath.Join(dir, "c.csv"))
	touch(t, filepath.Join(dir, "nested", "d.log"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.log"), 0o755))

	// When discovering with default patterns
	paths, err := Discover(dir, nil)

	// Then only top-level .log files are returned, sorted
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.log"),
		filepath.Join(dir, "b.log"),
	}, paths)
}

func TestDiscover_FollowsSymlinksToFiles(t *testing.T) {
	// Given a linked log, a dangling link and a link to a directory
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "real.log")
	touch(t, target)
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "linked.log")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "dangling.log")))
	require.NoError(t, os.Symlink(t.TempDir(), filepath.Join(dir, "folder.log")))

	// When discovering
	paths, err := Discover(dir, nil)

	// Then only the link resolving to a regular file is kept
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "linked.log")}, paths)
}

func TestDiscover_MultiplePatterns(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.log", "b.csv", "c.json", "d.xml"} {
		touch(t, filepath.Join(dir, name))
	}

	paths, err := Discover(dir, []string{"*.csv", "*.json", "*.log"})

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.log"),
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "c.json"),
	}, paths)
}

func TestDiscover_NoMatchesIsEmpty(t *testing.T) {
	paths, err := Discover(t.TempDir(), []string{"*.log"})
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestDiscover_MissingDirectory(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "absent"), nil)

	require.Error(t, err)
	assert.Equal(t, vetErrors.ErrCodeDirNotFound, vetErrors.GetCode(err))
	assert.True(t, vetErrors.IsFatal(err))
}

func TestDiscover_InvalidPattern(t *testing.T) {
	_, err := Discover(t.TempDir(), []string{"[bad"})
	assert.Equal(t, vetErrors.ErrCodeInvalidInput, vetErrors.GetCode(err))
}

func TestMatch(t *testing.T) {
	patterns := []string{"*.log", "app-*.txt"}

	assert.True(t, Match("/var/log/x.log", patterns))
	assert.True(t, Match("app-1.txt", patterns))
	assert.False(t, Match("x.LOG", patterns))
	assert.False(t, Match("other.txt", patterns))
	assert.False(t, Match("x.log", []string{"[bad"}))
}
