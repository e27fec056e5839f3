package taskserver

import (
	"fmt"
	"io/fs"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aman-CERP/logvet/internal/report"
)

// DefaultCacheSize is the number of file reports kept by the server.
const DefaultCacheSize = 1024

// cacheKey identifies one version of a file. A write that changes the size
// or modification time produces a new key.
type cacheKey struct {
	path    string
	size    int64
	modTime int64
}

// reportCache remembers reports for unchanged files.
type reportCache struct {
	entries *lru.Cache[cacheKey, report.Report]
	stat    func(string) (fs.FileInfo, error)
}

func newReportCache(size int) (*reportCache, error) {
	entries, err := lru.New[cacheKey, report.Report](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create report cache: %w", err)
	}
	return &reportCache{entries: entries, stat: os.Stat}, nil
}

// keyFor returns the current key for path. Files that cannot be stat'ed or
// are not regular files are never cached.
func (c *reportCache) keyFor(path string) (cacheKey, bool) {
	info, err := c.stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return cacheKey{}, false
	}
	return cacheKey{path: path, size: info.Size(), modTime: info.ModTime().UnixNano()}, true
}

func (c *reportCache) get(k cacheKey) (report.Report, bool) {
	return c.entries.Get(k)
}

func (c *reportCache) add(k cacheKey, r report.Report) {
	c.entries.Add(k, r)
}

func (c *reportCache) len() int {
	return c.entries.Len()
}
