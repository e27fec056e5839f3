package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	vetErrors "github.com/Aman-CERP/logvet/internal/errors"
)

// sinkLock serializes appends to one JSONL file across processes. The lock
// lives next to the sink as <path>.lock.
type sinkLock struct {
	path  string
	flock *flock.Flock
}

func newSinkLock(sinkPath string) *sinkLock {
	lockPath := sinkPath + ".lock"
	return &sinkLock{path: lockPath, flock: flock.New(lockPath)}
}

func (l *sinkLock) lock() error {
	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", l.path, err)
	}
	return nil
}

func (l *sinkLock) unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.path, err)
	}
	return nil
}

// AppendJSONL appends one JSON document per report to path, creating the
// file and its directory if needed.
func AppendJSONL(path string, reports []Report) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return vetErrors.New(vetErrors.ErrCodeReportSink, "cannot create report directory", err).
			WithDetail("path", path)
	}

	l := newSinkLock(path)
	if err := l.lock(); err != nil {
		return vetErrors.New(vetErrors.ErrCodeReportSinkLock, "cannot lock report file", err).
			WithDetail("path", path)
	}
	defer func() {
		if uerr := l.unlock(); uerr != nil && err == nil {
			err = vetErrors.New(vetErrors.ErrCodeReportSinkLock, "cannot unlock report file", uerr)
		}
	}()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return vetErrors.New(vetErrors.ErrCodeReportSink, "cannot open report file", err).
			WithDetail("path", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = vetErrors.New(vetErrors.ErrCodeReportSink, "cannot close report file", cerr)
		}
	}()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, r := range reports {
		if err := enc.Encode(r); err != nil {
			return vetErrors.New(vetErrors.ErrCodeReportSink, "cannot encode report", err).
				WithDetail("file_path", r.FilePath)
		}
	}
	if err := w.Flush(); err != nil {
		return vetErrors.New(vetErrors.ErrCodeReportSink, "cannot write report file", err).
			WithDetail("path", path)
	}
	return nil
}

// ReadJSONL reads every report from a JSONL file.
func ReadJSONL(path string) ([]Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, vetErrors.New(vetErrors.ErrCodeReportSink, "cannot open report file", err).
			WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()

	var reports []Report
	dec := json.NewDecoder(f)
	for dec.More() {
		var r Report
		if err := dec.Decode(&r); err != nil {
			return nil, vetErrors.New(vetErrors.ErrCodeReportSink, "cannot decode report file", err).
				WithDetail("path", path)
		}
		reports = append(reports, r)
	}
	return reports, nil
}
