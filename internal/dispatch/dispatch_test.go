package dispatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vetErrors "github.com/Aman-CERP/logvet/internal/errors"
	"github.com/Aman-CERP/logvet/internal/validate"
)

// fakeValidator returns a canned result per path and records concurrency.
type fakeValidator struct {
	delay    func(path string) time.Duration
	panicOn  string
	inFlight atomic.Int32
	maxSeen  atomic.Int32

	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeValidator) ValidateFile(path string) validate.Result {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[path]++
	f.mu.Unlock()

	if f.delay != nil {
		time.Sleep(f.delay(path))
	}
	if path == f.panicOn {
		panic("validator exploded")
	}
	return validate.NewResult(validate.InvalidTimestamp{LineNumber: 1, Timestamp: path})
}

func paths(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("file-%02d.log", i)
	}
	return out
}

func TestNew_WorkerDefaults(t *testing.T) {
	c, err := New(&fakeValidator{})
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), c.Workers())

	c, err = New(&fakeValidator{}, WithWorkers(3))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Workers())
}

func TestNew_RejectsNegativeWorkers(t *testing.T) {
	_, err := New(&fakeValidator{}, WithWorkers(-1))

	require.Error(t, err)
	assert.Equal(t, vetErrors.ErrCodeInvalidWorkers, vetErrors.GetCode(err))
}

func TestNew_RejectsNilValidator(t *testing.T) {
	_, err := New(nil)
	assert.Equal(t, vetErrors.ErrCodePoolFailed, vetErrors.GetCode(err))
}

func TestRun_PreservesInputOrder(t *testing.T) {
	// Given early files take longest so they finish last
	in := paths(12)
	fv := &fakeValidator{delay: func(p string) time.Duration {
		for i, q := range in {
			if q == p {
				return time.Duration(len(in)-i) * 2 * time.Millisecond
			}
		}
		return 0
	}}
	c, err := New(fv, WithWorkers(4))
	require.NoError(t, err)

	// When running the batch
	batch, err := c.Run(context.Background(), in)
	require.NoError(t, err)

	// Then report i describes input i
	require.Len(t, batch.Reports, len(in))
	for i, r := range batch.Reports {
		assert.Equal(t, in[i], r.FilePath)
		ts := r.Result.Errors()[0].(validate.InvalidTimestamp)
		assert.Equal(t, in[i], ts.Timestamp)
	}
}

func TestRun_EachFileProcessedOnce(t *testing.T) {
	in := paths(30)
	fv := &fakeValidator{}
	c, err := New(fv, WithWorkers(5))
	require.NoError(t, err)

	_, err = c.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Len(t, fv.calls, 30)
	for _, p := range in {
		assert.Equal(t, 1, fv.calls[p], p)
	}
}

func TestRun_RespectsWorkerBound(t *testing.T) {
	fv := &fakeValidator{delay: func(string) time.Duration { return 5 * time.Millisecond }}
	c, err := New(fv, WithWorkers(3))
	require.NoError(t, err)

	_, err = c.Run(context.Background(), paths(20))
	require.NoError(t, err)

	assert.LessOrEqual(t, fv.maxSeen.Load(), int32(3))
	assert.Positive(t, fv.maxSeen.Load())
}

func TestRun_OneBadFileDoesNotAffectOthers(t *testing.T) {
	// Given two valid files around one that does not exist
	dir := t.TempDir()
	good1 := filepath.Join(dir, "a.log")
	missing := filepath.Join(dir, "missing.log")
	good2 := filepath.Join(dir, "c.log")
	require.NoError(t, os.WriteFile(good1, []byte("2024-01-15T10:00:00Z | INFO | ok\n"), 0o644))
	require.NoError(t, os.WriteFile(good2, []byte("2024-01-15T10:00:01Z | ERROR | failed\n"), 0o644))

	c, err := New(validate.New(), WithWorkers(2))
	require.NoError(t, err)

	// When running the batch
	batch, err := c.Run(context.Background(), []string{good1, missing, good2})
	require.NoError(t, err)

	// Then only the missing file carries a read error
	require.Len(t, batch.Reports, 3)
	assert.True(t, batch.Reports[0].Valid())
	assert.True(t, batch.Reports[2].Valid())
	assert.Equal(t, []validate.Diagnostic{
		validate.FileReadError{ErrorMessage: "no such file or directory", FilePath: missing},
	}, batch.Reports[1].Result.Errors())
	assert.Equal(t, 2, batch.Summary.ValidFiles)
	assert.Equal(t, 1, batch.Summary.InvalidFiles)
}

func TestRun_PanicIsolatedToOneFile(t *testing.T) {
	in := paths(5)
	fv := &fakeValidator{panicOn: in[2]}
	c, err := New(fv, WithWorkers(2))
	require.NoError(t, err)

	batch, err := c.Run(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, batch.Reports, 5)
	assert.Equal(t, []validate.Diagnostic{
		validate.UnexpectedError{ErrorMessage: "validator exploded", FilePath: in[2]},
	}, batch.Reports[2].Result.Errors())
	for _, i := range []int{0, 1, 3, 4} {
		assert.Equal(t, validate.KindInvalidTimestamp, batch.Reports[i].Result.Errors()[0].Kind())
	}
}

func TestRun_EmptyInput(t *testing.T) {
	c, err := New(&fakeValidator{})
	require.NoError(t, err)

	batch, err := c.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, batch.Reports)
	assert.Equal(t, 0, batch.Summary.TotalFiles)
}

func TestRun_CancelledContextFailsBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, err := New(&fakeValidator{}, WithWorkers(1))
	require.NoError(t, err)

	batch, err := c.Run(ctx, paths(3))

	assert.Nil(t, batch)
	require.Error(t, err)
	assert.Equal(t, vetErrors.ErrCodePoolFailed, vetErrors.GetCode(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_SummaryUsesClockAndBatchID(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	var ticks atomic.Int32
	clock := func() time.Time {
		return start.Add(time.Duration(ticks.Add(1)-1) * time.Second)
	}

	c, err := New(&fakeValidator{},
		WithWorkers(1),
		WithClock(clock),
		WithBatchIDs(func() string { return "batch-42" }))
	require.NoError(t, err)

	batch, err := c.Run(context.Background(), paths(2))
	require.NoError(t, err)

	assert.Equal(t, "batch-42", batch.Summary.BatchID)
	assert.Equal(t, start, batch.Summary.StartedAt)
	assert.Equal(t, time.Second, batch.Summary.Duration())
	assert.Equal(t, 2, batch.Summary.InvalidFiles)
}

func TestRun_RepeatedRunsAreIndependent(t *testing.T) {
	c, err := New(&fakeValidator{}, WithWorkers(2))
	require.NoError(t, err)

	first, err := c.Run(context.Background(), paths(4))
	require.NoError(t, err)
	second, err := c.Run(context.Background(), paths(2))
	require.NoError(t, err)

	assert.Len(t, first.Reports, 4)
	assert.Len(t, second.Reports, 2)
	assert.NotEqual(t, first.Summary.BatchID, second.Summary.BatchID)
}
