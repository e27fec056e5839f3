// Package report wraps validation results with file metadata, summarizes
// batches and persists reports as JSON lines.
package report

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/Aman-CERP/logvet/internal/validate"
)

// Report is the per-file bundle of a validation result plus file metadata.
type Report struct {
	FilePath  string
	Result    validate.Result
	FileSize  int64
	Timestamp time.Time
}

// Valid reports whether the file passed validation.
func (r Report) Valid() bool { return r.Result.Valid() }

// TotalErrors returns the number of diagnostics.
func (r Report) TotalErrors() int { return r.Result.Len() }

type reportJSON struct {
	FilePath            string               `json:"file_path"`
	ValidationStatus    bool                 `json:"validation_status"`
	TotalErrors         int                  `json:"total_errors"`
	ErrorDetails        validate.Diagnostics `json:"error_details"`
	FileSize            int64                `json:"file_size"`
	ValidationTimestamp string               `json:"validation_timestamp"`
}

// MarshalJSON encodes the report in its wire shape.
func (r Report) MarshalJSON() ([]byte, error) {
	details := validate.Diagnostics(r.Result.Errors())
	if details == nil {
		details = validate.Diagnostics{}
	}
	return json.Marshal(reportJSON{
		FilePath:            r.FilePath,
		ValidationStatus:    r.Valid(),
		TotalErrors:         len(details),
		ErrorDetails:        details,
		FileSize:            r.FileSize,
		ValidationTimestamp: r.Timestamp.Format(time.RFC3339Nano),
	})
}

// UnmarshalJSON decodes a report. Validity and the error count are derived
// from error_details.
func (r *Report) UnmarshalJSON(data []byte) error {
	var raw reportJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var ts time.Time
	if raw.ValidationTimestamp != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw.ValidationTimestamp)
		if err != nil {
			return fmt.Errorf("validation_timestamp: %w", err)
		}
		ts = parsed
	}
	*r = Report{
		FilePath:  raw.FilePath,
		Result:    validate.NewResult(raw.ErrorDetails...),
		FileSize:  raw.FileSize,
		Timestamp: ts,
	}
	return nil
}

// Aggregator builds reports. It holds no per-file state.
type Aggregator struct {
	now  func() time.Time
	stat func(string) (fs.FileInfo, error)
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock sets the clock used for validation timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAggregator creates an Aggregator using the wall clock.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		now:  time.Now,
		stat: os.Stat,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Generate wraps res with the file's current size and a timestamp. The size
// is read now, not when the file was validated; a file that cannot be
// stat'ed reports size 0.
func (a *Aggregator) Generate(path string, res validate.Result) Report {
	var size int64
	if info, err := a.stat(path); err == nil && info.Mode().IsRegular() {
		size = info.Size()
	}
	return Report{
		FilePath:  path,
		Result:    res,
		FileSize:  size,
		Timestamp: a.now().UTC(),
	}
}
