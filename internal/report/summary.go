package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/Aman-CERP/logvet/internal/validate"
)

// Summary describes one batch of reports.
type Summary struct {
	BatchID      string                `json:"batch_id"`
	StartedAt    time.Time             `json:"started_at"`
	FinishedAt   time.Time             `json:"finished_at"`
	TotalFiles   int                   `json:"total_files"`
	ValidFiles   int                   `json:"valid_files"`
	InvalidFiles int                   `json:"invalid_files"`
	TotalErrors  int                   `json:"total_errors"`
	ErrorsByKind map[validate.Kind]int `json:"errors_by_kind"`
}

// NewBatchID returns a random batch identifier.
func NewBatchID() string {
	return uuid.NewString()
}

// Summarize tallies reports into a Summary.
func Summarize(batchID string, started, finished time.Time, reports []Report) Summary {
	s := Summary{
		BatchID:      batchID,
		StartedAt:    started.UTC(),
		FinishedAt:   finished.UTC(),
		TotalFiles:   len(reports),
		ErrorsByKind: make(map[validate.Kind]int),
	}
	for _, r := range reports {
		if r.Valid() {
			s.ValidFiles++
		} else {
			s.InvalidFiles++
		}
		s.TotalErrors += r.TotalErrors()
		for kind, n := range r.Result.CountByKind() {
			s.ErrorsByKind[kind] += n
		}
	}
	return s
}

// Duration returns how long the batch took.
func (s Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// AllValid reports whether every file in the batch passed.
func (s Summary) AllValid() bool {
	return s.InvalidFiles == 0
}
