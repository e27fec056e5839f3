package validate

import (
	"encoding/json"
	"slices"
)

// Result is the outcome of validating one file. A Result is valid exactly
// when it carries no diagnostics.
type Result struct {
	errs []Diagnostic
}

// NewResult builds a Result holding a copy of diags.
func NewResult(diags ...Diagnostic) Result {
	if len(diags) == 0 {
		return Result{}
	}
	return Result{errs: slices.Clone(diags)}
}

// Valid reports whether the file had no diagnostics.
func (r Result) Valid() bool { return len(r.errs) == 0 }

// Errors returns the diagnostics in discovery order. The slice is a copy.
func (r Result) Errors() []Diagnostic { return slices.Clone(r.errs) }

// Len returns the number of diagnostics.
func (r Result) Len() int { return len(r.errs) }

// CountByKind tallies diagnostics per kind.
func (r Result) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, d := range r.errs {
		counts[d.Kind()]++
	}
	return counts
}

type resultJSON struct {
	Valid  bool        `json:"is_valid"`
	Errors Diagnostics `json:"errors"`
}

// MarshalJSON encodes the result as {"is_valid":..., "errors":[...]}.
func (r Result) MarshalJSON() ([]byte, error) {
	errs := Diagnostics(r.errs)
	if errs == nil {
		errs = Diagnostics{}
	}
	return json.Marshal(resultJSON{Valid: r.Valid(), Errors: errs})
}

// UnmarshalJSON decodes a result. The is_valid member is recomputed from the
// decoded diagnostics rather than trusted.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = NewResult(raw.Errors...)
	return nil
}

// collector accumulates diagnostics while one validator runs.
type collector struct {
	diags []Diagnostic
}

func (c *collector) add(d Diagnostic) { c.diags = append(c.diags, d) }

func (c *collector) result() Result { return Result{errs: c.diags} }
