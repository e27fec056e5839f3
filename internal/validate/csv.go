package validate

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ValidateCSV checks a CSV document: the header must contain every required
// column, no data row may repeat an earlier one exactly, and every required
// field must be present and non-empty. Data rows are numbered from 1.
func (v *Validator) ValidateCSV(content []byte, path string) Result {
	var c collector

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		c.add(EmptyFile{})
		return c.result()
	}
	if err != nil {
		c.add(UnexpectedError{ErrorMessage: err.Error(), FilePath: path})
		return c.result()
	}

	// A repeated header name binds to its last occurrence.
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	var missing []string
	for _, col := range v.required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		c.add(MissingColumns{Columns: missing})
	}

	seen := make(map[string]struct{})
	for row := 1; ; row++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.add(UnexpectedError{ErrorMessage: err.Error(), FilePath: path})
			break
		}

		key := fingerprint(record)
		if _, dup := seen[key]; dup {
			c.add(DuplicateRow{RowIndex: row})
		} else {
			seen[key] = struct{}{}
		}

		for _, col := range v.required {
			i, ok := index[col]
			if !ok || i >= len(record) || record[i] == "" {
				c.add(MissingField{Column: col, RowIndex: row})
			}
		}
	}

	return c.result()
}

// fingerprint encodes a record so that two records share a fingerprint only
// when they hold the same values in the same order.
func fingerprint(record []string) string {
	var b strings.Builder
	for _, field := range record {
		b.WriteString(strconv.Itoa(len(field)))
		b.WriteByte(':')
		b.WriteString(field)
	}
	return b.String()
}
