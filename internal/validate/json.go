package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ValidateJSON checks a JSON document holding one object or an array of
// entries. Every entry must carry each required field with a non-empty
// value. Entries are numbered from 1; a non-object entry has no fields.
func (v *Validator) ValidateJSON(content []byte) Result {
	var c collector

	doc, err := decodeJSON(content)
	if err != nil {
		c.add(JSONDecodeError{Message: err.Error()})
		return c.result()
	}

	entries, ok := doc.([]any)
	if !ok {
		entries = []any{doc}
	}

	for i, entry := range entries {
		fields, _ := entry.(map[string]any)
		for _, col := range v.required {
			value, present := fields[col]
			if !present || isEmptyValue(value) {
				c.add(MissingField{Column: col, EntryIndex: i + 1})
			}
		}
	}

	return c.result()
}

// decodeJSON decodes exactly one top-level value. Numbers stay json.Number
// so values outside float64 range are still accepted.
func decodeJSON(content []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.New(describeJSONError(content, err))
	}

	end := dec.InputOffset()
	var extra any
	if err := dec.Decode(&extra); errors.Is(err, io.EOF) {
		return doc, nil
	}
	rest := content[end:]
	offset := end + int64(len(rest)-len(bytes.TrimLeft(rest, " \t\r\n")))
	return nil, fmt.Errorf("extra data after top-level value: %s", position(content, offset))
}

// isEmptyValue reports whether a decoded JSON value counts as absent:
// null, false, zero, the empty string, or an empty array or object.
func isEmptyValue(value any) bool {
	switch val := value.(type) {
	case nil:
		return true
	case bool:
		return !val
	case json.Number:
		f, err := strconv.ParseFloat(val.String(), 64)
		return err == nil && f == 0
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

// describeJSONError adds a line and column to syntax errors.
func describeJSONError(content []byte, err error) string {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return "unexpected end of JSON input: " + position(content, int64(len(content)))
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return err.Error()
	}
	return syntaxErr.Error() + ": " + position(content, syntaxErr.Offset)
}

func position(content []byte, offset int64) string {
	n := min(max(int(offset), 0), len(content))
	before := content[:n]
	line := bytes.Count(before, []byte{'\n'}) + 1
	col := n - bytes.LastIndexByte(before, '\n')
	return fmt.Sprintf("line %d column %d (char %d)", line, col, n)
}
