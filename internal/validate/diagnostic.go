package validate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the stable wire-level tag of a diagnostic.
type Kind string

const (
	KindMissingColumns    Kind = "missing_columns"
	KindDuplicateRow      Kind = "duplicate_row"
	KindMissingField      Kind = "missing_field"
	KindJSONDecodeError   Kind = "json_decode_error"
	KindEmptyFile         Kind = "empty_file"
	KindInvalidLineFormat Kind = "invalid_line_format"
	KindInvalidTimestamp  Kind = "invalid_timestamp"
	KindInvalidLogLevel   Kind = "invalid_log_level"
	KindEmptyMessage      Kind = "empty_message"
	KindFileReadError     Kind = "file_read_error"
	KindUnexpected        Kind = "unexpected_validation_error"
	KindUnsupportedType   Kind = "unsupported_file_type"
)

// Kinds lists every diagnostic kind in taxonomy order.
var Kinds = []Kind{
	KindMissingColumns,
	KindDuplicateRow,
	KindMissingField,
	KindJSONDecodeError,
	KindEmptyFile,
	KindInvalidLineFormat,
	KindInvalidTimestamp,
	KindInvalidLogLevel,
	KindEmptyMessage,
	KindFileReadError,
	KindUnexpected,
	KindUnsupportedType,
}

// Diagnostic is one immutable fact about one file. The concrete types in
// this package are the only implementations.
type Diagnostic interface {
	// Kind returns the diagnostic's tag.
	Kind() Kind
	// String returns a one-line human-readable description.
	String() string

	diagnostic()
}

// MissingColumns reports required columns absent from a CSV header.
type MissingColumns struct {
	Columns []string `json:"missing_columns"`
}

// DuplicateRow reports a CSV row whose values exactly repeat an earlier row.
type DuplicateRow struct {
	RowIndex int `json:"row_index"`
}

// MissingField reports a required field that is absent or empty.
// RowIndex is set for CSV rows, EntryIndex for JSON entries.
type MissingField struct {
	Column     string `json:"column"`
	RowIndex   int    `json:"row_index,omitempty"`
	EntryIndex int    `json:"entry_index,omitempty"`
}

// JSONDecodeError reports a document that is not valid JSON.
type JSONDecodeError struct {
	Message string `json:"message"`
}

// EmptyFile reports a text file with no lines at all.
type EmptyFile struct{}

// InvalidLineFormat reports a text line with too few delimited parts.
type InvalidLineFormat struct {
	LineNumber    int    `json:"line_number"`
	LineContent   string `json:"line_content"`
	ExpectedParts int    `json:"expected_parts"`
	ActualParts   int    `json:"actual_parts"`
}

// InvalidTimestamp reports a text line whose first part is not a timestamp.
type InvalidTimestamp struct {
	LineNumber int    `json:"line_number"`
	Timestamp  string `json:"timestamp"`
}

// InvalidLogLevel reports a text line whose level is outside ValidLevels.
type InvalidLogLevel struct {
	LineNumber  int      `json:"line_number"`
	LogLevel    string   `json:"log_level"`
	ValidLevels []string `json:"valid_levels"`
}

// EmptyMessage reports a text line whose message part is blank.
type EmptyMessage struct {
	LineNumber int `json:"line_number"`
}

// FileReadError reports a file that could not be read or decoded.
type FileReadError struct {
	ErrorMessage string `json:"error_message"`
	FilePath     string `json:"file_path"`
}

// UnexpectedError reports any other failure while validating a file.
type UnexpectedError struct {
	ErrorMessage string `json:"error_message"`
	FilePath     string `json:"file_path"`
}

// UnsupportedFileType reports an extension no validator handles.
type UnsupportedFileType struct {
	Extension string `json:"extension"`
	FilePath  string `json:"file_path"`
}

func (MissingColumns) Kind() Kind { return KindMissingColumns }
func (DuplicateRow) Kind() Kind { return KindDuplicateRow }
func (MissingField) Kind() Kind { return KindMissingField }
func (JSONDecodeError) Kind() Kind { return KindJSONDecodeError }
func (EmptyFile) Kind() Kind { return KindEmptyFile }
func (InvalidLineFormat) Kind() Kind { return KindInvalidLineFormat }
func (InvalidTimestamp) Kind() Kind { return KindInvalidTimestamp }
func (InvalidLogLevel) Kind() Kind { return KindInvalidLogLevel }
func (EmptyMessage) Kind() Kind { return KindEmptyMessage }
func (FileReadError) Kind() Kind { return KindFileReadError }
func (UnexpectedError) Kind() Kind { return KindUnexpected }
func (UnsupportedFileType) Kind() Kind { return KindUnsupportedType }

func (MissingColumns) diagnostic() {}
func (DuplicateRow) diagnostic() {}
func (MissingField) diagnostic() {}
func (JSONDecodeError) diagnostic() {}
func (EmptyFile) diagnostic() {}
func (InvalidLineFormat) diagnostic() {}
func (InvalidTimestamp) diagnostic() {}
func (InvalidLogLevel) diagnostic() {}
func (EmptyMessage) diagnostic() {}
func (FileReadError) diagnostic() {}
func (UnexpectedError) diagnostic() {}
func (UnsupportedFileType) diagnostic() {}

func (d MissingColumns) String() string {
	return fmt.Sprintf("missing columns: %s", strings.Join(d.Columns, ", "))
}

func (d DuplicateRow) String() string {
	return fmt.Sprintf("row %d: duplicate of an earlier row", d.RowIndex)
}

func (d MissingField) String() string {
	if d.EntryIndex > 0 {
		return fmt.Sprintf("entry %d: missing field %q", d.EntryIndex, d.Column)
	}
	return fmt.Sprintf("row %d: missing field %q", d.RowIndex, d.Column)
}

func (d JSONDecodeError) String() string { return "invalid JSON: " + d.Message }

func (EmptyFile) String() string { return "file is empty" }

func (d InvalidLineFormat) String() string {
	return fmt.Sprintf("line %d: expected %d parts, got %d", d.LineNumber, d.ExpectedParts, d.ActualParts)
}

func (d InvalidTimestamp) String() string {
	return fmt.Sprintf("line %d: invalid timestamp %q", d.LineNumber, d.Timestamp)
}

func (d InvalidLogLevel) String() string {
	return fmt.Sprintf("line %d: invalid log level %q (valid: %s)", d.LineNumber, d.LogLevel, strings.Join(d.ValidLevels, ", "))
}

func (d EmptyMessage) String() string { return fmt.Sprintf("line %d: empty message", d.LineNumber) }

func (d FileReadError) String() string { return "cannot read file: " + d.ErrorMessage }

func (d UnexpectedError) String() string { return "validation failed: " + d.ErrorMessage }

func (d UnsupportedFileType) String() string {
	return fmt.Sprintf("unsupported file type: %q", d.Extension)
}

// tagged marshals v with an "error_type" member prepended.
func tagged(kind Kind, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	head := fmt.Sprintf(`{"error_type":%q`, kind)
	if string(body) == "{}" {
		return []byte(head + "}"), nil
	}
	return append([]byte(head+","), body[1:]...), nil
}

// The plain* aliases drop the MarshalJSON method so tagged does not recurse.
type (
	plainMissingColumns    MissingColumns
	plainDuplicateRow      DuplicateRow
	plainMissingField      MissingField
	plainJSONDecodeError   JSONDecodeError
	plainInvalidLineFormat InvalidLineFormat
	plainInvalidTimestamp  InvalidTimestamp
	plainInvalidLogLevel   InvalidLogLevel
	plainEmptyMessage      EmptyMessage
	plainFileReadError     FileReadError
	plainUnexpectedError   UnexpectedError
	plainUnsupported       UnsupportedFileType
)

func (d MissingColumns) MarshalJSON() ([]byte, error) {
	return tagged(d.Kind(), plainMissingColumns(d))
}

func (d DuplicateRow) MarshalJSON() ([]byte, error) {
	return tagged(d.Kind(), plainDuplicateRow(d))
}

func (d MissingField) MarshalJSON() ([]byte, error) {
	return tagged(d.Kind(), plainMissingField(d))
}

func (d JSONDecodeError) MarshalJSON() ([]byte, error) {
	return tagged(d.Kind(), plainJSONDecodeError(d))
}

func (d EmptyFile) MarshalJSON() ([]byte, error) {
	return tagged(d.Kind(), struct{}{})
}

func (d InvalidLineFormat) MarshalJSON() ([]byte, error) {
	return tagged(d.Kind(), plainInvalidLineFormat(d))
}

func (d InvalidTimestamp) MarshalJSON() ([]byte, error) {
	return tagged(d.Kind(), plainInvalidTimestamp(d))
}

func (d InvalidLogLevel) MarshalJSON() ([]byte, error) {
	return tagged(d.Kind(), plainInvalidLogLevel(d))
}

func (d EmptyMessage) MarshalJSON() ([]byte, error) {
	return tagged(d.Kind(), plainEmptyMessage(d))
}

func (d FileReadError) MarshalJSON() ([]byte, error) {
	return tagged(d.Kind(), plainFileReadError(d))
}

func (d UnexpectedError) MarshalJSON() ([]byte, error) {
	return tagged(d.Kind(), plainUnexpectedError(d))
}

func (d UnsupportedFileType) MarshalJSON() ([]byte, error) {
	return tagged(d.Kind(), plainUnsupported(d))
}

// DecodeDiagnostic parses one tagged diagnostic document.
func DecodeDiagnostic(data []byte) (Diagnostic, error) {
	var head struct {
		Kind Kind `json:"error_type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode diagnostic: %w", err)
	}

	var (
		d   Diagnostic
		err error
	)
	switch head.Kind {
	case KindMissingColumns:
		var v MissingColumns
		err = json.Unmarshal(data, (*plainMissingColumns)(&v))
		d = v
	case KindDuplicateRow:
		var v DuplicateRow
		err = json.Unmarshal(data, (*plainDuplicateRow)(&v))
		d = v
	case KindMissingField:
		var v MissingField
		err = json.Unmarshal(data, (*plainMissingField)(&v))
		d = v
	case KindJSONDecodeError:
		var v JSONDecodeError
		err = json.Unmarshal(data, (*plainJSONDecodeError)(&v))
		d = v
	case KindEmptyFile:
		d = EmptyFile{}
	case KindInvalidLineFormat:
		var v InvalidLineFormat
		err = json.Unmarshal(data, (*plainInvalidLineFormat)(&v))
		d = v
	case KindInvalidTimestamp:
		var v InvalidTimestamp
		err = json.Unmarshal(data, (*plainInvalidTimestamp)(&v))
		d = v
	case KindInvalidLogLevel:
		var v InvalidLogLevel
		err = json.Unmarshal(data, (*plainInvalidLogLevel)(&v))
		d = v
	case KindEmptyMessage:
		var v EmptyMessage
		err = json.Unmarshal(data, (*plainEmptyMessage)(&v))
		d = v
	case KindFileReadError:
		var v FileReadError
		err = json.Unmarshal(data, (*plainFileReadError)(&v))
		d = v
	case KindUnexpected:
		var v UnexpectedError
		err = json.Unmarshal(data, (*plainUnexpectedError)(&v))
		d = v
	case KindUnsupportedType:
		var v UnsupportedFileType
		err = json.Unmarshal(data, (*plainUnsupported)(&v))
		d = v
	default:
		return nil, fmt.Errorf("decode diagnostic: unknown error_type %q", head.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Kind, err)
	}
	return d, nil
}

// Diagnostics is an ordered list of diagnostics that can be decoded from JSON.
type Diagnostics []Diagnostic

// UnmarshalJSON decodes a JSON array of tagged diagnostics.
func (ds *Diagnostics) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Diagnostics, 0, len(raw))
	for _, r := range raw {
		d, err := DecodeDiagnostic(r)
		if err != nil {
			return err
		}
		out = append(out, d)
	}
	*ds = out
	return nil
}
