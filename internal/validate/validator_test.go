package validate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResult_ValidIffNoErrors(t *testing.T) {
	assert.True(t, NewResult().Valid())
	assert.Empty(t, NewResult().Errors())

	r := NewResult(EmptyFile{})
	assert.False(t, r.Valid())
	assert.Equal(t, 1, r.Len())
}

func TestResult_ErrorsIsACopy(t *testing.T) {
	r := NewResult(EmptyFile{}, DuplicateRow{RowIndex: 2})

	errs := r.Errors()
	errs[0] = DuplicateRow{RowIndex: 9}

	assert.Equal(t, EmptyFile{}, r.Errors()[0])
}

func TestResult_CountByKind(t *testing.T) {
	r := NewResult(
		MissingField{Column: "a", RowIndex: 1},
		MissingField{Column: "b", RowIndex: 1},
		DuplicateRow{RowIndex: 2},
	)

	assert.Equal(t, map[Kind]int{KindMissingField: 2, KindDuplicateRow: 1}, r.CountByKind())
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path   string
		want   Format
		wantOK bool
	}{
		{"a.csv", FormatCSV, true},
		{"a.CSV", FormatCSV, true},
		{"dir/a.json", FormatJSON, true},
		{"a.log", FormatText, true},
		{"a.TXT", FormatText, true},
		{"a.xml", "", false},
		{"noext", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := FormatFor(tt.path)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	v := New()
	assert.Equal(t, DefaultRequiredColumns, v.RequiredColumns())

	v = New(WithRequiredColumns())
	assert.Equal(t, DefaultRequiredColumns, v.RequiredColumns(), "empty list keeps defaults")

	v = New(WithRequiredColumns("id", "ts"))
	assert.Equal(t, []string{"id", "ts"}, v.RequiredColumns())
}

func TestValidateCSV_MissingColumnAndDuplicateRow(t *testing.T) {
	// Given a header without "message" and two identical rows
	content := "timestamp,log_level,source\n2024-01-15,INFO,api\n2024-01-15,INFO,api\n"

	// When validating
	res := New().ValidateCSV([]byte(content), "x.csv")

	// Then column errors come first, then per-row errors in row order
	assert.False(t, res.Valid())
	assert.Equal(t, []Diagnostic{
		MissingColumns{Columns: []string{"message"}},
		MissingField{Column: "message", RowIndex: 1},
		DuplicateRow{RowIndex: 2},
		MissingField{Column: "message", RowIndex: 2},
	}, res.Errors())
}

func TestValidateCSV_Valid(t *testing.T) {
	content := "timestamp,log_level,message,source\n" +
		"2024-01-15,INFO,started,api\n" +
		"2024-01-15,INFO,stopped,api\n"

	res := New().ValidateCSV([]byte(content), "x.csv")

	assert.True(t, res.Valid())
	assert.Empty(t, res.Errors())
}

func TestValidateCSV_MissingColumnsListsAllInRequiredOrder(t *testing.T) {
	res := New().ValidateCSV([]byte("source,other\n"), "x.csv")

	require.Equal(t, 1, res.Len())
	assert.Equal(t, MissingColumns{Columns: []string{"timestamp", "log_level", "message"}}, res.Errors()[0])
}

func TestValidateCSV_EmptyAndShortFields(t *testing.T) {
	// Row 1 has an empty level, row 2 stops before message and source
	content := "timestamp,log_level,message,source\n" +
		"2024-01-15,,hi,api\n" +
		"2024-01-15,INFO\n"

	res := New().ValidateCSV([]byte(content), "x.csv")

	assert.Equal(t, []Diagnostic{
		MissingField{Column: "log_level", RowIndex: 1},
		MissingField{Column: "message", RowIndex: 2},
		MissingField{Column: "source", RowIndex: 2},
	}, res.Errors())
}

func TestValidateCSV_ZeroStringIsPresent(t *testing.T) {
	res := New(WithRequiredColumns("count")).ValidateCSV([]byte("count\n0\n"), "x.csv")
	assert.True(t, res.Valid())
}

func TestValidateCSV_FingerprintIsExactAndOrdered(t *testing.T) {
	v := New(WithRequiredColumns("a", "b"))

	tests := []struct {
		name    string
		content string
		dup     bool
	}{
		{"identical", "a,b\nx,y\nx,y\n", true},
		{"reordered", "a,b\nx,y\ny,x\n", false},
		{"whitespace differs", "a,b\nx,y\nx ,y\n", false},
		{"case differs", "a,b\nx,y\nX,y\n", false},
		{"split point differs", "a,b,c\nxy,z,q\nx,yz,q\n", false},
		{"quoted equals bare", "a,b\nx,y\n\"x\",y\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.ValidateCSV([]byte(tt.content), "x.csv")
			assert.Equal(t, tt.dup, res.CountByKind()[KindDuplicateRow] == 1)
		})
	}
}

func TestValidateCSV_EmptyFile(t *testing.T) {
	res := New().ValidateCSV(nil, "x.csv")
	assert.Equal(t, []Diagnostic{EmptyFile{}}, res.Errors())
}

func TestValidateCSV_HeaderOnlyMissingColumnsOnly(t *testing.T) {
	res := New().ValidateCSV([]byte("timestamp\n"), "x.csv")
	assert.Equal(t, []Diagnostic{
		MissingColumns{Columns: []string{"log_level", "message", "source"}},
	}, res.Errors())
}

func TestValidateJSON_MissingFieldInSecondEntry(t *testing.T) {
	// Given two entries where the second has an empty message
	content := `[{"timestamp":"t","log_level":"INFO","message":"m","source":"s"},` +
		`{"timestamp":"t","log_level":"INFO","message":"","source":"s"}]`

	// When validating
	res := New().ValidateJSON([]byte(content))

	// Then exactly one missing_field is reported for entry 2
	assert.False(t, res.Valid())
	assert.Equal(t, []Diagnostic{MissingField{Column: "message", EntryIndex: 2}}, res.Errors())
}

func TestValidateJSON_SingleObjectIsOneEntry(t *testing.T) {
	res := New().ValidateJSON([]byte(`{"timestamp":"t","log_level":"INFO","source":"s"}`))
	assert.Equal(t, []Diagnostic{MissingField{Column: "message", EntryIndex: 1}}, res.Errors())
}

func TestValidateJSON_EmptyArrayIsValid(t *testing.T) {
	assert.True(t, New().ValidateJSON([]byte(`[]`)).Valid())
}

func TestValidateJSON_FalsyValues(t *testing.T) {
	v := New(WithRequiredColumns("f"))

	tests := []struct {
		value string
		empty bool
	}{
		{`null`, true},
		{`false`, true},
		{`0`, true},
		{`0.0`, true},
		{`-0`, true},
		{`0e5`, true},
		{`""`, true},
		{`[]`, true},
		{`{}`, true},
		{`"0"`, false},
		{`" "`, false},
		{`1`, false},
		{`-0.5`, false},
		{`1e400`, false},
		{`-1e400`, false},
		{`true`, false},
		{`[0]`, false},
		{`{"a":null}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			res := v.ValidateJSON([]byte(`{"f":` + tt.value + `}`))
			assert.Equal(t, !tt.empty, res.Valid())
		})
	}
}

func TestValidateJSON_NonObjectEntryHasNoFields(t *testing.T) {
	res := New(WithRequiredColumns("a", "b")).ValidateJSON([]byte(`[{"a":1,"b":2}, 42]`))

	assert.Equal(t, []Diagnostic{
		MissingField{Column: "a", EntryIndex: 2},
		MissingField{Column: "b", EntryIndex: 2},
	}, res.Errors())
}

func TestValidateJSON_DecodeErrorStopsChecks(t *testing.T) {
	res := New().ValidateJSON([]byte("[\n  {\"timestamp\": }\n]"))

	require.Equal(t, 1, res.Len())
	d, ok := res.Errors()[0].(JSONDecodeError)
	require.True(t, ok)
	assert.Contains(t, d.Message, "invalid character")
	assert.Contains(t, d.Message, "line 2")
}

func TestValidateJSON_NumberBeyondFloatRangeIsPresent(t *testing.T) {
	// Given a document whose timestamp overflows float64
	content := `[{"timestamp":1e400,"log_level":"INFO","message":"m","source":"s"}]`

	// When validating
	res := New().ValidateJSON([]byte(content))

	// Then the document parses and every field counts as present
	assert.True(t, res.Valid(), "unexpected diagnostics: %v", res.Errors())
}

func TestValidateJSON_ZeroFloatIsMissing(t *testing.T) {
	content := `{"timestamp":0.0,"log_level":"INFO","message":"m","source":"s"}`

	res := New().ValidateJSON([]byte(content))

	assert.Equal(t, []Diagnostic{MissingField{Column: "timestamp", EntryIndex: 1}}, res.Errors())
}

func TestValidateJSON_TrailingData(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage", `{"a":1} x`},
		{"second value", "{}\n{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New().ValidateJSON([]byte(tt.content))

			require.Equal(t, 1, res.Len())
			d, ok := res.Errors()[0].(JSONDecodeError)
			require.True(t, ok)
			assert.Contains(t, d.Message, "extra data")
		})
	}
}

func TestValidateJSON_TrailingWhitespaceIsValid(t *testing.T) {
	assert.True(t, New(WithRequiredColumns("a")).ValidateJSON([]byte("{\"a\":1}\n\n")).Valid())
}

func TestValidateJSON_EmptyDocument(t *testing.T) {
	res := New().ValidateJSON(nil)

	require.Equal(t, 1, res.Len())
	assert.Equal(t, KindJSONDecodeError, res.Errors()[0].Kind())
}

func TestValidateText_InvalidLineFormat(t *testing.T) {
	// Given one good line and one line without delimiters
	content := "2024-01-15T10:00:00Z|INFO|ok\nbad-line\n"

	// When validating
	res := New().ValidateText([]byte(content))

	// Then only line 2 is reported
	assert.Equal(t, []Diagnostic{InvalidLineFormat{
		LineNumber:    2,
		LineContent:   "bad-line",
		ExpectedParts: 3,
		ActualParts:   1,
	}}, res.Errors())
}

func TestValidateText_EmptyFile(t *testing.T) {
	res := New().ValidateText(nil)

	assert.False(t, res.Valid())
	assert.Equal(t, []Diagnostic{EmptyFile{}}, res.Errors())
}

func TestValidateText_BlankLinesOnlyIsValid(t *testing.T) {
	res := New().ValidateText([]byte("\n   \n\t\n"))
	assert.True(t, res.Valid())
}

func TestValidateText_BlankLinesKeepNumbering(t *testing.T) {
	res := New().ValidateText([]byte("\n\n2024-01-15 | INFO\n"))

	require.Equal(t, 1, res.Len())
	assert.Equal(t, 3, res.Errors()[0].(InvalidLineFormat).LineNumber)
}

func TestValidateText_FieldChecks(t *testing.T) {
	content := "yesterday | info |   \n" +
		"2024-01-15T10:00:00Z | WARNING | disk 91% | extra\n" +
		"\r\n" +
		"2024-01-15 10:00:00 | FATAL | boom\r\n"

	res := New().ValidateText([]byte(content))

	assert.Equal(t, []Diagnostic{
		InvalidTimestamp{LineNumber: 1, Timestamp: "yesterday"},
		InvalidLogLevel{LineNumber: 1, LogLevel: "info", ValidLevels: ValidLevels},
		EmptyMessage{LineNumber: 1},
		InvalidLogLevel{LineNumber: 4, LogLevel: "FATAL", ValidLevels: ValidLevels},
	}, res.Errors())
}

func TestValidateText_CustomTimestampPredicate(t *testing.T) {
	v := New(WithTimestampPredicate(func(s string) bool { return s == "now" }))

	res := v.ValidateText([]byte("now|INFO|a\n2024-01-15|INFO|b\n"))

	assert.Equal(t, []Diagnostic{InvalidTimestamp{LineNumber: 2, Timestamp: "2024-01-15"}}, res.Errors())
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\n\n", []string{"a", ""}},
		{"a\r\nb", []string{"a", "b"}},
		{"a\rb\r", []string{"a", "b"}},
		{"\n", []string{""}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, splitLines(tt.in), "input %q", tt.in)
	}
}

func TestValidateFile_DispatchesOnExtension(t *testing.T) {
	v := New()

	csvPath := writeFile(t, "a.CSV", "timestamp,log_level,message,source\nt,INFO,m,s\n")
	jsonPath := writeFile(t, "b.json", `{"timestamp":"t","log_level":"INFO","message":"m","source":"s"}`)
	textPath := writeFile(t, "c.log", "2024-01-15T10:00:00Z | INFO | ok\n")
	txtPath := writeFile(t, "d.txt", "")

	assert.True(t, v.ValidateFile(csvPath).Valid())
	assert.True(t, v.ValidateFile(jsonPath).Valid())
	assert.True(t, v.ValidateFile(textPath).Valid())
	assert.Equal(t, []Diagnostic{EmptyFile{}}, v.ValidateFile(txtPath).Errors())
}

func TestValidateFile_UnsupportedType(t *testing.T) {
	// The extension is checked before the file is touched
	res := New().ValidateFile("/does/not/exist/report.XML")

	assert.False(t, res.Valid())
	assert.Equal(t, []Diagnostic{UnsupportedFileType{Extension: ".xml", FilePath: "/does/not/exist/report.XML"}}, res.Errors())
}

func TestValidateFile_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.log")

	res := New().ValidateFile(path)

	assert.Equal(t, []Diagnostic{FileReadError{ErrorMessage: "no such file or directory", FilePath: path}}, res.Errors())
}

func TestValidateFile_ReadErrorKeepsUnderlyingMessage(t *testing.T) {
	v := New(withReadFile(func(path string) ([]byte, error) {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrPermission}
	}))

	res := v.ValidateFile("/var/log/app.log")

	assert.Equal(t, []Diagnostic{FileReadError{ErrorMessage: "permission denied", FilePath: "/var/log/app.log"}}, res.Errors())
}

func TestValidateFile_InvalidUTF8(t *testing.T) {
	path := writeFile(t, "bin.log", "\xff\xfe|INFO|x\n")

	res := New().ValidateFile(path)

	require.Equal(t, 1, res.Len())
	assert.Equal(t, KindFileReadError, res.Errors()[0].Kind())
}

func TestValidateFile_StripsByteOrderMark(t *testing.T) {
	path := writeFile(t, "bom.csv", "\ufefftimestamp,log_level,message,source\nt,INFO,m,s\n")

	assert.True(t, New().ValidateFile(path).Valid())
}

func TestValidateFile_PanicBecomesUnexpectedError(t *testing.T) {
	v := New(withReadFile(func(string) ([]byte, error) { panic("boom") }))

	res := v.ValidateFile("x.json")

	assert.Equal(t, []Diagnostic{UnexpectedError{ErrorMessage: "boom", FilePath: "x.json"}}, res.Errors())
}

func TestValidateFile_Idempotent(t *testing.T) {
	path := writeFile(t, "a.csv", "timestamp,log_level,source\nt,INFO,s\nt,INFO,s\n")
	v := New()

	first := v.ValidateFile(path)
	second := v.ValidateFile(path)

	assert.Equal(t, first, second)
	assert.Equal(t, 4, first.Len())
}

func TestValidateFile_ConcurrentUse(t *testing.T) {
	path := writeFile(t, "a.log", strings.Repeat("2024-01-15 | INFO | ok\n", 200))
	v := New()

	done := make(chan Result, 8)
	for range 8 {
		go func() { done <- v.ValidateFile(path) }()
	}
	for range 8 {
		assert.True(t, (<-done).Valid())
	}
}
