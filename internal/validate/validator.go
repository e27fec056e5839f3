package validate

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Aman-CERP/logvet/internal/logging"
)

// Format identifies which validator handles a file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// DefaultRequiredColumns is the column set used when none is configured.
var DefaultRequiredColumns = []string{"timestamp", "log_level", "message", "source"}

// ValidLevels are the log levels accepted in text files. Matching is
// case-sensitive.
var ValidLevels = []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

// minTextParts is the number of "|" separated parts a text line needs.
const minTextParts = 3

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FormatFor maps a path to its format using the lower-cased extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, true
	case ".json":
		return FormatJSON, true
	case ".log", ".txt":
		return FormatText, true
	default:
		return "", false
	}
}

// Validator checks files against a fixed required column set.
type Validator struct {
	required    []string
	isTimestamp func(string) bool
	readFile    func(string) ([]byte, error)
	logger      *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithRequiredColumns replaces the required column set. An empty list keeps
// the default.
func WithRequiredColumns(cols ...string) Option {
	return func(v *Validator) {
		if len(cols) > 0 {
			v.required = append([]string(nil), cols...)
		}
	}
}

// WithTimestampPredicate replaces IsTimestamp for text validation.
func WithTimestampPredicate(fn func(string) bool) Option {
	return func(v *Validator) {
		if fn != nil {
			v.isTimestamp = fn
		}
	}
}

// WithLogger sets the logger used for per-file debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// withReadFile swaps the file reader. Tests use it to simulate IO failures.
func withReadFile(fn func(string) ([]byte, error)) Option {
	return func(v *Validator) { v.readFile = fn }
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		required:    append([]string(nil), DefaultRequiredColumns...),
		isTimestamp: IsTimestamp,
		readFile:    os.ReadFile,
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// RequiredColumns returns a copy of the configured column set.
func (v *Validator) RequiredColumns() []string {
	return append([]string(nil), v.required...)
}

// ValidateFile reads path and validates it according to its extension.
// It never returns an error; every failure becomes a diagnostic.
func (v *Validator) ValidateFile(path string) (res Result) {
	format, ok := FormatFor(path)
	if !ok {
		return NewResult(UnsupportedFileType{
			Extension: strings.ToLower(filepath.Ext(path)),
			FilePath:  path,
		})
	}

	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("validator panicked", slog.String("path", path), slog.Any("panic", r))
			res = NewResult(UnexpectedError{ErrorMessage: fmt.Sprint(r), FilePath: path})
		}
	}()

	content, err := v.readFile(path)
	if err != nil {
		v.logger.Warn("read failed", slog.String("path", path), slog.String("error", err.Error()))
		return NewResult(FileReadError{ErrorMessage: describeReadError(err), FilePath: path})
	}
	if !utf8.Valid(content) {
		return NewResult(FileReadError{ErrorMessage: "content is not valid UTF-8", FilePath: path})
	}

	res = v.Validate(format, content, path)
	v.logger.Debug("file validated",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Bool("valid", res.Valid()),
		slog.Int("errors", res.Len()))
	return res
}

// Validate checks already-read content. path is only used in diagnostics
// that carry a file path.
func (v *Validator) Validate(format Format, content []byte, path string) Result {
	content = bytes.TrimPrefix(content, utf8BOM)
	switch format {
	case FormatCSV:
		return v.ValidateCSV(content, path)
	case FormatJSON:
		return v.ValidateJSON(content)
	case FormatText:
		return v.ValidateText(content)
	default:
		return NewResult(UnsupportedFileType{Extension: string(format), FilePath: path})
	}
}

// describeReadError drops the path prefix of an *fs.PathError; the path is
// already carried by the diagnostic.
func describeReadError(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}
