// Package errors provides structured batch-level errors for logvet.
//
// Per-file content problems are never reported through this package; they
// are diagnostics inside a validation result. Errors here describe runs that
// could not start at all.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (directory, report sink)
//   - 3XX: Network errors (task server)
//   - 4XX: Validation errors (bad input to an operation)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryNetwork indicates network-related errors.
	CategoryNetwork Category = "NETWORK"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound   = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    = "ERR_102_CONFIG_INVALID"
	ErrCodeConfigPermission = "ERR_103_CONFIG_PERMISSION"

	// IO errors (200-299)
	ErrCodeDirNotFound    = "ERR_201_DIR_NOT_FOUND"
	ErrCodeFilePermission = "ERR_202_FILE_PERMISSION"
	ErrCodeReportSink     = "ERR_203_REPORT_SINK"
	ErrCodeReportSinkLock = "ERR_204_REPORT_SINK_LOCKED"

	// Network errors (300-399)
	ErrCodeListenFailed      = "ERR_301_LISTEN_FAILED"
	ErrCodeServerUnreachable = "ERR_302_SERVER_UNREACHABLE"
	ErrCodeBadResponse       = "ERR_303_BAD_RESPONSE"

	// Validation errors (400-499)
	ErrCodeInvalidInput   = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidWorkers = "ERR_402_INVALID_WORKERS"
	ErrCodeNoFiles        = "ERR_403_NO_FILES"
	ErrCodeFilesInvalid   = "ERR_404_FILES_INVALID"

	// Internal errors (500-599)
	ErrCodeInternal    = "ERR_501_INTERNAL"
	ErrCodePoolFailed  = "ERR_502_POOL_FAILED"
	ErrCodeWatchFailed = "ERR_503_WATCH_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// "101" from "ERR_101_CONFIG_NOT_FOUND"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryNetwork
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeConfigNotFound, ErrCodeConfigInvalid, ErrCodePoolFailed, ErrCodeDirNotFound:
		return SeverityFatal
	case ErrCodeReportSinkLock:
		return SeverityWarning
	}
	return SeverityError
}
