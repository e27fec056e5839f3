package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// asVetError returns err as a VetError, wrapping plain errors as internal.
func asVetError(err error) *VetError {
	var ve *VetError
	if errors.As(err, &ve) {
		return ve
	}
	return Wrap(ErrCodeInternal, err)
}

// FormatForCLI formats an error for CLI output.
// Uses a concise format suitable for terminal display.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	ve := asVetError(err)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error: %s\n", ve.Message))
	if ve.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", ve.Suggestion))
	}
	sb.WriteString(fmt.Sprintf("  Code: %s\n", ve.Code))

	return sb.String()
}

// jsonError is the JSON representation of an error.
type jsonError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Category   string            `json:"category"`
	Severity   string            `json:"severity"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Cause      string            `json:"cause,omitempty"`
}

// FormatJSON returns a JSON representation of the error.
func FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return json.Marshal(nil)
	}

	ve := asVetError(err)
	je := jsonError{
		Code:       ve.Code,
		Message:    ve.Message,
		Category:   string(ve.Category),
		Severity:   string(ve.Severity),
		Details:    ve.Details,
		Suggestion: ve.Suggestion,
	}
	if ve.Cause != nil {
		je.Cause = ve.Cause.Error()
	}

	return json.Marshal(je)
}

// LogAttrs returns key-value pairs for slog, e.g. logger.Error("run failed", LogAttrs(err)...).
func LogAttrs(err error) []any {
	if err == nil {
		return nil
	}

	var ve *VetError
	if !errors.As(err, &ve) {
		return []any{"error", err.Error()}
	}

	attrs := []any{
		"error_code", ve.Code,
		"message", ve.Message,
		"category", string(ve.Category),
		"severity", string(ve.Severity),
	}
	if ve.Cause != nil {
		attrs = append(attrs, "cause", ve.Cause.Error())
	}
	for k, v := range ve.Details {
		attrs = append(attrs, "detail_"+k, v)
	}
	return attrs
}
