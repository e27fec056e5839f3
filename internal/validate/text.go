package validate

import (
	"slices"
	"strings"
)

// ValidateText checks pipe-delimited log lines "timestamp | level | message".
// Lines are numbered from 1 and blank lines are skipped. Parts beyond the
// third are ignored.
func (v *Validator) ValidateText(content []byte) Result {
	var c collector

	lines := splitLines(string(content))
	if len(lines) == 0 {
		c.add(EmptyFile{})
		return c.result()
	}

	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) < minTextParts {
			c.add(InvalidLineFormat{
				LineNumber:    lineNo,
				LineContent:   line,
				ExpectedParts: minTextParts,
				ActualParts:   len(parts),
			})
			continue
		}

		timestamp := strings.TrimSpace(parts[0])
		level := strings.TrimSpace(parts[1])
		message := strings.TrimSpace(parts[2])

		if !v.isTimestamp(timestamp) {
			c.add(InvalidTimestamp{LineNumber: lineNo, Timestamp: timestamp})
		}
		if !isValidLevel(level) {
			c.add(InvalidLogLevel{
				LineNumber:  lineNo,
				LogLevel:    level,
				ValidLevels: append([]string(nil), ValidLevels...),
			})
		}
		if message == "" {
			c.add(EmptyMessage{LineNumber: lineNo})
		}
	}

	return c.result()
}

func isValidLevel(level string) bool {
	return slices.Contains(ValidLevels, level)
}

// splitLines splits on "\n", "\r\n" and a lone "\r". A trailing terminator
// does not start another line, so "" has no lines and "a\n" has one.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
