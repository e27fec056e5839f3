// Package ui decides how validation output is styled for the current terminal.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}

	// Check if it's a file that's a terminal
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"}
	for _, v := range ciVars {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}

// UseColor reports whether output written to w should be coloured.
// Colour is used only on an interactive terminal outside CI, and never when
// NO_COLOR is set or forceNoColor is true.
func UseColor(w io.Writer, forceNoColor bool) bool {
	if forceNoColor || DetectNoColor() || DetectCI() {
		return false
	}
	return IsTTY(w)
}

// StylesFor returns the styles to use for output written to w.
func StylesFor(w io.Writer, forceNoColor bool) Styles {
	return GetStyles(!UseColor(w, forceNoColor))
}
