package ui

import "github.com/charmbracelet/lipgloss"

// Color palette - lime accent with red/yellow for problems
const (
	ColorLime     = "154" // Valid files, headers
	ColorLimeDim  = "106" // Counts and secondary accents
	ColorWhite    = "255" // File paths
	ColorGray     = "245" // Labels
	ColorDarkGray = "238" // Separators, diagnostic detail
	ColorRed      = "196" // Invalid files
	ColorYellow   = "220" // Warnings
)

// Styles holds the styles used when printing validation output.
type Styles struct {
	Header  lipgloss.Style
	Valid   lipgloss.Style
	Invalid lipgloss.Style
	Warning lipgloss.Style
	Path    lipgloss.Style
	Kind    lipgloss.Style
	Dim     lipgloss.Style
	Label   lipgloss.Style
	Count   lipgloss.Style
}

// DefaultStyles returns coloured styles for terminal output.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Valid:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Invalid: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorRed)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Path:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWhite)),
		Kind:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Count:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLimeDim)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Valid:   lipgloss.NewStyle(),
		Invalid: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Path:    lipgloss.NewStyle(),
		Kind:    lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
		Label:   lipgloss.NewStyle(),
		Count:   lipgloss.NewStyle(),
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
