package app

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Styles defines the visual styles used across CLI output.
// These are initialized once and respect terminal capabilities.
var Styles = initStyles()

type styles struct {
	// Headers and titles
	Header lipgloss.Style

	// Key items (command ids, paths, key chords)
	Key lipgloss.Style

	// Descriptions and secondary text
	Dim lipgloss.Style

	// Notification levels
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	Success lipgloss.Style

	// Bullet point
	Bullet lipgloss.Style
}

func initStyles() styles {
	// Respect NO_COLOR env var (https://no-color.org/)
	if os.Getenv("NO_COLOR") != "" {
		return styles{
			Header:  lipgloss.NewStyle(),
			Key:     lipgloss.NewStyle(),
			Dim:     lipgloss.NewStyle(),
			Info:    lipgloss.NewStyle(),
			Warning: lipgloss.NewStyle(),
			Error:   lipgloss.NewStyle(),
			Success: lipgloss.NewStyle(),
			Bullet:  lipgloss.NewStyle(),
		}
	}

	return styles{
		Header:  lipgloss.NewStyle().Bold(true),
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")), // Cyan
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")), // Gray
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Bullet:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
