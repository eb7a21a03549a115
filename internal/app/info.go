package app

import "strings"

// SoftwareInfo contains identity and metadata for the CLI.
type SoftwareInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Repository  string `json:"repository,omitempty"`
}

// RenderSoftwareInfo returns a human-friendly styled representation of SoftwareInfo.
func RenderSoftwareInfo(sw SoftwareInfo) string {
	s := Styles
	var sb strings.Builder

	sb.WriteString(s.Header.Render(sw.Name))
	if sw.Version != "" {
		sb.WriteString(s.Dim.Render(" v" + sw.Version))
	}

	if sw.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(sw.Description)
	}

	if sw.Repository != "" {
		sb.WriteString("\n\n  ")
		sb.WriteString(s.Bullet.Render("•"))
		sb.WriteString(" ")
		sb.WriteString(s.Dim.Render("Repository: "))
		sb.WriteString(s.Key.Render(sw.Repository))
	}

	return sb.String()
}

// Info returns neat's own software identity and metadata.
func Info() SoftwareInfo {
	return SoftwareInfo{
		Name:        "neat",
		Version:     Version,
		Description: "Bind keys and menu entries to external scripts that drive the editor.",
		Repository:  "https://github.com/neatscripts/neat",
	}
}
