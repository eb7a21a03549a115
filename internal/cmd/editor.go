package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/neatscripts/neat/internal/app"
	"github.com/neatscripts/neat/internal/editor"
	"github.com/neatscripts/neat/internal/host"
	"github.com/neatscripts/neat/internal/tui"
)

// editorState is the output of `neat editor show`.
type editorState struct {
	WorkspaceFolders []string `json:"workspaceFolders"`
	Active           string   `json:"active,omitempty"`
	Selections       []string `json:"selections,omitempty"`
	Dirty            bool     `json:"dirty,omitempty"`
	OpenDocuments    int      `json:"openDocuments"`
}

func (s editorState) Render() string {
	st := app.Styles
	var sb strings.Builder
	sb.WriteString(st.Dim.Render("Workspace: "))
	if len(s.WorkspaceFolders) == 0 {
		sb.WriteString(st.Dim.Render("(none)"))
	} else {
		sb.WriteString(st.Key.Render(strings.Join(s.WorkspaceFolders, ", ")))
	}
	sb.WriteString("\n")
	sb.WriteString(st.Dim.Render("Active:    "))
	if s.Active == "" {
		sb.WriteString(st.Dim.Render("(no editor)"))
		return sb.String()
	}
	sb.WriteString(st.Header.Render(s.Active))
	if s.Dirty {
		sb.WriteString(st.Warning.Render(" [modified]"))
	}
	sb.WriteString("\n")
	sb.WriteString(st.Dim.Render("Selection: "))
	sb.WriteString(strings.Join(s.Selections, ", "))
	return sb.String()
}

func newEditorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editor",
		Short: "Focus, inspect and close the active editor",
	}
	cmd.AddCommand(newEditorFocusCmd(), newEditorCloseCmd(), newEditorShowCmd())
	return cmd
}

func newEditorFocusCmd() *cobra.Command {
	var selections []string

	cmd := &cobra.Command{
		Use:   "focus <path>",
		Short: "Make a document the active editor and set its selections",
		Long: `Make a document the active editor and set its selections.

Selections are 1-based: LINE:COL is a cursor, LINE:COL-LINE:COL a range.
The first --select is the primary selection. Out-of-range positions are
clamped to the document.

Examples:
  neat editor focus main.go --select 12:5
  neat editor focus main.go --select 3:1-3:14 --select 8:1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ranges := make([]editor.Range, 0, len(selections))
			for _, s := range selections {
				r, err := parseSelection(s)
				if err != nil {
					return app.UsageExit(err.Error())
				}
				ranges = append(ranges, r)
			}
			return withHost(cmd, func(h *host.Host) error {
				if _, err := h.OpenFile(args[0]); err != nil {
					return reported(err)
				}
				if _, err := h.Session.Focus(args[0], ranges...); err != nil {
					return app.Failure(err.Error())
				}
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&selections, "select", nil, "selection LINE:COL or LINE:COL-LINE:COL (repeatable)")
	return cmd
}

func newEditorCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Unfocus the active editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHost(cmd, func(h *host.Host) error {
				h.Session.CloseEditor()
				return nil
			})
		},
	}
}

func newEditorShowCmd() *cobra.Command {
	var view bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active editor and its selections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			ed, doc, err := s.ActiveDocument()
			if err != nil {
				return app.Failure(err.Error())
			}
			if view && doc != nil {
				if err := tui.ViewDocument(doc, ed.Primary()); err != nil {
					return app.Failure(err.Error())
				}
				return nil
			}

			state := editorState{WorkspaceFolders: s.WorkspaceFolders, OpenDocuments: len(s.Documents)}
			if ed != nil {
				state.Active = ed.Path
				state.Dirty = doc.Dirty
				for _, sel := range ed.Selections {
					state.Selections = append(state.Selections, sel.String())
				}
			}
			format, outputPath := getOutputFlags(cmd)
			return app.OutputResult(state, format, outputPath)
		},
	}
	cmd.Flags().BoolVar(&view, "view", false, "show the active document in a full-screen viewer")
	return cmd
}
