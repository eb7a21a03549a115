package cmd

import (
	"github.com/spf13/cobra"

	"github.com/neatscripts/neat/internal/app"
	"github.com/neatscripts/neat/internal/editor"
	"github.com/neatscripts/neat/internal/host"
	"github.com/neatscripts/neat/internal/tui"
)

func newFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Open and save documents",
	}
	cmd.AddCommand(newFilesOpenCmd(), newFilesSaveCmd())
	return cmd
}

func newFilesOpenCmd() *cobra.Command {
	var view bool

	cmd := &cobra.Command{
		Use:   "open <path>",
		Short: "Open a document and make it the active editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				doc    *editor.Document
				cursor editor.Range
			)
			err := withHost(cmd, func(h *host.Host) error {
				var err error
				if doc, err = h.OpenFile(args[0]); err != nil {
					return reported(err)
				}
				cursor = h.Session.Active.Primary()
				return nil
			})
			if err != nil || !view {
				return err
			}
			if err := tui.ViewDocument(doc, cursor); err != nil {
				return app.Failure(err.Error())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&view, "view", false, "show the document in a full-screen viewer")
	return cmd
}

func newFilesSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the active document if it has unsaved edits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var saved bool
			err := withHost(cmd, func(h *host.Host) error {
				var err error
				saved, err = h.Session.SaveActive()
				return err
			})
			if err != nil {
				return asExit(err)
			}
			if !saved {
				return app.OKText(app.Styles.Dim.Render("nothing to save"))
			}
			return nil
		},
	}
	return cmd
}
