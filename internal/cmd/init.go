package cmd

import (
	"github.com/spf13/cobra"

	"github.com/neatscripts/neat/internal/app"
	"github.com/neatscripts/neat/internal/editor"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a neat session for a workspace",
		Long: `Create a neat session for a workspace.

Creates dir/.neat/session.json with dir (default: the current directory) as
the workspace folder, plus a starter dir/.neat/bindings.yaml.

Examples:
  neat init
  neat init ~/src/project -F json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			res, err := app.PrepareInit(dir)
			if err != nil {
				return err
			}
			if err := editor.NewSession(res.SessionPath, res.WorkspacePath).Persist(); err != nil {
				return app.Failure(err.Error())
			}
			format, outputPath := getOutputFlags(cmd)
			return app.OutputResult(res, format, outputPath)
		},
	}
	return cmd
}
