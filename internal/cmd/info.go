package cmd

import (
	"github.com/spf13/cobra"

	"github.com/neatscripts/neat/internal/app"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show neat identity and metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := app.Info()
			format, outputPath := getOutputFlags(cmd)
			return app.OutputResultText(info, format, outputPath, func() string {
				return app.RenderSoftwareInfo(info)
			})
		},
	}
	return cmd
}
