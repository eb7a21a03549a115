package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/neatscripts/neat/internal/app"
	"github.com/neatscripts/neat/internal/execctx"
)

func newContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Print the execution context a script would receive",
		Long: `Print the execution context a script would receive on stdin.

Output defaults to JSON; use -F yaml or -F text for other renderings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			ctx := execctx.Build(s)
			format, outputPath := getOutputFlags(cmd)
			return app.OutputResultText(ctx, defaultJSON(format), outputPath, func() string {
				return renderContext(ctx)
			})
		},
	}
	return cmd
}

// defaultJSON makes JSON the default where the output is meant for scripts.
func defaultJSON(format string) string {
	if format == "" {
		return string(app.OutputFormatJSON)
	}
	return format
}

func renderContext(ctx execctx.ExecutionContext) string {
	s := app.Styles
	var sb strings.Builder
	sb.WriteString(s.Dim.Render("workspace: "))
	sb.WriteString(s.Key.Render(ctx.WorkspacePath))
	sb.WriteString("\n")
	sb.WriteString(s.Dim.Render("file:      "))
	sb.WriteString(s.Key.Render(ctx.File))
	for _, sel := range ctx.Selections {
		sb.WriteString("\n  ")
		sb.WriteString(s.Bullet.Render("•"))
		sb.WriteString(" ")
		sb.WriteString(sel.String())
	}
	return sb.String()
}
