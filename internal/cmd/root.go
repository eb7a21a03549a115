package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/neatscripts/neat/internal/app"
)

// NewRoot builds the top-level `neat` command.
//
// We keep errors/usage silent and let our main() decide how to print ExitResult vs generic errors.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "neat",
		Short:         "neat: bind keys to scripts that drive the editor",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Root().PersistentFlags().GetString("log-level")
			if err := app.ConfigureLogging(os.Stderr, level); err != nil {
				return app.UsageExit(err.Error())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return app.UsageExit(err.Error() + "\n\n" + c.UsageString())
	})

	root.PersistentFlags().StringP("output", "o", "", "write output to file (default: stdout)")
	root.PersistentFlags().StringP("format", "F", "", "output format: json|yaml|text|quiet")
	root.PersistentFlags().String("session", "", "session file (default: nearest .neat/session.json, or $"+app.EnvSession+")")
	root.PersistentFlags().String("log-level", "", "log level: debug|info|warn|error (default: $"+app.EnvLogLevel+" or warn)")

	root.AddGroup(
		&cobra.Group{ID: "start", Title: "start a session"},
		&cobra.Group{ID: "scripts", Title: "run scripts"},
		&cobra.Group{ID: "editor", Title: "editor state"},
		&cobra.Group{ID: "ui", Title: "user interface"},
		&cobra.Group{ID: "introspect", Title: "configuration and introspection"},
	)

	initCmd := newInitCmd()
	initCmd.GroupID = "start"

	runCmd := newRunCmd()
	runCmd.GroupID = "scripts"

	bindingsCmd := newBindingsCmd()
	bindingsCmd.GroupID = "scripts"

	execCmd := newExecCmd()
	execCmd.GroupID = "scripts"

	filesCmd := newFilesCmd()
	filesCmd.GroupID = "editor"

	editorCmd := newEditorCmd()
	editorCmd.GroupID = "editor"

	contextCmd := newContextCmd()
	contextCmd.GroupID = "editor"

	notificationsCmd := newNotificationsCmd()
	notificationsCmd.GroupID = "ui"

	completionsCmd := newCompletionsCmd()
	completionsCmd.GroupID = "ui"

	secretCmd := newSecretCmd()
	secretCmd.GroupID = "introspect"

	infoCmd := newInfoCmd()
	infoCmd.GroupID = "introspect"

	root.AddCommand(
		initCmd,
		runCmd,
		bindingsCmd,
		execCmd,
		filesCmd,
		editorCmd,
		contextCmd,
		notificationsCmd,
		completionsCmd,
		secretCmd,
		infoCmd,
	)

	return root
}
