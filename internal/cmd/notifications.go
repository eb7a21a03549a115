package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neatscripts/neat/internal/host"
	"github.com/neatscripts/neat/internal/tui"
)

func newNotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show a notification",
	}
	for _, level := range []host.Level{host.LevelInfo, host.LevelWarning, host.LevelError} {
		cmd.AddCommand(newNotifyCmd(level))
	}
	return cmd
}

// newNotifyCmd needs no session: notifications do not touch editor state.
func newNotifyCmd(level host.Level) *cobra.Command {
	return &cobra.Command{
		Use:   string(level) + " <message...>",
		Short: "Show " + article(level) + " " + string(level) + " notification",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tui.NewNotifier(os.Stderr).Notify(level, strings.Join(args, " "))
			return nil
		},
	}
}

func article(level host.Level) string {
	if strings.ContainsAny(string(level)[:1], "aeiou") {
		return "an"
	}
	return "a"
}
