package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neatscripts/neat/internal/app"
	"github.com/neatscripts/neat/internal/host"
)

func newCompletionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completions",
		Short: "Prompt with a quick-pick list and insert the choice",
	}
	cmd.AddCommand(newCompletionsShowCmd())
	return cmd
}

func newCompletionsShowCmd() *cobra.Command {
	var (
		title    string
		multiple bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "show <suggestion...>",
		Short: "Pick from suggestions and replace the primary selection",
		Long: `Pick from suggestions and replace the primary selection.

With --multiple the chosen labels are joined by ", ". Cancelling the prompt
leaves the document untouched. With --json the single argument is a JSON
array whose items are labels or {"label", "description"} objects.

Examples:
  neat completions show red green blue
  neat completions show --multiple --title Tags bug feature docs
  neat completions show --json '[{"label":"fmt","description":"formatting"}]'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := suggestionsFromArgs(args, asJSON)
			if err != nil {
				return app.UsageExit(err.Error())
			}
			return withHost(cmd, func(h *host.Host) error {
				return asExit(h.ShowCompletions(cmd.Context(), title, multiple, items))
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "prompt title")
	cmd.Flags().BoolVar(&multiple, "multiple", false, "allow choosing several suggestions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "read suggestions from a JSON array argument")
	return cmd
}

func suggestionsFromArgs(args []string, asJSON bool) ([]host.PickItem, error) {
	if !asJSON {
		items := make([]host.PickItem, len(args))
		for i, a := range args {
			items[i] = host.PickItem{Label: a}
		}
		return items, nil
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("--json takes exactly one argument, got %d", len(args))
	}
	var items []host.PickItem
	if err := json.Unmarshal([]byte(args[0]), &items); err != nil {
		return nil, fmt.Errorf("invalid suggestions: %w", err)
	}
	return items, nil
}
