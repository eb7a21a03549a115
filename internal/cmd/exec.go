package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neatscripts/neat/internal/app"
	"github.com/neatscripts/neat/internal/host"
)

func newExecCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "exec <command-id> [json-args]",
		Short: "Execute one host command, as a script would",
		Long: `Execute one host command, as a script would.

Examples:
  neat exec files.save
  neat exec notifications.info '{"message":"hello"}'
  neat exec completions.show '{"suggestions":["a","b"],"multiple":true}'
  neat exec --list`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, outputPath := getOutputFlags(cmd)
			if list {
				// The registry is static, so no session is needed to list it.
				ids := newHost(nil).Registry().IDs()
				return app.OutputResultText(ids, format, outputPath, func() string {
					return strings.Join(ids, "\n")
				})
			}

			var raw json.RawMessage
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return app.UsageExit(fmt.Sprintf("args are not valid JSON: %s", args[1]))
				}
				raw = json.RawMessage(args[1])
			}

			var result any
			err := withHost(cmd, func(h *host.Host) error {
				var err error
				result, err = h.Execute(cmd.Context(), args[0], raw)
				return err
			})
			if errors.Is(err, host.ErrReported) {
				return app.Silent(1)
			}
			if err != nil {
				return asExit(err)
			}
			if result == nil {
				return nil
			}
			return app.OutputResult(result, format, outputPath)
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list the available command ids")
	return cmd
}
