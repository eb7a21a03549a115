package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/neatscripts/neat/internal/app"
	"github.com/neatscripts/neat/internal/host"
)

// scriptFlags are shared by `run` and `bindings run`.
type scriptFlags struct {
	batch  bool
	stderr bool
}

func (f *scriptFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.batch, "batch", false, "parse the script's whole stdout as a JSON array after it exits")
	cmd.Flags().BoolVar(&f.stderr, "script-stderr", false, "forward the script's stderr to ours")
}

func (f *scriptFlags) apply(h *host.Host, req *host.ScriptRequest) {
	if f.batch {
		req.Protocol = app.ProtocolBatch
	}
	if f.stderr {
		h.ScriptStderr = os.Stderr
	}
}

func newRunCmd() *cobra.Command {
	var flags scriptFlags

	cmd := &cobra.Command{
		Use:   "run <script> [args...]",
		Short: "Run a script against the active editor",
		Long: `Run a script against the active editor.

The active document is saved first. The script receives the execution
context as JSON on stdin ({"workspacePath", "file", "selections"}) and prints
one command per line on stdout, either a bare command id ("files.save") or
{"command": "...", "args": {...}}. Commands run in order; the first malformed
line or failed command stops the run and is reported as a notification.

Relative script paths resolve against the workspace root. Everything after
the script is passed to it unchanged.

Examples:
  neat run ./scripts/format.sh
  neat run ./scripts/todo.sh --batch
  neat run "exec:./scripts/lint.sh --fix"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHost(cmd, func(h *host.Host) error {
				req := host.ScriptRequest{Script: args[0], Args: args[1:]}
				flags.apply(h, &req)
				return reported(h.Run(cmd.Context(), req))
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().SetInterspersed(false)
	return cmd
}
