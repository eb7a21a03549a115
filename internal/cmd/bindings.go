package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/neatscripts/neat/internal/app"
	"github.com/neatscripts/neat/internal/execctx"
	"github.com/neatscripts/neat/internal/host"
)

func newBindingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "List and run named script bindings",
		Long: `List and run named script bindings.

Bindings live in .neat/bindings.yaml next to the session file. Each one names
a script, optional arguments, environment (including secrets read from the OS
keychain) and an optional JSONata "when" clause evaluated against the
execution context.`,
	}
	cmd.AddCommand(newBindingsListCmd(), newBindingsRunCmd())
	return cmd
}

// loadBindings reads the bindings file belonging to the current session.
func loadBindings(cmd *cobra.Command) (*app.Bindings, error) {
	path, err := sessionPath(cmd)
	if err != nil {
		return nil, err
	}
	b, err := app.LoadBindings(app.BindingsPathForSession(path))
	if err != nil {
		return nil, app.Failure(err.Error())
	}
	return b, nil
}

func newBindingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBindings(cmd)
			if err != nil {
				return err
			}
			format, outputPath := getOutputFlags(cmd)
			return app.OutputResult(b, format, outputPath)
		},
	}
}

func newBindingsRunCmd() *cobra.Command {
	var (
		flags scriptFlags
		force bool
	)

	cmd := &cobra.Command{
		Use:   "run <name>",
		Short: "Run a binding's script against the active editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBindings(cmd)
			if err != nil {
				return err
			}
			bd, ok := b.Find(args[0])
			if !ok {
				return app.Failure(fmt.Sprintf("no binding named %q", args[0]))
			}

			return withHost(cmd, func(h *host.Host) error {
				if !force {
					applies, err := bd.Applies(execctx.Build(h.Session))
					if err != nil {
						return app.Failure(fmt.Sprintf("binding %q: %v", bd.Name, err))
					}
					if !applies {
						return app.Failure(fmt.Sprintf("binding %q does not apply here (when: %s)", bd.Name, bd.When))
					}
				}
				env, err := bd.Environment()
				if err != nil {
					return app.Failure(err.Error())
				}
				req := host.ScriptRequest{
					Script:   bd.Script,
					Args:     bd.Args,
					Env:      env,
					Protocol: bd.EffectiveProtocol(),
				}
				flags.apply(h, &req)
				slog.Info("running binding", "name", bd.Name, "script", bd.Script, "protocol", req.Protocol)
				return reported(h.Run(cmd.Context(), req))
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&force, "force", false, "run even if the binding's when clause is false")
	return cmd
}
