package cmd

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/neatscripts/neat/internal/app"
)

func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage keychain entries used by bindings' secretEnv",
	}
	cmd.AddCommand(newSecretSetCmd(), newSecretDeleteCmd())
	return cmd
}

func newSecretSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name>",
		Short: "Store a secret in the OS keychain",
		Long: `Store a secret in the OS keychain.

The value is read without echo from the terminal, or as one line from stdin
when it is not a terminal.

Examples:
  neat secret set github
  printf '%s\n' "$TOKEN" | neat secret set github`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := promptSecret("Value for " + args[0] + ": ")
			if err != nil {
				return err
			}
			if err := app.SaveSecret(args[0], val); err != nil {
				return app.Failure(err.Error())
			}
			return app.OKText(app.Styles.Success.Render("Stored " + args[0]))
		},
	}
}

func newSecretDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a secret from the OS keychain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.DeleteSecret(args[0]); err != nil {
				return app.Failure(err.Error())
			}
			return app.OKText(app.Styles.Success.Render("Deleted " + args[0]))
		},
	}
}

// promptSecret reads a secret without echo when stdin is a terminal, and a
// single line otherwise.
func promptSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	var (
		val string
		err error
	)
	if term.IsTerminal(fd) {
		os.Stderr.WriteString(prompt)
		var b []byte
		b, err = term.ReadPassword(fd)
		os.Stderr.WriteString("\n")
		val = string(b)
	} else {
		val, err = readLine(os.Stdin)
	}
	if err != nil {
		return "", app.Failure("reading secret: " + err.Error())
	}
	val = strings.TrimSpace(val)
	if val == "" {
		return "", app.UsageExit("empty value")
	}
	return val, nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return line, nil
}
