// Package main is the entry point for the neat CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/neatscripts/neat/internal/app"
	"github.com/neatscripts/neat/internal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx)
	stop()
	os.Exit(code)
}

// run executes the command tree and maps its result to an exit code.
func run(ctx context.Context) int {
	err := cmd.NewRoot().ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var er app.ExitResult
	if errors.As(err, &er) {
		if er.Message != "" {
			out := os.Stdout
			if er.ToStderr {
				out = os.Stderr
			}
			fmt.Fprintln(out, er.Message)
		}
		return er.Code
	}
	fmt.Fprintln(os.Stderr, app.Styles.Error.Render("Error:"), err)
	return 1
}
