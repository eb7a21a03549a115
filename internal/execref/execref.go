// Package execref turns a script reference into an argv.
//
// A reference is a command line such as `./scripts/fmt.sh --fast` or
// `exec:python3 tools/pick.py`. It is lexed shell-style (quotes and escapes
// are honored) but never passed to a shell.
package execref

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// ErrEmpty is returned for a reference with no command.
var ErrEmpty = errors.New("empty script reference")

// IsExec reports whether raw uses the exec: scheme.
func IsExec(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), "exec:")
}

// Parse extracts argv from a script reference, with or without the exec: prefix.
func Parse(raw string) ([]string, error) {
	rest := strings.TrimSpace(raw)
	if IsExec(rest) {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "exec:"))
	}
	if rest == "" {
		return nil, ErrEmpty
	}
	args, err := shlex.Split(rest)
	if err != nil {
		return nil, fmt.Errorf("invalid script reference %q: %w", raw, err)
	}
	if len(args) == 0 {
		return nil, ErrEmpty
	}
	return args, nil
}

// Command splits a reference into the executable and its leading arguments,
// then appends extra.
func Command(raw string, extra ...string) (string, []string, error) {
	argv, err := Parse(raw)
	if err != nil {
		return "", nil, err
	}
	args := append(argv[1:len(argv):len(argv)], extra...)
	return argv[0], args, nil
}
