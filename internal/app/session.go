package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSession is returned when no session file can be located.
var ErrNoSession = errors.New("no neat session found (run `neat init` first)")

// FindSessionPath resolves the session file. Priority: explicit flag value,
// $NEAT_SESSION, then the nearest .neat/session.json walking up from dir.
func FindSessionPath(flagValue, dir string) (string, error) {
	if flagValue != "" {
		return filepath.Abs(flagValue)
	}
	if env := os.Getenv(EnvSession); env != "" {
		return filepath.Abs(env)
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, EnvDir, SessionFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoSession
		}
		dir = parent
	}
}

// DefaultSessionPath returns the session path created by `neat init` in dir.
func DefaultSessionPath(dir string) string {
	return filepath.Join(dir, EnvDir, SessionFile)
}

// BindingsPathForSession returns the bindings file that sits next to a session file.
func BindingsPathForSession(sessionPath string) string {
	return filepath.Join(filepath.Dir(sessionPath), BindingsFile)
}

// EnsureEnvDir creates the directory that will hold path.
func EnsureEnvDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	return nil
}
