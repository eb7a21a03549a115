package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// defaultBindings is written by `neat init` when no bindings file exists.
const defaultBindings = `version: 1.0.0
bindings: []
# - name: format
#   key: ctrl+alt+f
#   description: Format the current file
#   script: ./scripts/format.sh
#   when: 'file != ""'
`

// InitResult reports what `neat init` created.
type InitResult struct {
	SessionPath   string `json:"sessionPath"`
	WorkspacePath string `json:"workspacePath"`
	BindingsPath  string `json:"bindingsPath"`
	// BindingsCreated is false when an existing bindings file was kept.
	BindingsCreated bool `json:"bindingsCreated"`
}

// Render returns a human-friendly summary.
func (r InitResult) Render() string {
	s := Styles
	var sb strings.Builder
	sb.WriteString(s.Success.Render("Initialized " + r.SessionPath))
	sb.WriteString("\n\n  ")
	sb.WriteString(s.Dim.Render("Workspace: "))
	sb.WriteString(s.Key.Render(r.WorkspacePath))
	sb.WriteString("\n  ")
	sb.WriteString(s.Dim.Render("Bindings:  "))
	sb.WriteString(s.Key.Render(r.BindingsPath))
	if !r.BindingsCreated {
		sb.WriteString(s.Dim.Render(" (kept)"))
	}
	return sb.String()
}

// PrepareInit creates dir/.neat and a starter bindings file. It fails if a
// session already exists there. The caller writes the session itself.
func PrepareInit(dir string) (InitResult, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return InitResult{}, err
	}
	if info, err := os.Stat(root); err != nil {
		return InitResult{}, err
	} else if !info.IsDir() {
		return InitResult{}, fmt.Errorf("%s is not a directory", root)
	}

	res := InitResult{
		SessionPath:   DefaultSessionPath(root),
		WorkspacePath: root,
	}
	res.BindingsPath = BindingsPathForSession(res.SessionPath)

	if _, err := os.Stat(res.SessionPath); err == nil {
		return InitResult{}, ExitResult{Code: 1, Message: res.SessionPath + " already exists", ToStderr: true}
	}
	if err := EnsureEnvDir(res.SessionPath); err != nil {
		return InitResult{}, err
	}

	if _, err := os.Stat(res.BindingsPath); os.IsNotExist(err) {
		if err := AtomicWriteFile(res.BindingsPath, []byte(defaultBindings), FilePerm); err != nil {
			return InitResult{}, err
		}
		res.BindingsCreated = true
	}
	return res, nil
}
