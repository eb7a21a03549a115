package tui

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/neatscripts/neat/internal/app"
	"github.com/neatscripts/neat/internal/host"
)

// ErrNotInteractive is returned when a prompt is needed but there is no
// terminal to show it on.
var ErrNotInteractive = errors.New("quick-pick needs an interactive terminal")

// Picker shows quick-pick lists with huh. The zero value prompts on the
// process's stdin and stdout.
type Picker struct {
	In  *os.File
	Out *os.File

	// Accessible switches huh to its line-based mode for screen readers.
	Accessible bool
}

func (p Picker) files() (in, out *os.File) {
	in, out = p.In, p.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return in, out
}

// Pick shows req and returns the chosen items. Aborting the prompt
// (esc, ctrl+c) returns no items and no error.
func (p Picker) Pick(ctx context.Context, req host.PickRequest) ([]host.PickItem, error) {
	if len(req.Items) == 0 {
		return nil, nil
	}
	in, out := p.files()
	if !term.IsTerminal(int(in.Fd())) {
		return nil, ErrNotInteractive
	}

	var (
		one   int
		many  []int
		field huh.Field
	)
	options := pickOptions(req.Items)
	if req.Multiple {
		field = huh.NewMultiSelect[int]().
			Title(req.Title).
			Options(options...).
			Value(&many)
	} else {
		field = huh.NewSelect[int]().
			Title(req.Title).
			Options(options...).
			Value(&one)
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(in).
		WithOutput(out).
		WithAccessible(p.Accessible)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, err
	}

	if !req.Multiple {
		many = []int{one}
	}
	return chosenItems(req.Items, many), nil
}

// pickOptions keys each option by its index so duplicate labels stay
// distinguishable.
func pickOptions(items []host.PickItem) []huh.Option[int] {
	options := make([]huh.Option[int], len(items))
	for i, item := range items {
		key := item.Label
		if item.Description != "" {
			key += "  " + app.Styles.Dim.Render(item.Description)
		}
		options[i] = huh.NewOption(key, i)
	}
	return options
}

// chosenItems maps selected indexes back to items in list order.
func chosenItems(items []host.PickItem, indexes []int) []host.PickItem {
	picked := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		picked[i] = true
	}
	var out []host.PickItem
	for i, item := range items {
		if picked[i] {
			out = append(out, item)
		}
	}
	return out
}
