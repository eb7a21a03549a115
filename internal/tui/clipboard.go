package tui

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrNoClipboard is returned on systems without a clipboard utility.
var ErrNoClipboard = errors.New("no system clipboard available (install xclip, xsel or wl-clipboard)")

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// WriteText replaces the clipboard contents.
func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrNoClipboard
	}
	return clipboard.WriteAll(text)
}
