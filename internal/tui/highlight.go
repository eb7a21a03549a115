package tui

import (
	"bytes"
	"path/filepath"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// chromaStyle is the color scheme for syntax highlighting.
// Using "dracula" for good contrast on dark terminals.
var chromaStyle = styles.Get("dracula")

// chromaFormatter outputs 256-color ANSI codes for terminal display.
var chromaFormatter = formatters.Get("terminal256")

var plainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))

func init() {
	if chromaStyle == nil {
		chromaStyle = styles.Fallback
	}
	if chromaFormatter == nil {
		chromaFormatter = formatters.Fallback
	}
}

// lexerFor picks a lexer from the file name, then from the content.
// It returns nil when neither is recognized.
func lexerFor(path, text string) chroma.Lexer {
	if lexer := lexers.Match(filepath.Base(path)); lexer != nil {
		return lexer
	}
	return lexers.Analyse(text)
}

// highlightSource applies syntax highlighting to a document's text.
// Unknown languages and highlighter failures fall back to plain text.
func highlightSource(path, text string) string {
	if text == "" {
		return text
	}
	lexer := lexerFor(path, text)
	if lexer == nil {
		return plainStyle.Render(text)
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return plainStyle.Render(text)
	}
	var buf bytes.Buffer
	if err := chromaFormatter.Format(&buf, chromaStyle, iterator); err != nil {
		return plainStyle.Render(text)
	}
	return buf.String()
}
