package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Handler runs one host command.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Registry maps command ids to handlers.
type Registry struct {
	handlers map[string]Handler
	aliases  map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		aliases:  make(map[string]string),
	}
}

// Alias makes alias dispatch to id. Aliases are not listed by IDs.
func (r *Registry) Alias(alias, id string) {
	r.aliases[alias] = id
}

// Register adds or replaces the handler for id.
func (r *Registry) Register(id string, h Handler) {
	r.handlers[id] = h
}

// IDs returns the registered command ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// UnknownCommandError is returned for ids with no handler.
type UnknownCommandError struct {
	ID          string
	Suggestions []string
}

func (e *UnknownCommandError) Error() string {
	msg := fmt.Sprintf("unknown command %q", e.ID)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(quoteAll(e.Suggestions), ", "))
	}
	return msg
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

// Execute runs the handler for id.
func (r *Registry) Execute(ctx context.Context, id string, args json.RawMessage) (any, error) {
	if target, ok := r.aliases[id]; ok {
		id = target
	}
	h, ok := r.handlers[id]
	if !ok {
		slog.Warn("unknown command", "command", id)
		return nil, &UnknownCommandError{ID: id, Suggestions: r.suggest(id)}
	}
	return h(ctx, args)
}

// suggest returns up to three registered ids that fuzzy-match id.
func (r *Registry) suggest(id string) []string {
	ids := r.IDs()
	matches := fuzzy.Find(id, ids)

	const maxSuggestions = 3
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	suggestions := make([]string, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, ids[m.Index])
	}
	return suggestions
}
