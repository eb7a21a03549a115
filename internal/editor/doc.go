// Package editor models the headless editor state a script runs against:
// workspace folders, open documents with in-memory buffers, and the active
// editor with its selections.
//
// Points are 0-based. Character offsets count Unicode code points within a
// line. A Session is not safe for concurrent use; each CLI invocation owns
// the one it loaded.
package editor
