// Package app - constants.go centralizes magic strings and configuration values.
package app

// Directory and file names for the neat session.
const (
	// EnvDir is the project-local directory holding session and bindings.
	EnvDir = ".neat"

	// SessionFile holds the headless editor state.
	SessionFile = "session.json"

	// BindingsFile declares named script bindings.
	BindingsFile = "bindings.yaml"

	// KeychainService is the service name used in the OS keychain.
	KeychainService = "neat-scripts"

	// Version of the neat CLI.
	Version = "0.4.0"
)

// Environment variables.
const (
	EnvSession  = "NEAT_SESSION"
	EnvLogLevel = "NEAT_LOG_LEVEL"
)

// File permissions.
const (
	// DirPerm is the permission mode for directories.
	DirPerm = 0o755

	// FilePerm is the permission mode for regular files.
	FilePerm = 0o644
)

// Script protocols.
const (
	// ProtocolLines reads one command descriptor per stdout line while the script runs.
	ProtocolLines = "lines"

	// ProtocolBatch parses the whole stdout as a JSON array after the script exits.
	ProtocolBatch = "batch"
)
