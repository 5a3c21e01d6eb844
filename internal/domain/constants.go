package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultCommandTimeout bounds each diagnostic command execution
	DefaultCommandTimeout = 5 * time.Second
	// DefaultBackendTimeout bounds a single reasoning backend call
	DefaultBackendTimeout = 30 * time.Second
	// DefaultTelemetryTimeout bounds the system-facts snapshot collection
	DefaultTelemetryTimeout = 3 * time.Second
)

// Limit constants
const (
	// TraceExcerptLines is how many output lines a trace keeps per command
	TraceExcerptLines = 8
	// InterpreterOutputLines caps how much stdout a parser considers
	InterpreterOutputLines = 200
	// DefaultHistoryLimit is the default number of trace records to display
	DefaultHistoryLimit = 20
	// DefaultHistoryRetainDays is the default trace retention window
	DefaultHistoryRetainDays = 30
)
