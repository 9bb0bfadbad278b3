package backend

import (
	"context"

	"artha/internal/store"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// PingFunc reports whether the backend can serve requests.
type PingFunc func(ctx context.Context) error

// BackendResult contains the store instance and its lifecycle hooks.
type BackendResult struct {
	Store   store.Store
	Cleanup CleanupFunc
	Ping    PingFunc
}

// Close runs Cleanup when set.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates stores based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Memory backend seed directory
	DataDirectory string

	// Wrap the store so every call is logged.
	LogCalls bool
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
