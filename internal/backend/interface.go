package backend

import (
	"context"

	"zakat/internal/amqp"
	"zakat/internal/archive"
	"zakat/internal/storage"
)

// CleanupFunc releases the resources held by a backend
type CleanupFunc func() error

// BackendResult is a ready store plus the optional event notifier.
type BackendResult struct {
	Store storage.SnapshotStore
	// Notifier is nil when ledger events are disabled.
	Notifier archive.Notifier
	// Events is the AMQP client behind Notifier, nil when disabled.
	Events  *amqp.Client
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// File specific
	DataDirectory string

	// Ledger events, optional for every backend
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	FileBackend   BackendType = "file"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, FileBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
