// Package backend selects and constructs the ledger store implementation.
package backend

import (
	"fmt"
	"log/slog"

	"pacer/internal/ledger"
	"pacer/internal/ledger/memory"
	"pacer/internal/storage"
)

// Type names a ledger backend implementation.
type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

func (t Type) String() string { return string(t) }

// IsValid reports whether the backend type is known.
func (t Type) IsValid() bool {
	return t == Memory || t == SQLite
}

// CleanupFunc releases a backend's resources.
type CleanupFunc func() error

// Config holds what backend construction needs.
type Config struct {
	Type         Type
	SQLiteDBPath string
}

// Result is a constructed store plus its optional cleanup.
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Open constructs the configured backend.
func Open(cfg Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Type {
	case SQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	case Memory:
		logger.Info("Initialized memory backend")
		return &Result{Store: memory.New(), Cleanup: nil}, nil

	default:
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}
}
