package backend

import (
	"context"
	"fmt"

	"artha/internal/adapters"
	"artha/internal/log"
	"artha/internal/storage"
	"artha/internal/store"
	"artha/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentStorage),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *BackendResult
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		res = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.LogCalls {
		res.Store = adapters.NewLoggingStore(res.Store, f.logger)
	}
	return res, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	rows, err := repo.Count(ctx)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("failed to read SQLite store: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath, "expenses", rows)

	return &BackendResult{
		Store:   repo,
		Cleanup: repo.Close,
		Ping:    repo.Ping,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) *BackendResult {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	st := memory.NewFromFiles(dataDir)

	f.logger.Info("Initialized memory backend", "data_directory", dataDir)

	return &BackendResult{
		Store: st,
		Ping:  func(context.Context) error { return nil },
	}
}

var (
	_ store.Store = (*storage.SQLiteRepository)(nil)
	_ store.Store = (*memory.Store)(nil)
)
