package backend

import (
	"context"
	"fmt"

	"fintrack/internal/categories"
	"fintrack/internal/log"
	"fintrack/internal/store/memory"
	"fintrack/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := sqlite.Open(ctx, config.SQLiteDBPath, config.Now, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Transactions: repo,
		Categories:   repo,
		Ready:        repo.Ping,
		Cleanup:      repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	var persistence categories.Persistence = categories.NewMemoryStore()
	if config.CategoriesFile != "" {
		persistence = categories.NewFileStore(config.CategoriesFile)
	}

	f.logger.Info("Initialized memory backend",
		"data_directory", dataDir,
		"categories_file", config.CategoriesFile)

	return &BackendResult{
		Transactions: memory.NewFromDir(dataDir, config.Now),
		Categories:   persistence,
		Ready:        func(context.Context) error { return nil },
	}, nil
}
