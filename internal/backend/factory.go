package backend

import (
	"fmt"
	"log/slog"

	"fintrack/internal/config"
	"fintrack/internal/storage"
)

// Factory creates backends based on configuration.
type Factory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory.
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateBackend builds the backend selected by cfg. It is called exactly once
// per process, at startup.
func (f *Factory) CreateBackend(cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Backend: repo, Cleanup: repo.Close}, nil
	default:
		f.logger.Info("Initialized memory backend")
		return &Result{Backend: NewMemoryStore(), Cleanup: nil}, nil
	}
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:         backendType,
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}, nil
}
