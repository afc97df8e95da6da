package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Backend names accepted by Open
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendTurso    = "turso"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Options selects and configures a store backend
type Options struct {
	Backend     string
	Path        string
	TursoURL    string
	TursoToken  string
	DatabaseURL string
}

// Open builds the store named by opts.Backend
func Open(ctx context.Context, opts Options, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("cache")

	var (
		store Store
		err   error
	)
	switch opts.Backend {
	case "", BackendFile:
		store, err = NewFileStore(opts.Path, logger)
	case BackendSQLite:
		store, err = OpenSQLite(opts.Path)
	case BackendTurso:
		store, err = OpenTurso(opts.TursoURL, opts.TursoToken)
	case BackendPostgres:
		store, err = OpenPostgres(ctx, opts.DatabaseURL)
	case BackendMemory:
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Cache store opened", zap.String("backend", opts.Backend), zap.String("path", opts.Path))
	return store, nil
}
