package badgerdb

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/planloop/content-planner/pkg/config"
	"github.com/planloop/content-planner/pkg/logger"
	"go.uber.org/fx"
)

// Opts holds dependencies for opening the local Badger database.
type Opts struct {
	fx.In
	LC     fx.Lifecycle
	Logger logger.Logger
	Config *config.Config
}

// New opens the local key-value database used for blob entries and guest
// collections, and manages its lifecycle.
func New(opts Opts) (*badger.DB, error) {
	bopts := badger.DefaultOptions(opts.Config.Blob.Path)
	bopts.Logger = nil
	// Media blobs must survive a crash.
	bopts.SyncWrites = true

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			opts.Logger.Info("Opened local database", "path", opts.Config.Blob.Path)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	return db, nil
}
