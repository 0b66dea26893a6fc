package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/helmcode/inr-assistant/pkg/config"
	"github.com/helmcode/inr-assistant/pkg/platform"
)

// Open builds the backend selected by STORE_BACKEND.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (Store, error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		log.Debug("using in-memory store")
		return NewMemory(), nil

	case config.StoreSQLite:
		log.Debug("opening sqlite store", zap.String("path", cfg.Store.SQLitePath))
		return NewSQLite(cfg.Store.SQLitePath)

	case config.StoreFirestore:
		app, err := platform.NewApp(ctx, cfg.Firebase)
		if err != nil {
			return nil, err
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, storageErr(OpOpen, "firestore", cfg.Firebase.ProjectID, err)
		}
		log.Debug("connected to firestore", zap.String("project", cfg.Firebase.ProjectID))
		return NewFirestore(client), nil
	}

	return nil, &config.ConfigurationError{
		Field:  config.KeyStoreBackend,
		Reason: fmt.Sprintf("unsupported backend %q", cfg.Store.Backend),
	}
}
