// Package cli parses the command line and wires commands to the task store.
package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ltask/internal/config"
	"ltask/internal/kv"
	"ltask/internal/persist"
	"ltask/internal/service"
	"ltask/internal/store"
)

// OpenStore opens the configured key-value backend, loads the task slot
// and returns the store with a closer for the backend.
func OpenStore(ctx context.Context, cfg *config.Config) (service.Service, func() error, error) {
	backend := cfg.StorageBackend()
	path := cfg.StoragePath()

	db, err := kv.Open(backend, path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", backend, err)
	}

	log := cfg.Log()
	log.Debug("storage opened", zap.String("backend", backend), zap.String("path", path))

	slot := persist.NewSlot(db, cfg.Settings.Storage.Slot, log.Named("persist"))
	s := store.New(slot, store.WithLogger(log.Named("store")))
	return s, db.Close, nil
}
