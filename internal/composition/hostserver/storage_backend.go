package hostserver

import (
	"fmt"
	"path/filepath"
	"strings"

	"counter-contract/go-backend/internal/bootstrap/hostconfig"
	"counter-contract/go-backend/internal/storage"
)

const (
	snapshotFileName = "state.enc"
	sqliteFileName   = "state.db"
)

// BuildBackend opens the configured state backend. Relative or empty paths
// resolve inside dataDir.
func BuildBackend(cfg hostconfig.HostConfig, dataDir string) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case hostconfig.StorageMemory, "":
		return storage.NewMemoryStore(), nil
	case hostconfig.StorageSnapshot:
		secret, err := StorageSecret(dataDir, cfg.Storage.Secret)
		if err != nil {
			return nil, fmt.Errorf("resolve storage secret: %w", err)
		}
		store := storage.NewSnapshotStore()
		store.Configure(resolvePath(dataDir, cfg.Storage.Path, snapshotFileName), secret, cfg.ChainID)
		if err := store.Bootstrap(); err != nil {
			return nil, fmt.Errorf("bootstrap snapshot store: %w", err)
		}
		return store, nil
	case hostconfig.StorageSQLite:
		return storage.OpenSQLiteStore(resolvePath(dataDir, cfg.Storage.Path, sqliteFileName))
	default:
		return nil, hostconfig.ErrInvalidStorageBackend
	}
}

func resolvePath(dataDir, configured, fallback string) string {
	configured = strings.TrimSpace(configured)
	if configured == "" {
		return filepath.Join(dataDir, fallback)
	}
	if filepath.IsAbs(configured) || dataDir == "" {
		return configured
	}
	return filepath.Join(dataDir, configured)
}
