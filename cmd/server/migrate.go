package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soaringjerry/wellcheck/internal/api"
	"github.com/soaringjerry/wellcheck/internal/config"
	dbstore "github.com/soaringjerry/wellcheck/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import a memory-store snapshot into a new SQLite database",
	Long: `Copies users, screening sessions and audit entries from storage.snapshot_path
into storage.path. Nothing happens when the SQLite file already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		driver := cfg.Storage.Driver
		if driver == config.DriverMemory {
			driver = config.DriverSQLite
		}
		return MigrateIfNeeded(logger, driver, cfg.Storage.SnapshotPath, cfg.Storage.Path, cfg.Storage.MigrationsDir)
	},
}

// MigrateIfNeeded seeds a SQLite database from the legacy JSON snapshot on
// first run. An existing database or a missing snapshot is a no-op.
func MigrateIfNeeded(logger *zap.Logger, driver, snapshotPath, sqlitePath, migrationsDir string) error {
	if sqlitePath == "" {
		return errors.New("sqlite path is required")
	}
	if _, err := os.Stat(sqlitePath); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("check sqlite file: %w", err)
	}

	legacyStore, err := api.NewMemoryStoreFromPath(snapshotPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load legacy snapshot: %w", err)
	}
	snapshot := api.MemoryStoreSnapshot(legacyStore)
	if snapshot == nil {
		return nil
	}

	logger.Info("first run detected, importing legacy snapshot",
		zap.String("snapshot", snapshotPath), zap.String("sqlite", sqlitePath))

	if err := importSnapshot(logger, driver, sqlitePath, migrationsDir, snapshot); err != nil {
		removeSQLiteFiles(logger, sqlitePath)
		return err
	}
	logger.Info("data migration completed",
		zap.Int("users", len(snapshot.Users)), zap.Int("sessions", len(snapshot.Sessions)))
	return nil
}

// importSnapshot creates the database at sqlitePath and copies snap into it.
func importSnapshot(logger *zap.Logger, driver, sqlitePath, migrationsDir string, snap *api.LegacySnapshot) error {
	sqliteDB, err := dbstore.Open(driver, sqlitePath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sqliteDB.Close(); cerr != nil {
			logger.Warn("failed to close sqlite db", zap.Error(cerr))
		}
	}()
	if err := dbstore.RunMigrations(sqliteDB, migrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	dst, err := dbstore.NewSQLiteStore(sqliteDB, logger)
	if err != nil {
		return fmt.Errorf("init sqlite store: %w", err)
	}
	if err := copySnapshotToStore(snap, dst); err != nil {
		return fmt.Errorf("copy data: %w", err)
	}
	return nil
}

// removeSQLiteFiles deletes a partially imported database so the next start
// retries the import instead of treating the file as complete.
func removeSQLiteFiles(logger *zap.Logger, sqlitePath string) {
	for _, p := range []string{sqlitePath, sqlitePath + "-wal", sqlitePath + "-shm", sqlitePath + "-journal"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Error("failed to remove partial sqlite file", zap.String("path", p), zap.Error(err))
		}
	}
}

// copySnapshotToStore replays snapshot rows. Sessions arrive oldest first and
// each uses its own completion time as the cutoff, so none is rejected.
func copySnapshotToStore(snap *api.LegacySnapshot, dst api.Store) error {
	for _, u := range snap.Users {
		if u == nil {
			continue
		}
		if err := dst.AddUser(u); err != nil {
			return fmt.Errorf("user %s: %w", u.ID, err)
		}
	}
	for _, s := range snap.Sessions {
		if s == nil {
			continue
		}
		if err := dst.InsertSession(s, s.CompletedAt); err != nil {
			return fmt.Errorf("session %s: %w", s.ID, err)
		}
	}
	for _, entry := range snap.Audit {
		dst.AddAudit(entry)
	}
	return nil
}
