package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soaringjerry/wellcheck/internal/config"
	"github.com/soaringjerry/wellcheck/internal/services"
)

func TestAddCounselorPersists(t *testing.T) {
	cases := map[string]func(*config.Config, string){
		"memory snapshot": func(c *config.Config, dir string) { c.Storage.SnapshotPath = filepath.Join(dir, "snap.json") },
		"sqlite": func(c *config.Config, dir string) {
			c.Storage.Driver = config.DriverSQLite
			c.Storage.Path = filepath.Join(dir, "wellcheck.db")
		},
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			setup(cfg, t.TempDir())

			id, err := addCounselor(cfg, zap.NewNop(), "Lead@Example.edu", "pw-123456")
			require.NoError(t, err)
			assert.NotEmpty(t, id)

			_, err = addCounselor(cfg, zap.NewNop(), "lead@example.edu", "other")
			se, ok := services.AsServiceError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, services.ErrorConflict, se.Code)

			store, closeStore, err := openStore(cfg, zap.NewNop())
			require.NoError(t, err)
			defer closeStore()
			u, err := store.FindUserByEmail("lead@example.edu")
			require.NoError(t, err)
			require.NotNil(t, u)
			assert.Equal(t, id, u.ID)
			assert.Equal(t, "counselor", u.Role)
		})
	}
}

func TestAddCounselorNeedsDurableStore(t *testing.T) {
	_, err := addCounselor(config.DefaultConfig(), zap.NewNop(), "lead@example.edu", "pw")
	assert.Error(t, err)
}
