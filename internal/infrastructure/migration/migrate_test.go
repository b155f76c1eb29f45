package migration

import (
	"path/filepath"
	"testing"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMigrator_EmbeddedSQLiteRoundTrip(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "shop.db"),
	}

	m, err := New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, m.Up())
	version, dirty, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// a second run is a no-op
	require.NoError(t, m.Up())

	require.NoError(t, m.Down())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
}

func TestNew_RejectsInMemorySQLite(t *testing.T) {
	_, err := New(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}
