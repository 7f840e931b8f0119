package database

import (
	"path/filepath"
	"testing"

	"quickclose-report/internal/config"
	"quickclose-report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewDatabase_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "report.db")

	db, err := NewDatabase(config.Database{Driver: "sqlite", DSN: dsn}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	for _, table := range []interface{}{&models.Trade{}, &models.Account{}, &models.Customer{}, &models.Country{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}

	require.NoError(t, Close(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping(), "handle should be closed")
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(config.Database{Driver: "oracle", DSN: "x"}, zap.NewNop())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
