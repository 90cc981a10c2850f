package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(config.DatabaseConfig{
		Driver:      "sqlite",
		SQLitePath:  ":memory:",
		AutoMigrate: true,
	}, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}
