// Package dbtest 给上层包的测试提供内存SQLite库
package dbtest

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database"
)

// ErrInjected 回调注入的错误
var ErrInjected = errors.New("dbtest: injected failure")

// New 打开一个独立的内存库并完成迁移，测试结束自动关闭
func New(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:      "sqlite",
		SQLitePath:  ":memory:",
		AutoMigrate: true,
	}, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// FailReadAfterUpdate table上的UPDATE成功后，下一次对该表的查询返回ErrInjected
// 模拟写入已落库、回读时连接出错。返回值记录注入次数
func FailReadAfterUpdate(t testing.TB, db *gorm.DB, table string) *atomic.Int32 {
	t.Helper()
	var armed atomic.Bool
	injected := new(atomic.Int32)

	err := db.Callback().Update().After("gorm:update").Register("dbtest:arm_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table && tx.Error == nil && tx.RowsAffected > 0 {
			armed.Store(true)
		}
	})
	require.NoError(t, err)
	err = db.Callback().Query().Before("gorm:query").Register("dbtest:fail_read_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table && armed.CompareAndSwap(true, false) {
			injected.Add(1)
			_ = tx.AddError(ErrInjected)
		}
	})
	require.NoError(t, err)
	return injected
}
