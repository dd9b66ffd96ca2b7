// Package mysqltest 为测试提供内存 SQLite 数据库
// 表结构与 MySQL 一致，通过同一套 AutoMigrate 创建
package mysqltest

import (
	"fmt"
	"testing"
	"time"

	"playmate_server/internal/dao/mysql"
	"playmate_server/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 每次调用返回一个独立的内存库，测试结束自动关闭
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库只存在于连接内，限制为单连接避免事务互相看不到数据
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, mysql.AutoMigrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// SeedUsers 按 uuid 写入最简用户资料，用户名和邮箱由 uuid 派生
func SeedUsers(t testing.TB, db *gorm.DB, uuids ...string) {
	t.Helper()
	for _, id := range uuids {
		require.NoError(t, db.Create(&model.UserInfo{
			Uuid:      id,
			Username:  id,
			Email:     id + "@playmate.test",
			FirstName: id,
			LastName:  "Test",
			Skills:    "passing",
			Positions: "midfielder",
			Password:  "-",
		}).Error)
	}
}
