// Package mysql 负责建立 MySQL 连接并迁移表结构
// 数据访问接口见 repository 子包
package mysql

import (
	"fmt"
	"time"

	"playmate_server/internal/config"
	"playmate_server/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init 建立数据库连接并执行 AutoMigrate
// 执行步骤：
//  1. 构建 DSN（统一使用 UTC 时区）
//  2. 打开 GORM 连接，开启 TranslateError 以识别唯一键冲突
//  3. 配置连接池
//  4. 自动迁移表结构
func Init(conf *config.MysqlConfig, mode string) (*gorm.DB, error) {
	// 格式：user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		conf.User,
		conf.Password,
		conf.Host,
		conf.Port,
		conf.DatabaseName,
	)

	logLevel := logger.Warn
	if mode == "dev" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysqldriver.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err = AutoMigrate(db); err != nil {
		return nil, err
	}

	zap.L().Info("mysql connected", zap.String("host", conf.Host), zap.String("db", conf.DatabaseName))
	return db, nil
}

// AutoMigrate 自动迁移全部模型
// 不存在则建表，字段变更则更新结构，不会删除已有字段或数据
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
