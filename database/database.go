package database

import (
	"fmt"
	"time"

	"budget/config"
	"budget/models"
	"budget/store"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DriverMemory 使用内存存储，不连接数据库
const DriverMemory = "memory"

var DB *gorm.DB

// Init 初始化 MySQL 连接
func Init(cfg *config.Config) error {
	level := logger.Warn
	if cfg.Server.Mode == "debug" {
		level = logger.Info
	}

	var err error
	DB, err = gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(level),
		// 唯一键冲突转换为 gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	maxIdle, maxOpen := cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns
	if maxIdle <= 0 {
		maxIdle = 10
	}
	if maxOpen <= 0 {
		maxOpen = 100
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("数据库连接成功")
	return nil
}

// Migrate 自动迁移表结构，(user_id, period) 唯一索引在此创建
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Budget{},
		&models.BudgetEntry{},
	); err != nil {
		return fmt.Errorf("迁移数据库失败: %w", err)
	}
	log.Info().Msg("数据库迁移完成")
	return nil
}

// Open 按配置返回存储实现：memory 使用内存存储，其余连接 MySQL 并迁移
func Open(cfg *config.Config) (store.Store, error) {
	if cfg.Database.Driver == DriverMemory {
		log.Warn().Msg("使用内存存储，重启后数据丢失")
		return store.NewMemory(), nil
	}
	if err := Init(cfg); err != nil {
		return nil, err
	}
	if err := Migrate(DB); err != nil {
		return nil, err
	}
	return store.New(DB), nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
