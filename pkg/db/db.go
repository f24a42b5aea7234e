package db

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/thesrcielos/CodeClash/internal/config"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Init(cfg config.DatabaseConfig, development bool) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := gormlogger.Warn
	if development {
		logLevel = gormlogger.Info
	}
	database, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql handle: %w", err)
	}
	if cfg.Type == "sqlite" {
		// sqlite has a single writer; one connection keeps transactions serialized
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return database, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case "postgres", "":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name,
		)
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.Path + "?_foreign_keys=on&_busy_timeout=5000"), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
	}
}

// InitRedis returns nil when no address is configured; callers fall back to
// their no-op implementations.
func InitRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	var tlsConfig *tls.Config
	if cfg.TLS {
		tlsConfig = &tls.Config{}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Username:  cfg.Username,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConfig,
	})

	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	log.Info("redis connected", zap.String("addr", cfg.Addr), zap.String("pong", pong))
	return rdb, nil
}
