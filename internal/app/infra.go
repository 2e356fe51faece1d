package app

import (
	"context"
	"database/sql"

	"verify-service/internal/config"
	"verify-service/internal/db"
	"verify-service/internal/logger"
	"verify-service/internal/redis"

	_ "github.com/lib/pq"
)

// Infra holds the optional backing services. A nil field means the
// corresponding concern falls back to its in-process stand-in.
type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	if cfg.DatabaseDSN != "" {
		sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}

		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, err
		}

		if err := db.RunAuditMigration(ctx, sqlDB); err != nil {
			return nil, err
		}

		infra.DB = &db.DB{DB: sqlDB}
		logger.Info("database ready", nil)
	} else {
		logger.Warn("no database configured, audit trail disabled", nil)
	}

	if cfg.RedisAddr != "" {
		redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}

		infra.Redis = redisClient
		logger.Info("redis ready", nil)
	} else {
		logger.Warn("no redis configured, sessions are process-local", nil)
	}

	return infra, nil
}

func (i *Infra) Close() error {
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			return err
		}
	}
	if i.DB != nil {
		return i.DB.Close()
	}
	return nil
}
