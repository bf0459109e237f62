package db

import (
	"context"
	"time"

	"judgewatch/service/etc"

	"github.com/go-redis/redis/v9"
	log "github.com/sirupsen/logrus"
)

// RDB caches translations and finished results.
var RDB *redis.Client

// NewRedis connects to redis and checks the connection.
func NewRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// SetupRedis connects RDB from the configuration. A failed connection is
// logged and leaves RDB nil, caching is then disabled.
func SetupRedis() {
	conf := etc.Config.Database.Redis
	rdb, err := NewRedis(context.Background(), conf.Host, conf.Password, conf.DB)
	if err != nil {
		log.WithError(err).WithField("host", conf.Host).Warn("Redis connection failed, caching disabled")
		return
	}
	RDB = rdb
	log.Info("Redis connected")
}
