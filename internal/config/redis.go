package config

import (
	"os"
	"sync"
)

// RedisConfig is optional: without REDIS_ADDR rate limits are kept in memory
// per process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

var (
	redisConfig *RedisConfig
	redisOnce   sync.Once
)

func LoadRedisConfig() *RedisConfig {
	redisOnce.Do(func() {
		redisConfig = &RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		}
	})
	return redisConfig
}

func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}
