package config

import (
	"os"
	"strconv"
)

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:      "localhost:6379",
		KeyPrefix: "grain:weather:",
	}
}

// GetRedisConfig applies the REDIS_* environment variables on top of base
func GetRedisConfig(base RedisConfig) RedisConfig {
	cfg := base
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsed, err := strconv.Atoi(dbStr); err == nil {
			cfg.DB = parsed
		}
	}

	cfg.Addr = getEnv("REDIS_ADDR", cfg.Addr)
	cfg.Password = getEnv("REDIS_PASSWORD", cfg.Password)
	cfg.KeyPrefix = getEnv("REDIS_KEY_PREFIX", cfg.KeyPrefix)
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
