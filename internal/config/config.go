package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port      string
	DBPath    string
	PostStore string // "sqlite" or "memory"

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTLSec   int

	BackupDir string

	UnsafeCookies bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func Load() *Config {
	return &Config{
		Port:      getenv("PORT", "8080"),
		DBPath:    getenv("DB_PATH", "workbench.db"),
		PostStore: getenv("POST_STORE", "sqlite"),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvi("REDIS_DB", 0),
		CacheTTLSec:   getenvi("CACHE_TTL_SECONDS", 300),

		BackupDir: getenv("BACKUP_DIR", "backups"),
	}
}
