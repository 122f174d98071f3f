package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type Config struct {
	Postgres    PostgresConfig
	Redis       RedisConfig
	WS          WSConfig
	HTTP        HTTPConfig
	Auth        AuthConfig
	Feed        FeedConfig
	StorageType string
	CacheType   string
	LogLevel    string
}

type PostgresConfig struct {
	User     string
	Password string
	DB       string
	Host     string
	Port     int
	SSLMode  string
}

func (pc PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.User,
		pc.Password,
		pc.Host,
		pc.Port,
		pc.DB,
		pc.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type HTTPConfig struct {
	Port string
}

type WSConfig struct {
	KeepAliveSeconds int
}

type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type FeedConfig struct {
	PostsPerPage  int
	HomeCacheTTL  time.Duration
	HomeCacheSize int
}

// LoadEnvFile seeds the environment from a .env file if there is one.
// Variables already set win over the file.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadConfig reads the environment. It panics on a missing required
// variable or a malformed number.
func LoadConfig() Config {
	storageType := getEnv("STORAGE_TYPE", StorageMemory)
	cacheType := getEnv("CACHE_TYPE", CacheMemory)

	cfg := Config{
		StorageType: storageType,
		CacheType:   cacheType,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Port: mustGetEnv("HTTP_PORT"),
		},
		WS: WSConfig{
			KeepAliveSeconds: getInt("WS_KEEPALIVE_SECONDS", 30),
		},
		Auth: AuthConfig{
			Secret:   mustGetEnv("AUTH_SECRET"),
			TokenTTL: time.Duration(getInt("AUTH_TOKEN_TTL_HOURS", 24)) * time.Hour,
		},
		Feed: FeedConfig{
			PostsPerPage:  getInt("POSTS_PER_PAGE", 10),
			HomeCacheTTL:  time.Duration(getInt("HOME_CACHE_TTL_SECONDS", 20)) * time.Second,
			HomeCacheSize: getInt("HOME_CACHE_SIZE", 1024),
		},
	}

	// A zero window would mean pages that never expire.
	if cfg.Feed.HomeCacheTTL <= 0 {
		cfg.CacheType = CacheNone
	}

	if storageType == StoragePostgres {
		cfg.Postgres = PostgresConfig{
			User:     mustGetEnv("POSTGRES_USER"),
			Password: mustGetEnv("POSTGRES_PASSWORD"),
			DB:       mustGetEnv("POSTGRES_DB"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getInt("POSTGRES_PORT", 5432),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		}
	}

	if cfg.CacheType == CacheRedis {
		cfg.Redis = RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		}
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("missing required env var: " + key)
	}
	return val
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		panic("invalid int for env var " + key + ": " + val)
	}
	return i
}
