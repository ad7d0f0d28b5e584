package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
}

type AppConfig struct {
	AppName       string
	Environment   string
	HTTPPort      string
	LogLevel      string
	MigrationsDir string
	RunSeeders    bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optBool := func(key string) bool {
		v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
		return err == nil && v
	}
	optInt32 := func(key string) int32 {
		v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
		if err != nil || v <= 0 {
			return 0
		}
		return int32(v)
	}
	optSeconds := func(key string) time.Duration {
		v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
		if err != nil || v <= 0 {
			return 0
		}
		return time.Duration(v) * time.Second
	}

	cfg.App = AppConfig{
		AppName:       req("APP_NAME"),
		Environment:   req("APP_ENV"),
		HTTPPort:      req("HTTP_PORT"),
		LogLevel:      opt("LOG_LEVEL"),
		MigrationsDir: opt("MIGRATIONS_DIR"),
		RunSeeders:    optBool("RUN_SEEDERS"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        optSeconds("DB_CONNECT_TIMEOUT_SECONDS"),
		PoolMaxConns:          optInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          optInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   optSeconds("DB_POOL_MAX_CONN_LIFETIME_SECONDS"),
		PoolMaxConnIdleTime:   optSeconds("DB_POOL_MAX_CONN_IDLE_SECONDS"),
		PoolHealthCheckPeriod: optSeconds("DB_POOL_HEALTHCHECK_SECONDS"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}
