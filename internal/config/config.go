// Package config loads runtime configuration from the environment.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

type Database struct {
	Driver string // "postgres" or "sqlite"
	DSN    string
}

type Config struct {
	Env      string // "development" or "production"
	HTTPAddr string
	Database Database
	LogLevel string
}

// Load reads configuration from the environment, with an optional .env file
// for local development. Missing values fall back to defaults suitable for a
// local sqlite-backed run.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("MOVECREW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "development")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:movecrew.db")
	v.SetDefault("log_level", "info")

	cfg := &Config{
		Env:      v.GetString("env"),
		HTTPAddr: v.GetString("http_addr"),
		Database: Database{
			Driver: v.GetString("database.driver"),
			DSN:    v.GetString("database.dsn"),
		},
		LogLevel: v.GetString("log_level"),
	}
	return cfg, nil
}

var Module = fx.Module("config",
	fx.Provide(Load),
)
