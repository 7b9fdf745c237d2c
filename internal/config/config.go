package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config carries everything the API binary needs at startup. Values come
// from the environment, with an optional config.yaml alongside the binary.
type Config struct {
	Addr              string
	DatabaseURL       string
	RedisAddr         string
	JWTSecret         string
	TokenTTL          time.Duration
	LabelPrinterURL   string
	UrgentHorizonDays int
}

func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":8080")
	v.SetDefault("token_ttl", "8h")
	v.SetDefault("label_printer_url", "http://localhost:9100")
	v.SetDefault("urgent_horizon_days", 7)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := Config{
		Addr:              v.GetString("addr"),
		DatabaseURL:       v.GetString("database_url"),
		RedisAddr:         v.GetString("redis_addr"),
		JWTSecret:         v.GetString("jwt_secret"),
		TokenTTL:          v.GetDuration("token_ttl"),
		LabelPrinterURL:   v.GetString("label_printer_url"),
		UrgentHorizonDays: v.GetInt("urgent_horizon_days"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
