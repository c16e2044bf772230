package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("SYNCSTATUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("status.delayed_sync_threshold", "15m")
	v.SetDefault("status.batch_workers", 4)
	v.SetDefault("sweeper.enabled", false)
	v.SetDefault("sweeper.interval", "@every 10m")
	v.SetDefault("sweeper.inactive_after", "1h")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Status.GetDelayedSyncThreshold() <= 0 {
		return nil, fmt.Errorf("status.delayed_sync_threshold must be a positive duration, got %q", cfg.Status.DelayedSyncThreshold)
	}
	if cfg.Status.BatchWorkers <= 0 {
		cfg.Status.BatchWorkers = 1
	}

	return &cfg, nil
}
