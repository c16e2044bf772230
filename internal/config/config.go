package config

import (
	"time"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Status   StatusConfig   `mapstructure:"status"`
	Sweeper  SweeperConfig  `mapstructure:"sweeper"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type StatusConfig struct {
	// DelayedSyncThreshold is the window after the last sync activity
	// during which a completed sync still counts as recent.
	DelayedSyncThreshold string `mapstructure:"delayed_sync_threshold"`
	BatchWorkers         int    `mapstructure:"batch_workers"`
}

func (s StatusConfig) GetDelayedSyncThreshold() time.Duration {
	d, _ := time.ParseDuration(s.DelayedSyncThreshold)
	return d
}

type SweeperConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Interval string `mapstructure:"interval"`
	// InactiveAfter is how long a transfer session may sit without
	// activity before the sweeper marks it inactive.
	InactiveAfter string `mapstructure:"inactive_after"`
}

func (s SweeperConfig) GetInactiveAfter() time.Duration {
	d, _ := time.ParseDuration(s.InactiveAfter)
	return d
}

type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	Host         string   `mapstructure:"host"`
	AuthToken    string   `mapstructure:"auth_token"`
	ReadTimeout  string   `mapstructure:"read_timeout"`
	WriteTimeout string   `mapstructure:"write_timeout"`
	CorsOrigins  []string `mapstructure:"cors_origins"`
}

func (s ServerConfig) GetReadTimeout() time.Duration {
	d, _ := time.ParseDuration(s.ReadTimeout)
	return d
}

func (s ServerConfig) GetWriteTimeout() time.Duration {
	d, _ := time.ParseDuration(s.WriteTimeout)
	return d
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
