// Package conf loads and holds engine configuration.
package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings is the full engine configuration tree.
type Settings struct {
	Log      LogSettings      `mapstructure:"log"`
	Database DatabaseSettings `mapstructure:"database"`
	HTTP     HTTPSettings     `mapstructure:"http"`
	Monitor  MonitorSettings  `mapstructure:"monitor"`
	Channels ChannelSettings  `mapstructure:"channels"`
	History  HistorySettings  `mapstructure:"history"`
}

// LogSettings controls structured logging.
type LogSettings struct {
	Level string `mapstructure:"level"`
}

// DatabaseSettings selects the persistence backend.
type DatabaseSettings struct {
	Driver string `mapstructure:"driver"` // sqlite or mysql
	DSN    string `mapstructure:"dsn"`
}

// HTTPSettings controls the management API listener.
type HTTPSettings struct {
	Bind string `mapstructure:"bind"`
}

// MonitorSettings controls the tick loop.
type MonitorSettings struct {
	TickInterval   Duration `mapstructure:"tick_interval"`
	GlobalCooldown Duration `mapstructure:"global_cooldown"`
	CacheTTL       Duration `mapstructure:"cache_ttl"`
	SeedDefaults   bool     `mapstructure:"seed_defaults"`
}

// ChannelSettings holds the global per-channel switches, transport URLs and
// fallback templates. Per-rule action templates override the defaults.
type ChannelSettings struct {
	EmailEnabled  bool   `mapstructure:"email_enabled"`
	TeamsEnabled  bool   `mapstructure:"teams_enabled"`
	BannerEnabled bool   `mapstructure:"banner_enabled"`
	EmailURL      string `mapstructure:"email_url"` // shoutrrr smtp URL, no recipients
	TeamsURL      string `mapstructure:"teams_url"` // shoutrrr teams URL template

	DefaultEmailSubject string `mapstructure:"default_email_subject"`
	DefaultTemplate     string `mapstructure:"default_template"`
}

// HistorySettings controls the audit trail store.
type HistorySettings struct {
	AutoProvision bool `mapstructure:"auto_provision"`
	RetentionDays int  `mapstructure:"retention_days"`
	MaxQueryItems int  `mapstructure:"max_query_items"`
}

// Load reads configuration from the given file (optional) plus environment
// variables prefixed HYPERALERT_, applying defaults for anything unset.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("HYPERALERT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings, viper.DecodeHook(DurationDecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &settings, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "hyperalert.db")
	v.SetDefault("http.bind", ":8585")
	v.SetDefault("monitor.tick_interval", time.Minute)
	v.SetDefault("monitor.global_cooldown", 0*time.Minute)
	v.SetDefault("monitor.cache_ttl", 30*time.Second)
	v.SetDefault("monitor.seed_defaults", true)
	v.SetDefault("channels.email_enabled", false)
	v.SetDefault("channels.teams_enabled", false)
	v.SetDefault("channels.banner_enabled", true)
	v.SetDefault("channels.default_email_subject", "")
	v.SetDefault("channels.default_template", "")
	v.SetDefault("history.auto_provision", true)
	v.SetDefault("history.retention_days", 90)
	v.SetDefault("history.max_query_items", 200)
}
