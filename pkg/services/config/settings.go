package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerSettings struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StoreSettings struct {
	Path string `mapstructure:"path"`
}

type FetchSettings struct {
	Source      string        `mapstructure:"source"` // http or store
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
}

type ArchiveSettings struct {
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

// SyncSettings controls the background copy of remote history into the local store.
type SyncSettings struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Period   string        `mapstructure:"period"`
}

type Settings struct {
	Server          ServerSettings  `mapstructure:"server"`
	Store           StoreSettings   `mapstructure:"store"`
	Fetch           FetchSettings   `mapstructure:"fetch"`
	Archive         ArchiveSettings `mapstructure:"archive"`
	Sync            SyncSettings    `mapstructure:"sync"`
	DepartmentsPath string          `mapstructure:"departments_path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("store.path", "queue-atlas.db")
	v.SetDefault("fetch.source", "http")
	v.SetDefault("fetch.timeout", 10*time.Second)
	v.SetDefault("fetch.concurrency", 4)
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.prefix", "reports")
	v.SetDefault("archive.region", "")
	v.SetDefault("archive.profile", "")
	v.SetDefault("sync.enabled", false)
	v.SetDefault("sync.interval", time.Hour)
	v.SetDefault("sync.period", "month")
	v.SetDefault("departments_path", "departments.ini")
}

// LoadSettings reads the optional config file at path, then ATLAS_* environment
// overrides, e.g. ATLAS_SERVER_PORT or ATLAS_ARCHIVE_BUCKET.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("atlas")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if settings.Sync.Interval <= 0 {
		settings.Sync.Interval = time.Hour
	}
	if settings.Fetch.Concurrency < 1 {
		settings.Fetch.Concurrency = 1
	}
	return &settings, nil
}
