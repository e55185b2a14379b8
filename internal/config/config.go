package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendFile = "file"
	BackendEtcd = "etcd"
)

// AppConfig holds application-specific configuration.
type AppConfig struct {
	Force bool `mapstructure:"force"`
}

// LoggingConfig holds the logging-related configuration.
type LoggingConfig struct {
	Level string `mapstructure:"log_level"`
}

// SourceConfig describes where the hosts document is fetched from.
type SourceConfig struct {
	URL          string        `mapstructure:"url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// EtcdConfig holds etcd-related configuration for the etcd marker backend.
type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	Key         string        `mapstructure:"key"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// MarkerConfig selects where the last seen update time is kept.
type MarkerConfig struct {
	Backend string     `mapstructure:"backend"`
	Path    string     `mapstructure:"path"`
	Etcd    EtcdConfig `mapstructure:"etcd"`
}

type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// MetricsConfig enables the Prometheus textfile export when TextfilePath is set.
type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"`
}

// Config is the top-level configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Logging LoggingConfig `mapstructure:"log"`
	Source  SourceConfig  `mapstructure:"source"`
	Marker  MarkerConfig  `mapstructure:"marker"`
	Output  OutputConfig  `mapstructure:"output"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("app.force", false)
	viper.SetDefault("log.log_level", "INFO")
	viper.SetDefault("source.url", "https://raw.githubusercontent.com/521xueweihan/GitHub520/main/hosts")
	viper.SetDefault("source.timeout", 30*time.Second)
	viper.SetDefault("source.user_agent", "github-host-sync/1.0")
	viper.SetDefault("source.max_body_bytes", int64(8<<20))
	viper.SetDefault("marker.backend", BackendFile)
	viper.SetDefault("marker.path", "last_update_time.txt")
	viper.SetDefault("marker.etcd.endpoints", []string{"localhost:2379"})
	viper.SetDefault("marker.etcd.key", "/github-host-sync/last_update_time")
	viper.SetDefault("marker.etcd.dial_timeout", 2*time.Second)
	viper.SetDefault("output.path", "GitHubHost.plugin")
	viper.SetDefault("metrics.textfile_path", "")
}

// InitConfig performs the initial configuration: setting defaults, specifying the config file, and reading it.
// An empty configFile looks for config.yaml in the current directory.
func InitConfig(configFile string) error {
	SetDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config") // Looks for config.yaml
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	// Read the config file if available.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// If the file is not found, just continue with defaults and env vars.
	}

	// Enable automatic environment variable binding, e.g. GHS_SOURCE_URL.
	viper.SetEnvPrefix("ghs")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	return nil
}

// Load unmarshals the configuration into the Config struct.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects configurations the run cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Source.URL) == "" {
		errs = append(errs, errors.New("source.url must not be empty"))
	}
	if c.Source.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("source.timeout must be positive, got %s", c.Source.Timeout))
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		errs = append(errs, errors.New("output.path must not be empty"))
	}
	switch c.Marker.Backend {
	case BackendFile:
		if strings.TrimSpace(c.Marker.Path) == "" {
			errs = append(errs, errors.New("marker.path must not be empty"))
		}
	case BackendEtcd:
		if len(c.Marker.Etcd.Endpoints) == 0 {
			errs = append(errs, errors.New("marker.etcd.endpoints must not be empty"))
		}
		if c.Marker.Etcd.Key == "" {
			errs = append(errs, errors.New("marker.etcd.key must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown marker.backend %q", c.Marker.Backend))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
