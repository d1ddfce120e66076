package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const DefaultConfigPath = "config.yaml"

// reservedPaths are served by the api and cannot host metrics.
var reservedPaths = []string{"/", "/predict"}

func isReservedPath(path string) bool {
	trimmed := strings.TrimRight(path, "/")
	for _, reserved := range reservedPaths {
		if path == reserved || trimmed == strings.TrimRight(reserved, "/") {
			return true
		}
	}
	return false
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Log       LogConfig       `yaml:"log"`
	History   HistoryConfig   `yaml:"history"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	Debug          bool          `yaml:"debug"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type ArtifactsConfig struct {
	ModelPath  string `yaml:"model_path"`
	ScalerPath string `yaml:"scaler_path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File enables rotation through lumberjack; empty logs to stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// HistoryConfig controls the sqlite prediction history. An empty Path
// disables it.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

func New() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8000,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Artifacts: ArtifactsConfig{
			ModelPath:  "model.json",
			ScalerPath: "scaler.json",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 10,
			MaxAgeDays: 7,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads path over the defaults. A missing file at the default path is
// not an error; a missing file the caller asked for explicitly is.
func Load(path string, required bool) (*Config, error) {
	cfg := New()
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "open config %s", path)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		result = multierror.Append(result, errors.New("server.read_timeout must not be negative"))
	}
	if c.Server.WriteTimeout < 0 {
		result = multierror.Append(result, errors.New("server.write_timeout must not be negative"))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		result = multierror.Append(result, errors.New("server.allowed_origins needs at least one origin"))
	}
	for _, origin := range c.Server.AllowedOrigins {
		if origin == "*" {
			result = multierror.Append(result, errors.New("server.allowed_origins: \"*\" cannot be combined with credentials"))
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			result = multierror.Append(result, fmt.Errorf("server.allowed_origins: %q must start with http:// or https://", origin))
		}
	}
	if c.Artifacts.ModelPath == "" {
		result = multierror.Append(result, errors.New("artifacts.model_path is required"))
	}
	if c.Artifacts.ScalerPath == "" {
		result = multierror.Append(result, errors.New("artifacts.scaler_path is required"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		result = multierror.Append(result, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if c.Metrics.Enabled {
		switch {
		case !strings.HasPrefix(c.Metrics.Path, "/"):
			result = multierror.Append(result, fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path))
		case isReservedPath(c.Metrics.Path):
			result = multierror.Append(result, fmt.Errorf("metrics.path %q collides with an api route", c.Metrics.Path))
		}
	}

	return result.ErrorOrNil()
}
