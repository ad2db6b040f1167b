// Package config loads the service configuration from an optional YAML file,
// an optional .env file and the process environment, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TUGBOAT_"

// Config is the complete service configuration.
type Config struct {
	Tugboat TugboatConfig `yaml:"tugboat" envPrefix:"API_"`
	Preview PreviewConfig `yaml:"preview" envPrefix:"PREVIEW_"`
	Server  ServerConfig  `yaml:"server" envPrefix:"SERVER_"`
	Log     LogConfig     `yaml:"log" envPrefix:"LOG_"`
	Page    PageConfig    `yaml:"page" envPrefix:"PAGE_"`
	Theme   ThemeConfig   `yaml:"theme" envPrefix:"THEME_"`
}

// TugboatConfig configures the API client.
type TugboatConfig struct {
	BaseURL string        `yaml:"baseURL" env:"BASE_URL"`
	Token   string        `yaml:"token" env:"TOKEN"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// PreviewConfig configures the preview service.
type PreviewConfig struct {
	Repo      string        `yaml:"repo" env:"REPO"`
	BaseRef   string        `yaml:"baseRef" env:"BASE_REF"`
	DeleteAge time.Duration `yaml:"deleteAge" env:"DELETE_AGE"`
	Endpoint  string        `yaml:"endpoint" env:"ENDPOINT"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR"`
	ReadTimeout     time.Duration `yaml:"readTimeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"SHUTDOWN_TIMEOUT"`
	// CSRFKey signs form token cookies. A random key is used when empty.
	CSRFKey       string `yaml:"csrfKey" env:"CSRF_KEY"`
	SecureCookies bool   `yaml:"secureCookies" env:"SECURE_COOKIES"`
}

// LogConfig configures logrus output.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
	// File enables a rotating log file in addition to stderr.
	File       string `yaml:"file" env:"FILE"`
	MaxSizeMB  int    `yaml:"maxSizeMB" env:"MAX_SIZE_MB"`
	MaxBackups int    `yaml:"maxBackups" env:"MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"maxAgeDays" env:"MAX_AGE_DAYS"`
}

// PageConfig customises the create page.
type PageConfig struct {
	Caption    string `yaml:"caption" env:"CAPTION"`
	Stylesheet string `yaml:"stylesheet" env:"STYLESHEET"`
	Debug      bool   `yaml:"debug" env:"DEBUG"`
}

// ThemeConfig selects a theme and its token overrides.
type ThemeConfig struct {
	Name    string            `yaml:"name" env:"NAME"`
	Variant string            `yaml:"variant" env:"VARIANT"`
	Tokens  map[string]string `yaml:"tokens" env:"TOKENS"`
}

// Default returns the configuration used before any source is applied.
func Default() Config {
	return Config{
		Tugboat: TugboatConfig{
			BaseURL: "https://api.tugboat.qa/v3",
			Timeout: 30 * time.Second,
		},
		Preview: PreviewConfig{
			BaseRef: "main",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Theme: ThemeConfig{
			Name:    "default",
			Variant: "light",
		},
	}
}

// LoadOption configures Load.
type LoadOption func(*loader)

type loader struct {
	environ  map[string]string
	dotenv   []string
	explicit bool
}

// WithEnvironment replaces the process environment, mainly for tests.
func WithEnvironment(vars map[string]string) LoadOption {
	return func(l *loader) {
		l.environ = vars
	}
}

// WithDotEnv reads variables from the given .env files. Missing files are
// ignored. Variables already present in the environment win.
func WithDotEnv(files ...string) LoadOption {
	return func(l *loader) {
		l.dotenv = append(l.dotenv, files...)
		l.explicit = true
	}
}

// Load builds the configuration. path names an optional YAML file; an empty
// path skips it. Without WithDotEnv, a ".env" file in the working directory is
// read when present.
func Load(path string, opts ...LoadOption) (Config, error) {
	l := &loader{}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if l.environ == nil {
		l.environ = environMap(os.Environ())
	}
	if !l.explicit {
		l.dotenv = []string{".env"}
	}

	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	vars, err := mergeDotEnv(l.environ, l.dotenv)
	if err != nil {
		return Config{}, err
	}
	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: vars,
	}); err != nil {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}

	cfg.normalise()
	return cfg, nil
}

func mergeDotEnv(environ map[string]string, files []string) (map[string]string, error) {
	merged := make(map[string]string, len(environ))
	for key, value := range environ {
		merged[key] = value
	}
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}
		values, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
		for key, value := range values {
			if _, ok := merged[key]; !ok {
				merged[key] = value
			}
		}
	}
	return merged, nil
}

func environMap(pairs []string) map[string]string {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if ok {
			out[key] = value
		}
	}
	return out
}

func (c *Config) normalise() {
	c.Tugboat.BaseURL = strings.TrimSpace(c.Tugboat.BaseURL)
	c.Tugboat.Token = strings.TrimSpace(c.Tugboat.Token)
	c.Preview.Repo = strings.TrimSpace(c.Preview.Repo)
	c.Preview.BaseRef = strings.TrimSpace(c.Preview.BaseRef)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Tugboat.Token == "" {
		errs = append(errs, errors.New("config: tugboat token is required"))
	}
	if c.Preview.Repo == "" {
		errs = append(errs, errors.New("config: preview repo is required"))
	}
	if c.Preview.DeleteAge < 0 {
		errs = append(errs, fmt.Errorf("config: preview delete age must not be negative, got %s", c.Preview.DeleteAge))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("config: log level: %w", err))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: log format %q must be text or json", c.Log.Format))
	}
	return errors.Join(errs...)
}
