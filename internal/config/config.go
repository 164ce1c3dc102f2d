package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config.yaml"

// Config holds all runtime settings. It is built once at startup and passed
// by value; nothing mutates it afterwards.
type Config struct {
	Server struct {
		Host          string `yaml:"host"`
		Port          string `yaml:"port"`
		Prefork       bool   `yaml:"prefork"`
		EnableMonitor bool   `yaml:"enable_monitor"`
	} `yaml:"server"`

	CORS struct {
		AllowOrigins     []string `yaml:"allow_origins"`
		AllowCredentials bool     `yaml:"allow_credentials"`
		AllowMethods     string   `yaml:"allow_methods"`
		AllowHeaders     string   `yaml:"allow_headers"`
	} `yaml:"cors"`

	Document struct {
		Route        string `yaml:"route"`
		Path         string `yaml:"path"`
		DownloadName string `yaml:"download_name"`
		Disposition  string `yaml:"disposition"`
	} `yaml:"document"`

	Status struct {
		Message string `yaml:"message"`
	} `yaml:"status"`

	Logger struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logger"`

	RateLimiter struct {
		Interval  time.Duration `yaml:"interval"`
		UserLimit int           `yaml:"user_limit"`
	} `yaml:"rate_limiter"`

	Cache struct {
		RedisHost   string `yaml:"redis_host"`
		RateLimitDB int    `yaml:"redis_rate_db"`
	} `yaml:"cache"`
}

// Default returns the settings the server runs with when no config file is present.
func Default() Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = ":8000"

	cfg.CORS.AllowOrigins = []string{"http://localhost:3000"}
	cfg.CORS.AllowCredentials = true
	cfg.CORS.AllowMethods = "*"
	cfg.CORS.AllowHeaders = "*"

	cfg.Document.Route = "/get-pdf"
	cfg.Document.Path = "data/sample.pdf"
	cfg.Document.DownloadName = "MySample.pdf"
	cfg.Document.Disposition = "attachment"

	cfg.Status.Message = "PDF Viewer Backend is running!"

	cfg.Logger.Level = "info"
	cfg.Logger.MaxSizeMB = 10
	cfg.Logger.MaxBackups = 3
	cfg.Logger.MaxAgeDays = 28

	cfg.RateLimiter.Interval = time.Minute
	return cfg
}

// Load reads the file named by CONFIG_PATH, or config.yaml in the working
// directory. A missing config.yaml is not an error; the defaults apply.
// DOCUMENT_PATH, when set, replaces document.path.
func Load() Config {
	var cfg Config
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); errors.Is(err, os.ErrNotExist) {
			cfg = Default()
		} else {
			path = defaultConfigPath
		}
	}
	if path != "" {
		cfg = LoadFrom(path)
	}

	if v := os.Getenv("DOCUMENT_PATH"); v != "" {
		cfg.Document.Path = v
	}
	mustValidate(cfg)
	return cfg
}

// LoadFrom overlays the YAML file at path on top of Default and validates the
// result. It panics on unreadable files and invalid values.
func LoadFrom(path string) Config {
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("config: read %s: %v", path, err))
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		panic(fmt.Sprintf("config: parse %s: %v", path, err))
	}

	mustValidate(cfg)
	return cfg
}

func mustValidate(cfg Config) {
	if err := cfg.Validate(); err != nil {
		panic("config: " + err.Error())
	}
}

// Validate reports the first setting that would make the server misbehave.
func (c Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port must not be empty")
	}
	if len(c.CORS.AllowOrigins) == 0 {
		return errors.New("cors.allow_origins must list at least one origin")
	}
	for _, o := range c.CORS.AllowOrigins {
		o = strings.TrimSpace(o)
		if o == "" {
			return errors.New("cors.allow_origins contains an empty entry")
		}
		if o == "*" && c.CORS.AllowCredentials {
			return errors.New("cors.allow_origins cannot be '*' when allow_credentials is set")
		}
		if strings.Contains(o, ",") {
			return fmt.Errorf("cors origin %q must not contain a comma", o)
		}
	}
	if !strings.HasPrefix(c.Document.Route, "/") {
		return fmt.Errorf("document.route %q must start with '/'", c.Document.Route)
	}
	if c.Document.Route == "/" {
		return errors.New("document.route must differ from the status route '/'")
	}
	if c.Document.Path == "" {
		return errors.New("document.path must not be empty")
	}
	if c.Document.DownloadName == "" || strings.ContainsAny(c.Document.DownloadName, "\"/\\\r\n") {
		return fmt.Errorf("document.download_name %q is not a valid filename", c.Document.DownloadName)
	}
	switch c.Document.Disposition {
	case "attachment", "inline":
	default:
		return fmt.Errorf("document.disposition must be 'attachment' or 'inline', got %q", c.Document.Disposition)
	}
	if c.RateLimiter.UserLimit < 0 {
		return errors.New("rate_limiter.user_limit must not be negative")
	}
	if c.RateLimiter.UserLimit > 0 && c.RateLimiter.Interval <= 0 {
		return errors.New("rate_limiter.interval must be positive when user_limit is set")
	}
	return nil
}

// Addr is the listen address passed to fiber, e.g. "0.0.0.0:8000".
func (c Config) Addr() string {
	if strings.HasPrefix(c.Server.Port, ":") {
		return c.Server.Host + c.Server.Port
	}
	return c.Server.Host + ":" + c.Server.Port
}
