package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

const (
	DefaultEndpoint = "http://localhost:5000/search"
	DefaultLogLevel = "info"

	EnvPrefix = "PFIND_"
)

type Config struct {
	Endpoint    string   `json:"endpoint"`
	HealthURL   string   `json:"health_url,omitempty"`
	CatalogPath string   `json:"catalog_path,omitempty"`
	Timeout     Duration `json:"timeout,omitempty"`
	LogLevel    string   `json:"log_level,omitempty"`

	path string
}

// Duration is a time.Duration stored as a string such as "30s".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pfind"), nil
}

func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func DBPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pfind.db"), nil
}

func LogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pfind.log"), nil
}

// Load reads the config file at path, or at DefaultPath when path is empty.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := defaultConfig()
		cfg.path = path
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.path = path
	cfg.ApplyDefaults()

	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// LoadEnvFiles loads .env style files into the process environment. Missing
// files are skipped and variables that are already set win.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	return nil
}

// ApplyEnv overrides fields from PFIND_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvPrefix + "ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvPrefix + "HEALTH_URL"); v != "" {
		c.HealthURL = v
	}
	if v := os.Getenv(EnvPrefix + "CATALOG"); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT: %w", EnvPrefix, err)
		}
		c.Timeout = Duration(d)
	}
	return nil
}

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validateHTTPURL("endpoint", c.Endpoint); err != nil {
		result = multierror.Append(result, err)
	}

	if c.HealthURL != "" {
		if err := validateHTTPURL("health_url", c.HealthURL); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if c.Timeout < 0 {
		result = multierror.Append(result, fmt.Errorf("timeout must not be negative"))
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		result = multierror.Append(result, fmt.Errorf("unknown log level %q", c.LogLevel))
	}

	return result.ErrorOrNil()
}

func validateHTTPURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, raw)
	}

	if u.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", name, raw)
	}

	return nil
}

func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout)
}

func (c *Config) Path() string {
	return c.path
}

func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}

	c.path = path
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Endpoint: DefaultEndpoint,
		LogLevel: DefaultLogLevel,
	}
}
