package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	API     APIConfig     `yaml:"api"`
	UI      UIConfig      `yaml:"ui"`
	Metrics MetricsConfig `yaml:"metrics"`
	DevAPI  DevAPIConfig  `yaml:"devapi"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port            int           `yaml:"port"`
	Host            string        `yaml:"host"`
	BaseURL         string        `yaml:"base_url"` // Optional: public URL, used in startup logs
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxRequestBytes int64         `yaml:"max_request_bytes"`
}

// APIConfig points at the authentication backend
type APIConfig struct {
	BaseURL        string        `yaml:"base_url"`        // API_BASE; /api/login and /api/register live under it
	RequestTimeout time.Duration `yaml:"request_timeout"` // 0 means no timeout
}

// UIConfig contains settings for the credential form
type UIConfig struct {
	RedirectDelay time.Duration `yaml:"redirect_delay"` // pause between login success and /welcome
	MaxViews      int           `yaml:"max_views"`      // open form views kept in memory
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DevAPIConfig contains settings for the development API stub
type DevAPIConfig struct {
	Port       int    `yaml:"port"`
	Host       string `yaml:"host"`
	DBPath     string `yaml:"db_path"`
	BcryptCost int    `yaml:"bcrypt_cost"`
}

// Default returns the configuration used for any field the file leaves unset
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            3000,
			Host:            "localhost",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestBytes: 64 * 1024,
		},
		API: APIConfig{
			BaseURL: "http://localhost:5000",
		},
		UI: UIConfig{
			RedirectDelay: time.Second,
			MaxViews:      10000,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		DevAPI: DevAPIConfig{
			Port:       5000,
			Host:       "localhost",
			DBPath:     "./data/devapi.db",
			BcryptCost: 10,
		},
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes configuration from YAML, on top of the defaults
func Parse(data []byte) (*Config, error) {
	// Expand environment variables in the config
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables if set
	if apiBase := os.Getenv("API_BASE_URL"); apiBase != "" {
		cfg.API.BaseURL = apiBase
	}
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		cfg.Server.BaseURL = baseURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks that all required configuration fields are set
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.MaxRequestBytes < 1 {
		return fmt.Errorf("server.max_request_bytes must be at least 1")
	}

	// API validation
	if c.API.BaseURL == "" || strings.Contains(c.API.BaseURL, "${") {
		return fmt.Errorf("api.base_url is required (set API_BASE_URL environment variable)")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL")
	}
	if c.API.RequestTimeout < 0 {
		return fmt.Errorf("api.request_timeout must not be negative")
	}

	// UI validation
	if c.UI.RedirectDelay < 0 {
		return fmt.Errorf("ui.redirect_delay must not be negative")
	}
	if c.UI.MaxViews < 1 {
		return fmt.Errorf("ui.max_views must be at least 1")
	}

	// Metrics validation
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /")
	}

	return nil
}

// ValidateDevAPI checks the settings only the development API stub needs
func (c *Config) ValidateDevAPI() error {
	if c.DevAPI.Port <= 0 || c.DevAPI.Port > 65535 {
		return fmt.Errorf("devapi.port must be between 1 and 65535")
	}
	if c.DevAPI.DBPath == "" {
		return fmt.Errorf("devapi.db_path is required")
	}
	if c.DevAPI.BcryptCost < 4 || c.DevAPI.BcryptCost > 31 {
		return fmt.Errorf("devapi.bcrypt_cost must be between 4 and 31")
	}
	return nil
}

// GetAddr returns the full server address (host:port)
func (c *Config) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDevAPIAddr returns the development API stub address (host:port)
func (c *Config) GetDevAPIAddr() string {
	return fmt.Sprintf("%s:%d", c.DevAPI.Host, c.DevAPI.Port)
}

// GetBaseURL returns the public URL of the UI
// Uses base_url if set, otherwise constructs from host:port
func (c *Config) GetBaseURL() string {
	if c.Server.BaseURL != "" {
		return c.Server.BaseURL
	}
	return fmt.Sprintf("http://%s", c.GetAddr())
}
