package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DefaultEventsAPIURL is the events endpoint used when none is configured.
const DefaultEventsAPIURL = "https://caaaddd67da845d73791.free.beeceptor.com/api/calendar/events/"

// Config holds the widget server settings.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	BaseURL    string `yaml:"base_url"`

	EventsAPI struct {
		URL     string        `yaml:"url"`
		Token   string        `yaml:"token"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"events_api"`

	// RefreshCron reloads the event store on a schedule when set.
	RefreshCron string `yaml:"refresh_cron"`

	BasicAuth struct {
		Username     string `yaml:"username"`
		PasswordHash string `yaml:"password_hash"`
	} `yaml:"basic_auth"`

	Categories        []string `yaml:"categories"`
	PrometheusEnabled bool     `yaml:"prometheus_enabled"`
	TrustedProxies    []string `yaml:"trusted_proxies"`
}

// Load reads the optional YAML file named by APP_CONFIG_FILE, then applies
// environment overrides and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if path := os.Getenv("APP_CONFIG_FILE"); path != "" {
		if err := readFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ListenAddr = getenvDefault("APP_LISTEN_ADDR", orDefault(cfg.ListenAddr, ":8080"))
	cfg.BaseURL = getenvDefault("APP_BASE_URL", orDefault(cfg.BaseURL, "http://localhost:8080"))
	cfg.EventsAPI.URL = getenvDefault("APP_EVENTS_API_URL", orDefault(cfg.EventsAPI.URL, DefaultEventsAPIURL))
	cfg.EventsAPI.Token = getenvDefault("APP_EVENTS_API_TOKEN", cfg.EventsAPI.Token)
	cfg.RefreshCron = getenvDefault("APP_REFRESH_CRON", cfg.RefreshCron)
	cfg.BasicAuth.Username = getenvDefault("APP_BASIC_AUTH_USER", cfg.BasicAuth.Username)
	cfg.BasicAuth.PasswordHash = getenvDefault("APP_BASIC_AUTH_PASSWORD_HASH", cfg.BasicAuth.PasswordHash)
	cfg.PrometheusEnabled = getenvBool("APP_PROMETHEUS_ENDPOINT_ENABLED", cfg.PrometheusEnabled)
	if proxies := getenvList("APP_TRUSTED_PROXIES"); proxies != nil {
		cfg.TrustedProxies = proxies
	}
	if cats := getenvList("APP_CATEGORIES"); cats != nil {
		cfg.Categories = cats
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = []string{"Work", "Personal", "Other"}
	}

	timeout, err := getenvDuration("APP_EVENTS_API_TIMEOUT", cfg.EventsAPI.Timeout)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cfg.EventsAPI.Timeout = timeout

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.EventsAPI.URL, "http://") && !strings.HasPrefix(c.EventsAPI.URL, "https://") {
		return fmt.Errorf("APP_EVENTS_API_URL must be an http(s) URL (got %q)", c.EventsAPI.URL)
	}
	if c.RefreshCron != "" {
		if _, err := cron.ParseStandard(c.RefreshCron); err != nil {
			return fmt.Errorf("APP_REFRESH_CRON is invalid: %w", err)
		}
	}
	if (c.BasicAuth.Username == "") != (c.BasicAuth.PasswordHash == "") {
		return errors.New("APP_BASIC_AUTH_USER and APP_BASIC_AUTH_PASSWORD_HASH must be set together")
	}
	if c.BasicAuth.PasswordHash != "" && !strings.HasPrefix(c.BasicAuth.PasswordHash, "$2") {
		return errors.New("APP_BASIC_AUTH_PASSWORD_HASH must be a bcrypt hash")
	}
	return nil
}

// BasicAuthEnabled reports whether the widget requires HTTP basic auth.
func (c *Config) BasicAuthEnabled() bool {
	return c.BasicAuth.Username != "" && c.BasicAuth.PasswordHash != ""
}

// APIServerConfig holds the settings of the reference events API.
type APIServerConfig struct {
	ListenAddr string
	DB         struct {
		DSN string
	}
	SQLitePath        string
	PrometheusEnabled bool
	TrustedProxies    []string
}

// LoadAPIServer reads the reference events API settings. A PostgreSQL DSN
// selects the pgx backend; otherwise events are kept in a SQLite file.
func LoadAPIServer() (*APIServerConfig, error) {
	cfg := &APIServerConfig{}
	cfg.ListenAddr = getenvDefault("APP_LISTEN_ADDR", ":8081")
	cfg.DB.DSN = os.Getenv("APP_DB_DSN")

	if cfg.DB.DSN == "" {
		host := os.Getenv("APP_DB_HOST")
		name := os.Getenv("APP_DB_NAME")
		user := os.Getenv("APP_DB_USER")
		password := os.Getenv("APP_DB_PASSWORD")
		port := getenvDefault("APP_DB_PORT", "5432")
		sslmode := getenvDefault("APP_DB_SSLMODE", "disable")

		var missing []string
		if host == "" {
			missing = append(missing, "APP_DB_HOST")
		}
		if name == "" {
			missing = append(missing, "APP_DB_NAME")
		}
		if user == "" {
			missing = append(missing, "APP_DB_USER")
		}
		if password == "" {
			missing = append(missing, "APP_DB_PASSWORD")
		}

		switch {
		case len(missing) == 0:
			cfg.DB.DSN = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, password, host, port, name, sslmode)
		case len(missing) < 4:
			return nil, fmt.Errorf("incomplete database configuration, missing %s", strings.Join(missing, ", "))
		}
	}

	cfg.SQLitePath = getenvDefault("APP_SQLITE_PATH", "eventsapi.db")
	cfg.PrometheusEnabled = getenvBool("APP_PROMETHEUS_ENDPOINT_ENABLED", false)
	cfg.TrustedProxies = getenvList("APP_TRUSTED_PROXIES")
	return cfg, nil
}

// UsePostgres reports whether the reference API should use PostgreSQL.
func (c *APIServerConfig) UsePostgres() bool {
	return c.DB.DSN != ""
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s is invalid: %w", key, err)
	}
	return d, nil
}

func getenvList(key string) []string {
	if v := os.Getenv(key); v != "" {
		var result []string
		for _, item := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return nil
}
