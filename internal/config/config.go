// Load envs from .env
// Load YAML config
// Override with env vars, apply defaults, validate

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "configs/config.yaml"

type Config struct {
	LogLevel string `yaml:"log_level"`
	HTTP     struct {
		Port string `yaml:"port"`
	} `yaml:"http"`

	Portal    PortalConfig   `yaml:"portal"`
	Sessions  SessionsConfig `yaml:"sessions"`
	Cache     CacheConfig    `yaml:"cache"`
	Timeouts  TimeoutsConfig `yaml:"timeouts"`
	Providers ProviderConfig `yaml:"providers"`

	DatabaseURL       string `yaml:"database_url"`
	HuggingFaceAPIKey string `yaml:"huggingface_api_key"`

	//Alerts (optional)
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`

	//Seen-listing cache for the digest job
	CachePath string `yaml:"cache_path"`
}

type PortalConfig struct {
	BaseURL       string   `yaml:"base_url"`
	LoginPath     string   `yaml:"login_path"`
	ProbePath     string   `yaml:"probe_path"`
	SelectorsPath string   `yaml:"selectors_path"`
	Headless      bool     `yaml:"headless"`
	UserAgents    []string `yaml:"user_agents"`
}

type SessionsConfig struct {
	Dir string `yaml:"dir"`
}

type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	CheckInterval time.Duration `yaml:"check_interval"`
}

type TimeoutsConfig struct {
	ApplyRequest time.Duration `yaml:"apply_request"`
	Recommend    time.Duration `yaml:"recommend"`
	Navigation   time.Duration `yaml:"navigation"`
	ManualLogin  time.Duration `yaml:"manual_login"`
}

type ProviderConfig struct {
	Enabled     []string      `yaml:"enabled"`
	RapidAPIKey string        `yaml:"rapidapi_key"`
	CallTimeout time.Duration `yaml:"call_timeout"`
	Retries     int           `yaml:"retries"`
	Backoff     time.Duration `yaml:"backoff"`
	Adzuna      struct {
		AppID   string `yaml:"app_id"`
		AppKey  string `yaml:"app_key"`
		Country string `yaml:"country"`
	} `yaml:"adzuna"`
}

// Load reads .env, the YAML file and env overrides, then fills defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg := &Config{}
	//headless unless the YAML says otherwise
	cfg.Portal.Headless = true

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		//defaults + env only
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.HTTP.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.Providers.RapidAPIKey, "RAPIDAPI_KEY")
	setString(&c.Providers.Adzuna.AppID, "ADZUNA_APP_ID")
	setString(&c.Providers.Adzuna.AppKey, "ADZUNA_APP_KEY")
	setString(&c.HuggingFaceAPIKey, "HUGGINGFACE_API_KEY")
	setString(&c.TelegramToken, "TELEGRAM_BOT_TOKEN")

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}

	if v := os.Getenv("PORTAL_HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PORTAL_HEADLESS: %w", err)
		}
		c.Portal.Headless = headless
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.HTTP.Port == "" {
		c.HTTP.Port = "8080"
	}
	if c.Portal.BaseURL == "" {
		c.Portal.BaseURL = "https://internshala.com"
	}
	c.Portal.BaseURL = strings.TrimSuffix(c.Portal.BaseURL, "/")
	if c.Portal.LoginPath == "" {
		c.Portal.LoginPath = "/login/user"
	}
	if c.Portal.ProbePath == "" {
		c.Portal.ProbePath = "/internships"
	}
	if c.Sessions.Dir == "" {
		c.Sessions.Dir = "../.cookies"
	}
	if c.CachePath == "" {
		c.CachePath = "../.cache"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Hour
	}
	if c.Cache.CheckInterval == 0 {
		c.Cache.CheckInterval = 2 * time.Minute
	}
	if c.Timeouts.ApplyRequest == 0 {
		c.Timeouts.ApplyRequest = 300 * time.Second
	}
	if c.Timeouts.Recommend == 0 {
		c.Timeouts.Recommend = 180 * time.Second
	}
	if c.Timeouts.Navigation == 0 {
		c.Timeouts.Navigation = 60 * time.Second
	}
	if c.Timeouts.ManualLogin == 0 {
		c.Timeouts.ManualLogin = 120 * time.Second
	}
	if len(c.Providers.Enabled) == 0 {
		c.Providers.Enabled = []string{"Indeed", "JSearch", "Remotive", "Adzuna", "Internshala"}
	}
	if c.Providers.CallTimeout == 0 {
		c.Providers.CallTimeout = 15 * time.Second
	}
	if c.Providers.Retries == 0 {
		c.Providers.Retries = 2
	}
	if c.Providers.Backoff == 0 {
		c.Providers.Backoff = time.Second
	}
	if c.Providers.Adzuna.Country == "" {
		c.Providers.Adzuna.Country = "in"
	}
}

// Validate reports every invalid setting in a single error.
func (c *Config) Validate() error {
	var problems []string

	if !strings.HasPrefix(c.Portal.BaseURL, "http://") && !strings.HasPrefix(c.Portal.BaseURL, "https://") {
		problems = append(problems, "portal.base_url must be an http(s) URL")
	}
	if c.Providers.Retries < 0 {
		problems = append(problems, "providers.retries must not be negative")
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		problems = append(problems, "TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// PortalURL joins a path onto the portal base URL.
func (c *Config) PortalURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.Portal.BaseURL + path
}

// AlertsEnabled reports whether Telegram credentials are present.
func (c *Config) AlertsEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
