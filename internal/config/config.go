// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values, validate

package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"go-jobinja-notifier/internal/filter"
	"go-jobinja-notifier/internal/pipeline"
	"go-jobinja-notifier/internal/reporter"
	"go-jobinja-notifier/internal/scraper"
	"go-jobinja-notifier/internal/scraper/jobinja"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath       = "configs/config.yaml"
	DefaultRunTimeout = 10 * time.Minute
	DefaultTimezone   = "Asia/Tehran"
	DefaultPort       = "8080"

	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

type Config struct {
	SearchURL      string   `yaml:"url"`
	Keywords       []string `yaml:"keywords"`
	TelegramToken  string   `yaml:"bot_token"`
	TelegramChatID string   `yaml:"user_id"`

	//Fetching
	UserAgent     string        `yaml:"user_agent"`
	FetchMode     string        `yaml:"fetch_mode"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	MaxPages      int           `yaml:"max_pages"`
	ThrottleDelay time.Duration `yaml:"throttle_delay"`
	StrictScrape  bool          `yaml:"strict_scrape"`

	//Messages
	ChunkSize int           `yaml:"chunk_size"`
	SendDelay time.Duration `yaml:"send_delay"`
	Calendar  string        `yaml:"calendar"`
	Timezone  string        `yaml:"timezone"`

	RunTimeout time.Duration `yaml:"run_timeout"`
	Port       string        `yaml:"port"`
}

// Load builds the config once per process. The YAML file is optional,
// environment variables win over it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if p := os.Getenv("CONFIG_PATH"); p != "" {
		path = p
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		log.Printf("Warning: Could not read %s, using environment only", path)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.Keywords = filter.NormalizeKeywords(cfg.Keywords)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.SearchURL, "URL")
	setString(&c.TelegramToken, "BOT_TOKEN")
	setString(&c.TelegramChatID, "USER_ID")
	setString(&c.UserAgent, "USER_AGENT")
	setString(&c.FetchMode, "FETCH_MODE")
	setString(&c.Calendar, "CALENDAR")
	setString(&c.Timezone, "TIMEZONE")
	setString(&c.Port, "PORT")

	if raw, ok := os.LookupEnv("KEYWORDS"); ok {
		c.Keywords = filter.ParseKeywords(raw)
	}

	for key, dst := range map[string]*int{
		"MAX_PAGES":  &c.MaxPages,
		"CHUNK_SIZE": &c.ChunkSize,
	} {
		if raw := os.Getenv(key); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = n
		}
	}

	for key, dst := range map[string]*time.Duration{
		"FETCH_TIMEOUT":  &c.FetchTimeout,
		"THROTTLE_DELAY": &c.ThrottleDelay,
		"SEND_DELAY":     &c.SendDelay,
		"RUN_TIMEOUT":    &c.RunTimeout,
	} {
		if raw := os.Getenv(key); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}

	if raw := os.Getenv("STRICT_SCRAPE"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid STRICT_SCRAPE: %w", err)
		}
		c.StrictScrape = b
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.UserAgent == "" {
		c.UserAgent = scraper.DefaultUserAgent
	}
	if c.FetchMode == "" {
		c.FetchMode = FetchModeHTTP
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = scraper.DefaultFetchTimeout
	}
	if c.MaxPages == 0 {
		c.MaxPages = jobinja.DefaultMaxPages
	}
	if c.ThrottleDelay == 0 {
		c.ThrottleDelay = jobinja.DefaultThrottle
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = reporter.DefaultChunkSize
	}
	if c.SendDelay == 0 {
		c.SendDelay = pipeline.DefaultSendDelay
	}
	if c.Calendar == "" {
		c.Calendar = reporter.CalendarJalali
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.RunTimeout == 0 {
		c.RunTimeout = DefaultRunTimeout
	}
	if c.Port == "" {
		c.Port = DefaultPort
	}
}

func (c *Config) Validate() error {
	if c.SearchURL == "" {
		return errors.New("URL is required")
	}
	u, err := url.Parse(c.SearchURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("URL must be an absolute http(s) url, got %q", c.SearchURL)
	}
	if c.TelegramToken == "" {
		return errors.New("BOT_TOKEN is required")
	}
	if c.TelegramChatID == "" {
		return errors.New("USER_ID is required")
	}
	if c.MaxPages < 0 {
		return errors.New("MAX_PAGES must be positive")
	}
	if c.ChunkSize < 0 {
		return errors.New("CHUNK_SIZE must be positive")
	}
	if c.SendDelay < 0 || c.ThrottleDelay < 0 || c.FetchTimeout < 0 || c.RunTimeout < 0 {
		return errors.New("durations must not be negative")
	}
	switch c.FetchMode {
	case FetchModeHTTP, FetchModeBrowser:
	default:
		return fmt.Errorf("unknown FETCH_MODE %q", c.FetchMode)
	}
	switch c.Calendar {
	case reporter.CalendarJalali, reporter.CalendarGregorian:
	default:
		return fmt.Errorf("unknown CALENDAR %q", c.Calendar)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	return nil
}

// Location of the message date line. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Masked returns a copy that is safe to print
func (c *Config) Masked() Config {
	out := *c
	if len(out.TelegramToken) > 6 {
		out.TelegramToken = out.TelegramToken[:6] + strings.Repeat("*", 6)
	} else if out.TelegramToken != "" {
		out.TelegramToken = "******"
	}
	return out
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
