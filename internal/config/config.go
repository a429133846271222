// Package config loads the monitor configuration from a single YAML
// file. There is no automatic discovery: the file path comes from the
// --config flag (default config.yaml). The only override outside the
// file is TWICKETER_PASSWORD, so the account password can stay out of
// checked-in configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ZTwicket/Twicketer/internal/domain"
)

const (
	// DefaultUserAgent matches a mainstream desktop browser; the
	// marketplace rejects obviously non-browser clients.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:101.0) Gecko/20100101 Firefox/101.0"

	defaultTimeDelay   = 2.0
	defaultMinSeats    = 1
	defaultMaxSeats    = 4
	defaultHTTPTimeout = 15
)

// PasswordEnv overrides the password field when set.
const PasswordEnv = "TWICKETER_PASSWORD"

// Config is the full configuration surface of the monitor.
type Config struct {
	// Account and event, all required.
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	EventID  string `yaml:"event_id"`
	APIKey   string `yaml:"api_key"`

	// Optional delivery and pacing settings.
	DiscordWebhookURL  string  `yaml:"discord_webhook_url"`
	TimeDelay          float64 `yaml:"time_delay"`
	Headless           *bool   `yaml:"headless"`
	UserAgent          string  `yaml:"user_agent"`
	HTTPTimeoutSeconds float64 `yaml:"http_timeout_seconds"`

	// Ticket preferences.
	MinSeats           int      `yaml:"min_seats"`
	MaxSeats           int      `yaml:"max_seats"`
	MaxPrice           *float64 `yaml:"max_price"`
	SkipMeetupDelivery *bool    `yaml:"skip_meetup_delivery"`
}

// Load reads and validates the config file at path, applying defaults
// and the password environment override.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes raw YAML into a validated Config.
func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if pw := os.Getenv(PasswordEnv); pw != "" {
		cfg.Password = pw
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.TimeDelay <= 0 {
		c.TimeDelay = defaultTimeDelay
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.HTTPTimeoutSeconds <= 0 {
		c.HTTPTimeoutSeconds = defaultHTTPTimeout
	}
	if c.MinSeats == 0 {
		c.MinSeats = defaultMinSeats
	}
	if c.MaxSeats == 0 {
		c.MaxSeats = defaultMaxSeats
	}
	if c.Headless == nil {
		t := true
		c.Headless = &t
	}
	if c.SkipMeetupDelivery == nil {
		t := true
		c.SkipMeetupDelivery = &t
	}
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	switch {
	case c.User == "":
		return errors.New("config: user is required")
	case c.Password == "":
		return errors.New("config: password is required (file or " + PasswordEnv + ")")
	case c.EventID == "":
		return errors.New("config: event_id is required")
	case c.APIKey == "":
		return errors.New("config: api_key is required")
	}
	if c.MinSeats < 1 {
		return fmt.Errorf("config: min_seats must be at least 1, got %d", c.MinSeats)
	}
	if c.MaxSeats < c.MinSeats {
		return fmt.Errorf("config: max_seats %d is below min_seats %d", c.MaxSeats, c.MinSeats)
	}
	if c.MaxPrice != nil && *c.MaxPrice <= 0 {
		return fmt.Errorf("config: max_price must be positive, got %v", *c.MaxPrice)
	}
	return nil
}

// Filter converts the ticket preferences into the monitor's filter
// snapshot. max_price is quoted in pounds in the file and pence inside
// the monitor.
func (c *Config) Filter() domain.FilterConfig {
	f := domain.FilterConfig{
		MinSeats:           c.MinSeats,
		MaxSeats:           c.MaxSeats,
		SkipMeetupDelivery: c.SkipMeetupDelivery == nil || *c.SkipMeetupDelivery,
	}
	if c.MaxPrice != nil {
		f.MaxPrice = domain.Price(*c.MaxPrice*100 + 0.5)
	}
	return f
}

// Cadence is the base delay between poll cycles.
func (c *Config) Cadence() time.Duration {
	return time.Duration(c.TimeDelay * float64(time.Second))
}

// HTTPTimeout bounds every single marketplace request.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds * float64(time.Second))
}

// IsHeadless reports whether the purchase-assist browser window is
// suppressed.
func (c *Config) IsHeadless() bool {
	return c.Headless == nil || *c.Headless
}
