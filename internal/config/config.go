package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvToken       = "TELEGRAM_BOT_TOKEN"
	EnvGroupChatID = "TELEGRAM_GROUP_CHAT_ID"
)

// Parse reads and strictly decodes the config file (JSON or YAML). A missing
// file is not an error: the zero config plus environment overrides is a valid
// setup, matching the original env-only deployment.
func Parse(path string) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, err
	}
	jb, _, err := coerceToJSONBytes(path, b)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid config: trailing data")
		}
		return nil, err
	}
	return &cfg, nil
}

// Load parses the file, overlays the environment, and validates.
func Load(path string) (*Config, error) {
	cfg, err := Parse(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays the required credentials from the environment.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		c.Telegram.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvGroupChatID)); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvGroupChatID, err)
		}
		c.Telegram.GroupChatID = id
	}
	return nil
}

// Validate checks the fatal startup conditions.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return fmt.Errorf("telegram.token is required (set %s)", EnvToken)
	}
	if c.Telegram.GroupChatID == 0 {
		return fmt.Errorf("telegram.group_chat_id is required (set %s)", EnvGroupChatID)
	}
	for i, r := range c.Recurring {
		if strings.TrimSpace(r.Spec) == "" || strings.TrimSpace(r.Body) == "" {
			return fmt.Errorf("recurring[%d]: spec and body are required", i)
		}
	}
	return nil
}

func (c *Config) ConsoleLogging() bool {
	if c.Logging.Console == nil {
		return true
	}
	return *c.Logging.Console
}

// Duration accessors fall back to defaults on empty or malformed values;
// a malformed value in a watched config must never crash a running bot.

func (c *Config) PollTimeout() time.Duration {
	return durationOrDefault(c.Telegram.PollTimeout, 30*time.Second)
}

func (c *Config) IdleSleep() time.Duration {
	return durationOrDefault(c.Schedule.IdleSleep, time.Second)
}

func (c *Config) ErrorPause() time.Duration {
	return durationOrDefault(c.Schedule.ErrorPause, 5*time.Second)
}

func (c *Config) SendTimeout() time.Duration {
	return durationOrDefault(c.Schedule.SendTimeout, 10*time.Second)
}

func (c *Config) SendRatePerSec() int {
	if c.Telegram.SendRatePerSec <= 0 {
		return 20
	}
	return c.Telegram.SendRatePerSec
}

func (c *Config) Timezone() string {
	if strings.TrimSpace(c.Schedule.Timezone) == "" {
		return "Asia/Singapore"
	}
	return strings.TrimSpace(c.Schedule.Timezone)
}

func (c *Config) StorageDriver() string {
	if strings.TrimSpace(c.Storage.Driver) == "" {
		return "file"
	}
	return strings.ToLower(strings.TrimSpace(c.Storage.Driver))
}

func (c *Config) StoragePath() string {
	if strings.TrimSpace(c.Storage.Path) == "" {
		return "./wedding_schedule.json"
	}
	return c.Storage.Path
}

func durationOrDefault(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
