package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseYAML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  group_chat_id: -100200300
  poll_timeout: "25s"
schedule:
  timezone: "Asia/Singapore"
  idle_sleep: "2s"
storage:
  driver: sqlite
  path: ./sched.db
recurring:
  - spec: "0 9 * * 1"
    body: "weekly update"
    menu: true
`)
	cfg, err := Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.GroupChatID != -100200300 {
		t.Fatalf("group_chat_id = %d", cfg.Telegram.GroupChatID)
	}
	if got := cfg.PollTimeout(); got != 25*time.Second {
		t.Fatalf("poll timeout = %v", got)
	}
	if got := cfg.IdleSleep(); got != 2*time.Second {
		t.Fatalf("idle sleep = %v", got)
	}
	if cfg.StorageDriver() != "sqlite" || cfg.StoragePath() != "./sched.db" {
		t.Fatalf("storage = %q %q", cfg.StorageDriver(), cfg.StoragePath())
	}
	if len(cfg.Recurring) != 1 || !cfg.Recurring[0].Menu {
		t.Fatalf("recurring = %+v", cfg.Recurring)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  chat: 5
`)
	if _, err := Parse(path); err == nil {
		t.Fatal("expected unknown-field error")
	}
}

func TestLoadMissingFileEnvOnly(t *testing.T) {
	t.Setenv(EnvToken, "999:xyz")
	t.Setenv(EnvGroupChatID, "-42")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "999:xyz" || cfg.Telegram.GroupChatID != -42 {
		t.Fatalf("telegram = %+v", cfg.Telegram)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "from-file"
  group_chat_id: 1
`)
	t.Setenv(EnvToken, "from-env")
	t.Setenv(EnvGroupChatID, "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "from-env" || cfg.Telegram.GroupChatID != 2 {
		t.Fatalf("telegram = %+v", cfg.Telegram)
	}
}

func TestValidateRequiresCredentials(t *testing.T) {
	t.Parallel()
	var cfg Config
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("err = %v", err)
	}

	cfg.Telegram.Token = "123:abc"
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "group_chat_id") {
		t.Fatalf("err = %v", err)
	}

	cfg.Telegram.GroupChatID = 7
	if err := cfg.Validate(); err != nil {
		t.Fatalf("err = %v", err)
	}
}

func TestValidateRecurringRequiresSpecAndBody(t *testing.T) {
	t.Parallel()
	cfg := Config{
		Telegram:  TelegramConfig{Token: "123:abc", GroupChatID: 7},
		Recurring: []RecurringBroadcast{{Spec: "0 9 * * 1"}},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for recurring entry without body")
	}
}

func TestApplyEnvBadGroupID(t *testing.T) {
	t.Setenv(EnvGroupChatID, "not-a-number")
	var cfg Config
	if err := cfg.ApplyEnv(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()
	var cfg Config
	if got := cfg.PollTimeout(); got != 30*time.Second {
		t.Fatalf("poll timeout = %v", got)
	}
	if got := cfg.IdleSleep(); got != time.Second {
		t.Fatalf("idle sleep = %v", got)
	}
	if got := cfg.ErrorPause(); got != 5*time.Second {
		t.Fatalf("error pause = %v", got)
	}
	if got := cfg.SendTimeout(); got != 10*time.Second {
		t.Fatalf("send timeout = %v", got)
	}
	if got := cfg.SendRatePerSec(); got != 20 {
		t.Fatalf("send rate = %d", got)
	}
	if got := cfg.Timezone(); got != "Asia/Singapore" {
		t.Fatalf("timezone = %q", got)
	}
	if cfg.StorageDriver() != "file" || cfg.StoragePath() != "./wedding_schedule.json" {
		t.Fatalf("storage = %q %q", cfg.StorageDriver(), cfg.StoragePath())
	}
	if !cfg.ConsoleLogging() {
		t.Fatal("console logging should default on")
	}
}

func TestMalformedDurationFallsBack(t *testing.T) {
	t.Parallel()
	cfg := Config{Schedule: ScheduleConfig{IdleSleep: "soon", ErrorPause: "-3s"}}
	if got := cfg.IdleSleep(); got != time.Second {
		t.Fatalf("idle sleep = %v", got)
	}
	if got := cfg.ErrorPause(); got != 5*time.Second {
		t.Fatalf("error pause = %v", got)
	}
}
