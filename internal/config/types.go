package config

type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Logging  LoggingConfig  `json:"logging"`
	Schedule ScheduleConfig `json:"schedule"`
	Storage  StorageConfig  `json:"storage"`

	// Recurring holds optional cron-driven group broadcasts on top of the
	// one-shot reminder schedule.
	Recurring []RecurringBroadcast `json:"recurring,omitempty"`
}

type TelegramConfig struct {
	// Token and GroupChatID may also come from the environment
	// (TELEGRAM_BOT_TOKEN / TELEGRAM_GROUP_CHAT_ID); the environment wins.
	// Both are required.
	Token       string `json:"token,omitempty"`
	GroupChatID int64  `json:"group_chat_id,omitempty"`

	// PollTimeout is a Go duration string (e.g. "30s") bounding each
	// getUpdates long-poll.
	PollTimeout string `json:"poll_timeout,omitempty"`

	// SendRatePerSec caps outbound sends (Telegram flood control).
	SendRatePerSec int `json:"send_rate_per_sec,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level,omitempty"`
	Console *bool       `json:"console,omitempty"` // default true
	File    LoggingFile `json:"file,omitempty"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// ScheduleConfig controls the poll loop pacing and the reminder timezone.
//
// All durations are Go duration strings (e.g. "1s", "5s").
type ScheduleConfig struct {
	// Timezone is the IANA zone reminders are anchored in.
	Timezone string `json:"timezone,omitempty"`

	// IdleSleep is the pause after each poll cycle.
	IdleSleep string `json:"idle_sleep,omitempty"`

	// ErrorPause is the backoff after an unexpected loop error.
	ErrorPause string `json:"error_pause,omitempty"`

	// SendTimeout bounds each outbound send/answer call.
	SendTimeout string `json:"send_timeout,omitempty"`
}

// StorageConfig selects the schedule persistence backend.
//
// Driver values:
//   - "file": single JSON file, written atomically (default)
//   - "sqlite": SQLite database file
//   - "none": keep the schedule in memory only
type StorageConfig struct {
	Driver string `json:"driver,omitempty"`
	Path   string `json:"path,omitempty"`
}

// RecurringBroadcast posts Body to the group on a cron schedule.
type RecurringBroadcast struct {
	Spec string `json:"spec"`
	Body string `json:"body"`
	Menu bool   `json:"menu,omitempty"`
}
