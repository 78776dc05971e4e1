// Package config handles configuration for the bot, including defaults,
// JSON overlay, environment variables, and command-line flags.
package config

import "time"

// Config holds runtime settings for the planbot process.
//
// Fields:
//   - BotToken: messaging-gateway credential (opaque to the core).
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - DefaultTimezone: timezone assigned to users with no explicit setting.
//   - AlwaysPrompt: when true, plan-tomorrow prompts fire even if tomorrow
//     already has tasks (suppression off).
//   - ScanInterval: cadence of the trigger/focus scan loop.
//   - WorkDuration / BreakDuration: Pomodoro phase lengths.
//   - MaxCycles: work phases before a session auto-stops; 0 means unlimited.
//   - PollTimeout: gateway long-poll timeout.
type Config struct {
	BotToken        string
	DatabaseDSN     string
	DefaultTimezone string
	AlwaysPrompt    bool
	ScanInterval    time.Duration
	WorkDuration    time.Duration
	BreakDuration   time.Duration
	MaxCycles       int
	PollTimeout     time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.BotToken = ""
	c.DatabaseDSN = ""
	c.DefaultTimezone = "America/Los_Angeles"
	c.AlwaysPrompt = false
	c.ScanInterval = 30 * time.Second
	c.WorkDuration = 25 * time.Minute
	c.BreakDuration = 5 * time.Minute
	c.MaxCycles = 0
	c.PollTimeout = 20 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
