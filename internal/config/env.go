package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables. Unset
// variables keep the current value; malformed numeric values are ignored
// rather than crashing the process.
//
// Variables:
//
//	BOT_TOKEN         messaging-gateway credential
//	DATABASE_DSN      PostgreSQL DSN (empty = in-memory store)
//	DEFAULT_TZ        timezone for new users
//	ALWAYS_PROMPT     "true"/"false"
//	SCAN_INTERVAL     duration, e.g. "30s"
//	FOCUS_WORK        duration, e.g. "25m"
//	FOCUS_BREAK       duration, e.g. "5m"
//	FOCUS_MAX_CYCLES  integer, 0 = unlimited
//	POLL_TIMEOUT      duration, e.g. "20s"
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("BOT_TOKEN"); ok {
		config.BotToken = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("DEFAULT_TZ"); ok {
		config.DefaultTimezone = v
	}
	if v, ok := os.LookupEnv("ALWAYS_PROMPT"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.AlwaysPrompt = b
		}
	}
	if v, ok := os.LookupEnv("SCAN_INTERVAL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.ScanInterval = d
		}
	}
	if v, ok := os.LookupEnv("FOCUS_WORK"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.WorkDuration = d
		}
	}
	if v, ok := os.LookupEnv("FOCUS_BREAK"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.BreakDuration = d
		}
	}
	if v, ok := os.LookupEnv("FOCUS_MAX_CYCLES"); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			config.MaxCycles = n
		}
	}
	if v, ok := os.LookupEnv("POLL_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.PollTimeout = d
		}
	}
}
