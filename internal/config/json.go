package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/planbot/internal/flagx"
	"github.com/dmitrijs2005/planbot/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON
// configuration files. Interval fields use timex.Duration so both string
// values ("30s") and integer nanoseconds parse. After unmarshalling, its
// fields are copied into the runtime Config.
type JsonConfig struct {
	BotToken        string         `json:"bot_token"`
	DatabaseDSN     string         `json:"database_dsn"`
	DefaultTimezone string         `json:"default_timezone"`
	AlwaysPrompt    *bool          `json:"always_prompt"`
	ScanInterval    timex.Duration `json:"scan_interval"`
	WorkDuration    timex.Duration `json:"work_duration"`
	BreakDuration   timex.Duration `json:"break_duration"`
	MaxCycles       *int           `json:"max_cycles"`
	PollTimeout     timex.Duration `json:"poll_timeout"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. If no file is given, nothing
// is loaded. Unreadable or invalid files panic: a half-applied config is
// worse than a crash at startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.BotToken != "" {
		config.BotToken = c.BotToken
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.DefaultTimezone != "" {
		config.DefaultTimezone = c.DefaultTimezone
	}
	if c.AlwaysPrompt != nil {
		config.AlwaysPrompt = *c.AlwaysPrompt
	}
	if c.ScanInterval.Duration != 0 {
		config.ScanInterval = time.Duration(c.ScanInterval.Duration)
	}
	if c.WorkDuration.Duration != 0 {
		config.WorkDuration = time.Duration(c.WorkDuration.Duration)
	}
	if c.BreakDuration.Duration != 0 {
		config.BreakDuration = time.Duration(c.BreakDuration.Duration)
	}
	if c.MaxCycles != nil {
		config.MaxCycles = *c.MaxCycles
	}
	if c.PollTimeout.Duration != 0 {
		config.PollTimeout = time.Duration(c.PollTimeout.Duration)
	}
}
