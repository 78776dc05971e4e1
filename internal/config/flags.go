package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/planbot/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-t string  bot token
//	-d string  PostgreSQL DSN
//	-z string  default timezone for new users
//	-p         always send the full planning prompt
//	-i int     scan interval, seconds
//	-w int     Pomodoro work phase, minutes
//	-b int     Pomodoro break phase, minutes
//	-m int     max work cycles per session (0 = unlimited)
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-t", "-d", "-z", "-p", "-i", "-w", "-b", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.BotToken, "t", config.BotToken, "bot token")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DefaultTimezone, "z", config.DefaultTimezone, "default timezone for new users")
	fs.BoolVar(&config.AlwaysPrompt, "p", config.AlwaysPrompt, "always send the full planning prompt")
	fs.IntVar(&config.MaxCycles, "m", config.MaxCycles, "max focus cycles per session (0 = unlimited)")

	scanInterval := fs.Int("i", int(config.ScanInterval.Seconds()), "scan interval (in seconds)")
	workDuration := fs.Int("w", int(config.WorkDuration.Minutes()), "focus work phase (in minutes)")
	breakDuration := fs.Int("b", int(config.BreakDuration.Minutes()), "focus break phase (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ScanInterval = time.Duration(*scanInterval) * time.Second
	config.WorkDuration = time.Duration(*workDuration) * time.Minute
	config.BreakDuration = time.Duration(*breakDuration) * time.Minute
}
