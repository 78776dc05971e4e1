package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"cmd",
		"-t", "123:abc", "-d", "postgres://x", "-z", "Asia/Tokyo",
		"-p", "-i", "10", "-w", "45", "-b", "15", "-m", "2",
	}

	config := &Config{}
	config.LoadDefaults()

	require.NotPanics(t, func() { parseFlags(config) })

	assert.Equal(t, "123:abc", config.BotToken)
	assert.Equal(t, "postgres://x", config.DatabaseDSN)
	assert.Equal(t, "Asia/Tokyo", config.DefaultTimezone)
	assert.True(t, config.AlwaysPrompt)
	assert.Equal(t, 10*time.Second, config.ScanInterval)
	assert.Equal(t, 45*time.Minute, config.WorkDuration)
	assert.Equal(t, 15*time.Minute, config.BreakDuration)
	assert.Equal(t, 2, config.MaxCycles)
}

func TestParseFlags_KeepsDefaultsWhenAbsent(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"cmd"}

	config := &Config{}
	config.LoadDefaults()
	parseFlags(config)

	assert.Equal(t, 30*time.Second, config.ScanInterval)
	assert.Equal(t, 25*time.Minute, config.WorkDuration)
	assert.Equal(t, 5*time.Minute, config.BreakDuration)
}
