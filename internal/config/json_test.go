package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseJson_OverlaysValues(t *testing.T) {
	path := writeConfigFile(t, `{
		"bot_token": "123:abc",
		"database_dsn": "postgres://x",
		"default_timezone": "Europe/Riga",
		"always_prompt": true,
		"scan_interval": "15s",
		"work_duration": "50m",
		"break_duration": "10m",
		"max_cycles": 4,
		"poll_timeout": "25s"
	}`)

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-c", path}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, "123:abc", c.BotToken)
	assert.Equal(t, "postgres://x", c.DatabaseDSN)
	assert.Equal(t, "Europe/Riga", c.DefaultTimezone)
	assert.True(t, c.AlwaysPrompt)
	assert.Equal(t, 15*time.Second, c.ScanInterval)
	assert.Equal(t, 50*time.Minute, c.WorkDuration)
	assert.Equal(t, 10*time.Minute, c.BreakDuration)
	assert.Equal(t, 4, c.MaxCycles)
	assert.Equal(t, 25*time.Second, c.PollTimeout)
}

func TestParseJson_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, `{"default_timezone": "Asia/Tokyo"}`)

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-c", path}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, "Asia/Tokyo", c.DefaultTimezone)
	assert.Equal(t, 30*time.Second, c.ScanInterval)
	assert.Equal(t, 25*time.Minute, c.WorkDuration)
	assert.False(t, c.AlwaysPrompt)
}

func TestParseJson_NoFileNoChanges(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd"}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, "America/Los_Angeles", c.DefaultTimezone)
}

func TestParseJson_InvalidFilePanics(t *testing.T) {
	path := writeConfigFile(t, `{not json`)

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-c", path}

	var c Config
	c.LoadDefaults()
	require.Panics(t, func() { parseJson(&c) })
}
