package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	require.Len(t, c.Consolidate.DemandFiles, 6)
	assert.Equal(t, "demanddata_2017.csv", c.Consolidate.DemandFiles[0].Name)
	assert.Equal(t, "2006-01-02", c.Consolidate.DemandFiles[5].DateLayout)

	w, err := c.BucketWidth()
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, w)

	cut, err := c.Cutoff()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), cut)
	assert.Equal(t, "127.0.0.1:8050", c.ListenAddr())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	t.Setenv("API_ENV", "")
	t.Setenv("API_PORT", "")
	path := writeFile(t, `
dashboard:
  port: 9000
  page_size: 50
consolidate:
  data_path: /srv/data
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, c.Dashboard.Port)
	assert.Equal(t, 50, c.Dashboard.PageSize)
	assert.Equal(t, 1000, c.Dashboard.ChartWidth)
	assert.True(t, c.Dashboard.Debug)
	assert.Equal(t, "/srv/data", c.Consolidate.DataPath)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	c, err := LoadUnchecked("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *c)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("API_ENV", "production")
	t.Setenv("API_PORT", "8123")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://localhost/demand")
	t.Setenv("STATIC_DIR", "/tmp/ui")

	c := Default()
	c.ApplyEnv()
	assert.False(t, c.Dashboard.Debug)
	assert.Equal(t, 8123, c.Dashboard.Port)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "postgres://localhost/demand", c.Database.URL)
	assert.Equal(t, "/tmp/ui", c.Dashboard.StaticDir)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(c *Config){
		"no demand files":   func(c *Config) { c.Consolidate.DemandFiles = nil },
		"missing layout":    func(c *Config) { c.Consolidate.DemandFiles[0].DateLayout = "" },
		"bad cutoff":        func(c *Config) { c.Consolidate.TemperatureCutoff = "2023-01-01" },
		"uneven bucket":     func(c *Config) { c.Consolidate.BucketWidth = "7h" },
		"zero page size":    func(c *Config) { c.Dashboard.PageSize = 0 },
		"port out of range": func(c *Config) { c.Dashboard.Port = 70000 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := writeFile(t, "dashboard: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	c := Default()
	c.LogLevel = "debug"
	assert.Equal(t, log.DebugLevel, c.NewLogger("test").GetLevel())

	c.LogLevel = "loud"
	assert.Equal(t, log.InfoLevel, c.NewLogger("test").GetLevel())
}
