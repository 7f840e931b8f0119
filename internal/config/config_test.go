package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "database", cfg.Source.Kind)
	assert.Equal(t, 30*time.Second, cfg.Detection.Threshold)
	assert.Equal(t, []string{"real", "p2", "Stellar 1-Step Demo"}, cfg.Detection.AccountTypes)
	assert.Equal(t, []string{"70", "3"}, cfg.Detection.RawLotPrefixes)
	assert.Equal(t, 100.0, cfg.Detection.LotDivisor)
	assert.Equal(t, "Filtered Trades", cfg.Report.TradesSheet)
	assert.Equal(t, "Login Summary", cfg.Report.SummarySheet)
	assert.Equal(t, "Trades Under 30s", cfg.Proof.OutputSheet)
	assert.Equal(t, 1, cfg.Source.API.MaxRetries)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yml := `
database:
  driver: sqlite
  dsn: trades.db
detection:
  threshold: 10s
window:
  start: "2025-02-10 00:00:00"
  end: "2025-02-10 23:59:59"
proof:
  logins: [13406179, 22216627]
logger:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o644))
	t.Setenv("REPORT_OUTPUT", "out.xlsx")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "trades.db", cfg.Database.DSN)
	assert.Equal(t, 10*time.Second, cfg.Detection.Threshold)
	assert.Equal(t, []int64{13406179, 22216627}, cfg.Proof.Logins)
	assert.Equal(t, "out.xlsx", cfg.Report.Output)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.NoError(t, cfg.ValidateRun())
}

func TestLoadConfig_InvalidDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")

	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestValidateRun(t *testing.T) {
	base := func() Config {
		return Config{
			Database: Database{Driver: "sqlite", DSN: "x.db"},
			Source:   Source{Kind: "database"},
			Window:   Window{Start: "2025-02-10 00:00:00", End: "2025-02-10 23:59:59", Timezone: "UTC"},
		}
	}

	testCases := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{name: "valid", modify: func(c *Config) {}},
		{name: "missing dsn", modify: func(c *Config) { c.Database.DSN = "" }, errMsg: "database.dsn"},
		{name: "api without base url", modify: func(c *Config) { c.Source.Kind = "api" }, errMsg: "base_url"},
		{name: "bad start", modify: func(c *Config) { c.Window.Start = "yesterday" }, errMsg: "window.start"},
		{name: "bad timezone", modify: func(c *Config) { c.Window.Timezone = "Mars/Olympus" }, errMsg: "window.timezone"},
		{name: "end before start", modify: func(c *Config) { c.Window.End = "2025-02-09 00:00:00" }, errMsg: "before start"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.modify(&cfg)
			err := cfg.ValidateRun()
			if tc.errMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
			}
		})
	}
}

func TestWindowBounds_Timezone(t *testing.T) {
	w := Window{Start: "2025-02-10 00:00:00", End: "2025-02-10 23:59:59", Timezone: "Asia/Tokyo"}
	start, end, err := w.Bounds()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 2, 9, 15, 0, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, int64(86399), end.Unix()-start.Unix())
}

func TestValidateProof(t *testing.T) {
	cfg := Config{}
	assert.ErrorContains(t, cfg.ValidateProof(), "proof.logins")

	cfg.Proof.Logins = []int64{13406179}
	assert.NoError(t, cfg.ValidateProof())
}
