package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, int64(50), cfg.Server.MaxUploadMB)
	assert.Equal(t, 30, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, 30, cfg.Webhook.TimeoutSecs)
	assert.Equal(t, "QQP_Cliente", cfg.Import.Budget.Sheet)
	assert.Equal(t, 40, cfg.Import.Budget.TotalRow)
	assert.Equal(t, 4, cfg.Import.Budget.TotalCol)
	assert.Equal(t, 11, cfg.Import.Budget.FirstRow)
	assert.Equal(t, 21, cfg.Import.Budget.LastRow)
	assert.Equal(t, 12, cfg.Import.Budget.TotalPriceCol)
	assert.InDelta(t, 15.0, cfg.Dashboard.ReductionTargetPercent, 0.001)
	assert.Equal(t, 30, cfg.Dashboard.ExpiringDays)
	assert.Equal(t, 15, cfg.Dashboard.StaleOrderDays)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  database_url: postgres://localhost/costs
log:
  level: debug
  format: console
server:
  port: 9090
import:
  budget:
    sheet: Orcamento
    last_row: 60
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/costs", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "Orcamento", cfg.Import.Budget.Sheet)
	assert.Equal(t, 60, cfg.Import.Budget.LastRow)
	// Defaults still apply for unset values
	assert.Equal(t, 11, cfg.Import.Budget.FirstRow)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
webhook:
  base_url: http://n8n.local
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("COSTS_WEBHOOK_BASE_URL", "http://automation:5678")
	t.Setenv("COSTS_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "http://automation:5678", cfg.Webhook.BaseURL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("COSTS_SERVER_PORT", "3000")
	t.Setenv("COSTS_AUTH_SECRET_KEY", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.Auth.SecretKey)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [port"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.DatabaseURL = "postgres://localhost/costs"
	cfg.Auth.SecretKey = "secret"
	cfg.Server.Port = 8000
	cfg.Webhook.TimeoutSecs = 30
	cfg.Import.Budget.FirstRow = 11
	cfg.Import.Budget.LastRow = 21
	return cfg
}

func TestValidate_Serve(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("serve"))

	cfg := validDefaults()
	cfg.Auth.SecretKey = ""
	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.secret_key")

	// migrate does not need a signing key
	assert.NoError(t, cfg.Validate("migrate"))
}

func TestValidate_MissingDatabase(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.DatabaseURL = ""
	cfg.Auth.SecretKey = ""
	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url, auth.secret_key")
}

func TestValidate_Ranges(t *testing.T) {
	cfg := validDefaults()
	cfg.Webhook.TimeoutSecs = 0
	assert.ErrorContains(t, cfg.Validate("serve"), "webhook.timeout_secs")

	cfg = validDefaults()
	cfg.Import.Budget.FirstRow = 30
	assert.ErrorContains(t, cfg.Validate("serve"), "first_row 30 after last_row 21")

	cfg = validDefaults()
	cfg.Server.Port = 70000
	assert.ErrorContains(t, cfg.Validate("serve"), "server.port")
}
