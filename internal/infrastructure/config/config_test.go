package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "kitchen", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "data/kitchen.db", cfg.Database.Path)
	assert.Equal(t, "data/settings.json", cfg.Settings.Path)
	assert.True(t, cfg.Seed.Enabled)
	assert.Equal(t, logger.Silent, cfg.GormLogLevel())
	assert.Equal(t, "127.0.0.1:8080", cfg.Address())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
database:
  path: /tmp/k.db
  log_level: warn
ai:
  provider: openai
`), 0o600))

	t.Setenv("KITCHEN_AI_API_KEY", "secret")
	t.Setenv("KITCHEN_SEED_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/tmp/k.db", cfg.Database.Path)
	assert.Equal(t, logger.Warn, cfg.GormLogLevel())
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "secret", cfg.AI.APIKey)
	assert.False(t, cfg.Seed.Enabled)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			App:      AppConfig{Name: "kitchen"},
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Path: "k.db", LogLevel: "silent"},
			Settings: SettingsConfig{Path: "s.json"},
		}
	}

	cfg := base()
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Database.Path = ""
	assert.ErrorContains(t, cfg.Validate(), "database.path")

	cfg = base()
	cfg.Server.Port = 70000
	assert.ErrorContains(t, cfg.Validate(), "server.port")

	cfg = base()
	cfg.Database.LogLevel = "loud"
	assert.ErrorContains(t, cfg.Validate(), "database.log_level")
}

func TestDebugForcesGormInfo(t *testing.T) {
	cfg := Config{App: AppConfig{Debug: true}, Database: DatabaseConfig{LogLevel: "silent"}}
	assert.Equal(t, logger.Info, cfg.GormLogLevel())
}
