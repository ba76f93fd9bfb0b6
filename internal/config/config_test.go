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

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "neo4j", cfg.Neo4j.User)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "https://api.yutori.com/v1", cfg.Yutori.BaseURL)
	assert.Equal(t, 2, cfg.Yutori.PollIntervalSecs)
	assert.Equal(t, 150, cfg.Yutori.ResearchAttempts)
	assert.Equal(t, 30, cfg.Yutori.BrowsingAttempts)
	assert.Equal(t, "https://api.tavily.com", cfg.Tavily.BaseURL)
	assert.Equal(t, 30, cfg.Tavily.TimeoutSecs)
	assert.Equal(t, 10, cfg.Tavily.MaxResults)
	assert.Equal(t, "https://www.alphavantage.co", cfg.AlphaVantage.BaseURL)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.HaikuModel)
	assert.Equal(t, 3600, cfg.Cache.ProfileTTLSecs)
	assert.Equal(t, 300, cfg.Cache.ProgressTTLSecs)
	assert.Equal(t, 7, cfg.Cache.ResearchTTLDays)
	assert.Equal(t, 7, cfg.Cache.BrowsingTTLDays)
	assert.Equal(t, 3, cfg.Cache.SearchTTLDays)
	assert.Equal(t, 600, cfg.Cache.PendingTTLSecs)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
redis:
  addr: redis.internal:6380
  db: 2
yutori:
  key: test-key
  browsing_attempts: 5
log:
  level: debug
  format: console
server:
  port: 9000
cache:
  profile_ttl_secs: 60
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "test-key", cfg.Yutori.Key)
	assert.Equal(t, 5, cfg.Yutori.BrowsingAttempts)
	// Unset keys keep their defaults.
	assert.Equal(t, 150, cfg.Yutori.ResearchAttempts)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 60, cfg.Cache.ProfileTTLSecs)
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("COMPANYINTEL_TAVILY_KEY", "env-key")
	t.Setenv("COMPANYINTEL_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Tavily.Key)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{name: "json_info", cfg: LogConfig{Level: "info", Format: "json"}},
		{name: "console_debug", cfg: LogConfig{Level: "debug", Format: "console"}},
		{name: "bad_level", cfg: LogConfig{Level: "loud", Format: "json"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitLogger(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, zap.L())
		})
	}
}
