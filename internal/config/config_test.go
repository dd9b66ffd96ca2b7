package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromParsesDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[mainConfig]
appName = "playmate"
port = 9000

[presenceConfig]
freshnessWindow = "2m"
heartbeatInterval = "10s"

[kafkaConfig]
messageMode = "kafka"
`), 0o600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.MainConfig.Port)
	assert.Equal(t, 2*time.Minute, cfg.PresenceConfig.FreshnessWindow.Duration)
	assert.Equal(t, 10*time.Second, cfg.PresenceConfig.HeartbeatInterval.Duration)
	assert.Equal(t, "kafka", cfg.KafkaConfig.MessageMode)
}

func TestLoadConfigFromAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[mainConfig]\nappName = \"x\"\n"), 0o600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.PresenceConfig.FreshnessWindow.Duration)
	assert.Equal(t, 30*time.Second, cfg.PresenceConfig.HeartbeatInterval.Duration)
	assert.Equal(t, "channel", cfg.KafkaConfig.MessageMode)
	assert.Equal(t, 30, cfg.RateLimitConfig.Burst)
	assert.Equal(t, "/metrics", cfg.MetricsConfig.Path)

	host, err := os.Hostname()
	require.NoError(t, err)
	assert.Equal(t, "playmate-"+host, cfg.KafkaConfig.GroupID)
}

func TestExplicitGroupIDIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[kafkaConfig]\ngroupId = \"node-a\"\n"), 0o600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "node-a", cfg.KafkaConfig.GroupID)
}

func TestLoadConfigFromMissingFile(t *testing.T) {
	_, err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
