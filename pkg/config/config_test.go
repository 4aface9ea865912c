package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/battery-fleet-service/pkg/common"
	_ "liyu1981.xyz/battery-fleet-service/pkg/testing"
)

func clearEnv(t *testing.T) {
	keys := []string{
		common.EnvKeyConfigFile,
		common.EnvKeyFleetDBType,
		common.EnvKeyFleetDbPath,
		common.EnvKeyFleetDbDSN,
		common.EnvKeyFleetHttpHostPort,
		common.EnvKeyFleetGrpcHostPort,
		common.EnvKeyFleetDefaultRate,
		common.EnvKeyFleetDefaultBurst,
		common.EnvKeyFleetTickInterval,
		common.EnvKeyFleetWebsocket,
		common.EnvKeyFleetRedisAddr,
		common.EnvKeyFleetRedisChannel,
		common.EnvKeyFleetMQTTBroker,
		common.EnvKeyFleetMQTTTopic,
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.DB.Type)
	assert.Equal(t, ":1080", cfg.HttpHostPort)
	assert.Equal(t, "", cfg.GrpcHostPort)
	assert.Equal(t, 10.0, cfg.Limiter.Rate)
	assert.Equal(t, 20, cfg.Limiter.Burst)
	assert.Equal(t, time.Duration(0), cfg.TickInterval)
	assert.True(t, cfg.Events.Websocket)
}

func TestLoadFromYamlWithEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "fleet.yaml")
	yamlContent := `
db:
  type: memory
http_host_port: ":8080"
grpc_host_port: ":9090"
limiter:
  rate: 2.5
  burst: 4
tick_interval: 1m
events:
  websocket: false
  redis_addr: "localhost:6379"
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o600))

	t.Setenv(common.EnvKeyConfigFile, path)
	t.Setenv(common.EnvKeyFleetDefaultBurst, "8")
	t.Setenv(common.EnvKeyFleetMQTTBroker, "tcp://localhost:1883")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DB.Type)
	assert.Equal(t, ":8080", cfg.HttpHostPort)
	assert.Equal(t, ":9090", cfg.GrpcHostPort)
	assert.Equal(t, 2.5, cfg.Limiter.Rate)
	assert.Equal(t, 8, cfg.Limiter.Burst)
	assert.Equal(t, time.Minute, cfg.TickInterval)
	assert.False(t, cfg.Events.Websocket)
	assert.Equal(t, "localhost:6379", cfg.Events.RedisAddr)
	assert.Equal(t, "tcp://localhost:1883", cfg.Events.MQTTBroker)
	assert.Equal(t, "battery-fleet/events", cfg.Events.MQTTTopic)
}

func TestLoadInvalidValues(t *testing.T) {
	{
		clearEnv(t)
		t.Setenv(common.EnvKeyFleetDefaultRate, "fast")
		_, err := Load()
		assert.ErrorContains(t, err, common.EnvKeyFleetDefaultRate)
	}

	{
		clearEnv(t)
		t.Setenv(common.EnvKeyFleetTickInterval, "often")
		_, err := Load()
		assert.ErrorContains(t, err, common.EnvKeyFleetTickInterval)
	}

	{
		clearEnv(t)
		t.Setenv(common.EnvKeyFleetDBType, "oracle")
		_, err := Load()
		assert.ErrorContains(t, err, "unknown")
	}

	{
		clearEnv(t)
		t.Setenv(common.EnvKeyFleetDBType, "postgres")
		_, err := Load()
		assert.ErrorContains(t, err, common.EnvKeyFleetDbDSN)
	}

	{
		clearEnv(t)
		t.Setenv(common.EnvKeyConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))
		_, err := Load()
		assert.ErrorContains(t, err, "read file")
	}
}
