package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "fern-api", cfg.AppName)
	assert.Equal(t, 3004, cfg.Port)
	assert.Equal(t, 4, cfg.ImportConcurrency)
	assert.Equal(t, 30*time.Second, cfg.DatabaseTxLeakThreshold)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaConsumerEnabled)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, "", cfg.DefaultOrganizationID)
	assert.False(t, cfg.OTLPEnabled)
	assert.Equal(t, "grpc", cfg.OTLPProtocol)
	assert.Equal(t, 10*time.Second, cfg.OTLPTimeout)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("IMPORT_CONCURRENCY", "8")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("DB_TX_LEAK_THRESHOLD", "5s")
	t.Setenv("DEFAULT_ORGANIZATION_ID", "org-1")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.ImportConcurrency)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Second, cfg.DatabaseTxLeakThreshold)
	assert.Equal(t, "org-1", cfg.DefaultOrganizationID)
	assert.True(t, cfg.RedisEnabled)
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("IMPORT_CONCURRENCY", "0")

	_, err := Load("does-not-exist.env")
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("PROFILE_LOCK_TTL", "soon")

	_, err := Load("does-not-exist.env")
	assert.Error(t, err)
}
