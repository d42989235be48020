// internal/common/config/loader_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		Camunda: CamundaConfig{BrokerAddress: "localhost:26500"},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:     "localhost",
				Database: "knowledge",
				User:     "app",
			},
			Elasticsearch: ElasticsearchConfig{Addresses: []string{"http://localhost:9200"}},
			Redis:         RedisConfig{Address: "localhost:6379"},
		},
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validTestConfig()
	applyDefaults(cfg)

	assert.Equal(t, 0.7, cfg.Engine.ConfidenceWeight)
	assert.Equal(t, 0.3, cfg.Engine.RecencyWeight)
	assert.Equal(t, 365, cfg.Engine.RecencyHorizonDays)
	assert.Equal(t, 2, cfg.Engine.EvidenceThreshold)
	assert.Equal(t, 1.5, cfg.Engine.TrendRatio)
	assert.Equal(t, 30, cfg.Engine.TrendWindowDays)
	assert.Equal(t, 10, cfg.Engine.MaxRelevantItems)
	assert.Equal(t, 5, cfg.Engine.MaxExperts)
	assert.Equal(t, "status-notes", cfg.Database.Elasticsearch.NotesIndex)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestApplyDefaults_WorkerFallbacks(t *testing.T) {
	cfg := validTestConfig()
	cfg.Workers = map[string]WorkerConfig{
		"extract-knowledge": {Enabled: true},
	}
	applyDefaults(cfg)

	worker := cfg.Workers["extract-knowledge"]
	assert.Equal(t, 5, worker.MaxJobsActive)
	assert.Equal(t, 30000, worker.Timeout)
	assert.Equal(t, 3, worker.MaxRetries)
}

func TestValidateConfig(t *testing.T) {
	cfg := validTestConfig()
	applyDefaults(cfg)
	require.NoError(t, validateConfig(cfg))

	missing := validTestConfig()
	missing.Camunda.BrokerAddress = ""
	assert.Error(t, validateConfig(missing))

	noES := validTestConfig()
	noES.Database.Elasticsearch.Addresses = nil
	assert.Error(t, validateConfig(noES))

	badWeights := validTestConfig()
	badWeights.Engine.ConfidenceWeight = 0.8
	badWeights.Engine.RecencyWeight = 0.5
	assert.Error(t, validateConfig(badWeights))
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	cfg := validTestConfig()

	wcfg := GetWorkerConfig(cfg, "build-context")
	assert.True(t, wcfg.Enabled)
	assert.Equal(t, 5, wcfg.MaxJobsActive)

	cfg.Workers = map[string]WorkerConfig{
		"build-context": {Enabled: false, MaxJobsActive: 2, Timeout: 10000},
	}
	wcfg = GetWorkerConfig(cfg, "build-context")
	assert.False(t, wcfg.Enabled)
	assert.Equal(t, 2, wcfg.MaxJobsActive)
}

func TestIsWorkerEnabled(t *testing.T) {
	cfg := validTestConfig()
	assert.True(t, IsWorkerEnabled(cfg, "extract-knowledge"))

	cfg.Workers = map[string]WorkerConfig{"extract-knowledge": {Enabled: false}}
	assert.False(t, IsWorkerEnabled(cfg, "extract-knowledge"))
}

func TestGetDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "db", Port: 5432, Database: "knowledge",
		User: "app", Password: "secret", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=db port=5432 user=app password=secret dbname=knowledge sslmode=disable",
		p.GetDSN(),
	)
}
