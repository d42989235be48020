// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Engine   EngineConfig            `mapstructure:"engine"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	NotesIndex string   `mapstructure:"notes_index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Engine Configuration ---

// EngineConfig holds the knowledge-engine tunables. The score weights and
// thresholds are scoring heuristics, not load-bearing invariants.
type EngineConfig struct {
	ConfidenceWeight   float64  `mapstructure:"confidence_weight"`
	RecencyWeight      float64  `mapstructure:"recency_weight"`
	RecencyHorizonDays int      `mapstructure:"recency_horizon_days"`
	EvidenceThreshold  int      `mapstructure:"evidence_threshold"`
	TrendRatio         float64  `mapstructure:"trend_ratio"`
	TrendMinFrequency  int      `mapstructure:"trend_min_frequency"`
	TrendWindowDays    int      `mapstructure:"trend_window_days"`
	MaxRelevantItems   int      `mapstructure:"max_relevant_items"`
	MaxExperts         int      `mapstructure:"max_experts"`
	MaxRelatedUsers    int      `mapstructure:"max_related_users"`
	MaxTrends          int      `mapstructure:"max_trends"`
	MaxTopSkills       int      `mapstructure:"max_top_skills"`
	ExtraSkills        []string `mapstructure:"extra_skills"`
	ExtraTopics        []string `mapstructure:"extra_topics"`
	ContextCacheTTL    int      `mapstructure:"context_cache_ttl"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
