// internal/workers/knowledge/extract-knowledge/config.go
package extractknowledge

import "time"

type Config struct {
	Timeout         time.Duration
	SummaryCacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         60 * time.Second,
		SummaryCacheTTL: 10 * time.Minute,
	}
}
