// internal/workers/knowledge/build-context/config.go
package buildcontext

import "time"

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  30 * time.Second,
		CacheTTL: 2 * time.Minute,
	}
}
