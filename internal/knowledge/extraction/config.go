// internal/knowledge/extraction/config.go
package extraction

// Config holds the extraction scoring knobs. The weights mirror the original
// relevance formula (confidence*0.7 + recency*0.3 over a 365-day horizon);
// they are tunable heuristics, not invariants.
type Config struct {
	ConfidenceWeight   float64
	RecencyWeight      float64
	RecencyHorizonDays float64
}

func DefaultConfig() *Config {
	return &Config{
		ConfidenceWeight:   0.7,
		RecencyWeight:      0.3,
		RecencyHorizonDays: 365,
	}
}
