// internal/workers/qualification/enrich-lead/config.go
package enrichlead

import "time"

type Config struct {
	Provider     string
	CacheEnabled bool
	CacheTTL     time.Duration
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Provider:     "heuristic",
		CacheEnabled: true,
		CacheTTL:     time.Hour,
		Timeout:      10 * time.Second,
	}
}
