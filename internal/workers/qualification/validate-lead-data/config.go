// internal/workers/qualification/validate-lead-data/config.go
package validateleaddata

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
