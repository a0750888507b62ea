// internal/workers/crm/sync-crm-lead/config.go
package synccrmlead

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
