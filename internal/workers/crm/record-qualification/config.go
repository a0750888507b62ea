// internal/workers/crm/record-qualification/config.go
package recordqualification

import "time"

type Config struct {
	SearchIndex string
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		SearchIndex: "lead-qualifications",
		Timeout:     10 * time.Second,
	}
}
