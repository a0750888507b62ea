// internal/workers/qualification/calculate-qualification-score/config.go
package calculatequalificationscore

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
