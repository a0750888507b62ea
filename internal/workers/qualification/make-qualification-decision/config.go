// internal/workers/qualification/make-qualification-decision/config.go
package makequalificationdecision

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
