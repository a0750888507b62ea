// internal/workers/notification/escalation-notify/config.go
package escalationnotify

import "time"

type Config struct {
	EmailEnabled     bool
	SMSEnabled       bool
	FromEmail        string
	ReviewQueueEmail string
	SalesPhone       string
	SMSMinTotalScore int
	AWSRegion        string
	Timeout          time.Duration
}

func LoadConfig() *Config {
	return &Config{
		SMSMinTotalScore: 85,
		Timeout:          30 * time.Second,
	}
}
