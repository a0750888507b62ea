// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Enrichment    EnrichmentConfig        `mapstructure:"enrichment"`
	Scoring       ScoringConfig           `mapstructure:"scoring"`
	CRM           CRMConfig               `mapstructure:"crm"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Registry      RegistryConfig          `mapstructure:"registry"`
	Logging       LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Specific Configuration Sections ---

// EnrichmentConfig holds settings for the enrich-lead worker. When
// Provider is "heuristic" (or empty) no external API is called.
type EnrichmentConfig struct {
	Provider string `mapstructure:"provider"` // "heuristic" or "http"
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds

	Cache struct {
		Enabled    bool `mapstructure:"enabled"`
		TTLSeconds int  `mapstructure:"ttl_seconds"`
	} `mapstructure:"cache"`
}

// ScoringConfig carries optional overrides for the qualification
// policy. Zero values mean "use the engine default".
type ScoringConfig struct {
	QualifiedCutoff    int `mapstructure:"qualified_cutoff"`
	NotQualifiedCutoff int `mapstructure:"not_qualified_cutoff"`
	ReviewBandLow      int `mapstructure:"review_band_low"`
	ReviewBandHigh     int `mapstructure:"review_band_high"`
	ConcernThreshold   int `mapstructure:"concern_threshold"`
}

// CRMConfig holds settings for the sync-crm-lead worker.
type CRMConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	OAuthToken string `mapstructure:"oauth_token"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
}

// NotificationConfig holds settings for the escalation-notify worker.
type NotificationConfig struct {
	Email struct {
		Enabled     bool   `mapstructure:"enabled"`
		FromEmail   string `mapstructure:"from_email"`
		ReviewQueue string `mapstructure:"review_queue"` // review team inbox
	} `mapstructure:"email"`
	SMS struct {
		Enabled bool `mapstructure:"enabled"`
		// MinTotalScore gates SMS to high-value qualified leads.
		MinTotalScore int    `mapstructure:"min_total_score"`
		SalesPhone    string `mapstructure:"sales_phone"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// RegistryConfig locates the activity registry document.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
