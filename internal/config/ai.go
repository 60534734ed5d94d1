package config

// AIConfig holds the report narrator configuration
type AIConfig struct {
	APIKey    string `env:"API_KEY" json:"-"` // Never serialize
	Model     string `env:"MODEL_REPORT" envDefault:"gemini-2.0-flash" json:"model"`
	TimeoutMS int    `env:"TIMEOUT_MS" envDefault:"30000" json:"timeoutMs"`
}

// IsEnabled returns true if the AI API is configured
func (c AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}
