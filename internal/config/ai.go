package config

import "time"

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Analysis is for free-text analysis (keywords, sentiment, themes)
	Analysis string `json:"analysis"`

	// Report is for full narrative report generation (deep analysis,
	// allowed a larger time budget)
	Report string `json:"report"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey  string       `json:"-"` // Never serialize
	BaseURL string       `json:"baseUrl"`
	Models  GeminiModels `json:"models"`

	// Per-operation ceilings. A single attempt per request; on timeout
	// the pipeline falls back to deterministic content.
	AnalysisTimeout time.Duration `json:"analysisTimeout"`
	ReportTimeout   time.Duration `json:"reportTimeout"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  getEnv("GEMINI_API_KEY", ""),
		BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		Models: GeminiModels{
			Analysis: getEnv("GEMINI_MODEL_ANALYSIS", "gemini-2.0-flash"),
			Report:   getEnv("GEMINI_MODEL_REPORT", "gemini-2.0-flash"),
		},
		AnalysisTimeout: 120 * time.Second,
		ReportTimeout:   180 * time.Second,
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}
