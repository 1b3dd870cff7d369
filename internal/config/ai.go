package config

import "os"

// GenerationParams are the sampling parameters sent with every model call
type GenerationParams struct {
	MaxOutputTokens int      `json:"maxOutputTokens"`
	Temperature     float64  `json:"temperature"`
	TopK            int      `json:"topK"`
	TopP            float64  `json:"topP"`
	StopSequences   []string `json:"stopSequences,omitempty"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey  string           `json:"-"` // Never serialize
	BaseURL string           `json:"baseUrl"`
	Model   string           `json:"model"`
	Params  GenerationParams `json:"params"`

	// Per-attempt timeout and retry envelope
	TimeoutMS     int `json:"timeoutMs"`
	MaxAttempts   int `json:"maxAttempts"`
	BackoffBaseMS int `json:"backoffBaseMs"`
	JitterMaxMS   int `json:"jitterMaxMs"`

	// Overall wall-clock budget. Generation is not started when more
	// than BudgetGuardPct percent of the budget is already spent.
	BudgetMS       int `json:"budgetMs"`
	BudgetGuardPct int `json:"budgetGuardPct"`

	// Output shape
	TargetCount int  `json:"targetCount"`
	RequireTips bool `json:"requireTips"`
	MaxTips     int  `json:"maxTips"`
	TipMaxWords int  `json:"tipMaxWords"`

	// When true, exhausting all attempts serves the static fallback set
	// as a success instead of surfacing a generation error.
	FallbackOnExhaustion bool `json:"fallbackOnExhaustion"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Model:   getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		Params: GenerationParams{
			MaxOutputTokens: getEnvInt("GEMINI_MAX_OUTPUT_TOKENS", 8192),
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
		},
		TimeoutMS:            getEnvInt("GEMINI_TIMEOUT_MS", 25000),
		MaxAttempts:          getEnvInt("GEMINI_MAX_ATTEMPTS", 3),
		BackoffBaseMS:        getEnvInt("GEMINI_BACKOFF_BASE_MS", 1000),
		JitterMaxMS:          getEnvInt("GEMINI_JITTER_MAX_MS", 1000),
		BudgetMS:             getEnvInt("GENERATION_BUDGET_MS", 90000),
		BudgetGuardPct:       getEnvInt("GENERATION_BUDGET_GUARD_PCT", 30),
		TargetCount:          getEnvInt("QUESTION_TARGET_COUNT", 10),
		RequireTips:          getEnvOrDefault("QUESTION_REQUIRE_TIPS", "true") == "true",
		MaxTips:              3,
		TipMaxWords:          getEnvInt("QUESTION_TIP_MAX_WORDS", 25),
		FallbackOnExhaustion: getEnvOrDefault("FALLBACK_ON_EXHAUSTION", "true") == "true",
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full generateContent endpoint for the configured model
func (c *AIConfig) ModelEndpoint() string {
	return c.BaseURL + "/" + c.Model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
