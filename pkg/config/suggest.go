package config

import "time"

const (
	SuggestOpenAI    = "openai"
	SuggestAnthropic = "anthropic"
	SuggestGemini    = "gemini"
	SuggestBedrock   = "bedrock"
	SuggestDisabled  = "none"
)

// SuggestConfig configures the content-suggestion provider. The openai
// provider targets any OpenAI-compatible endpoint, Groq by default. Gemini
// uses Vertex AI when GCPProject is set, and bedrock authenticates with the
// default AWS credential chain in AWSRegion.
type SuggestConfig struct {
	Provider    string
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration

	GCPProject  string
	GCPLocation string
	AWSRegion   string
}

func loadSuggestConfig() SuggestConfig {
	return SuggestConfig{
		Provider:    getEnv("SUGGEST_PROVIDER", SuggestOpenAI),
		BaseURL:     getEnv("SUGGEST_BASE_URL", "https://api.groq.com/openai/v1"),
		Model:       getEnv("SUGGEST_MODEL", ""),
		APIKey:      getEnv("SUGGEST_API_KEY", ""),
		Temperature: getEnvFloat("SUGGEST_TEMPERATURE", 0.3),
		MaxTokens:   getEnvInt("SUGGEST_MAX_TOKENS", 0),
		Timeout:     getEnvDuration("SUGGEST_TIMEOUT", time.Minute),
		GCPProject:  getEnv("SUGGEST_GCP_PROJECT", ""),
		GCPLocation: getEnv("SUGGEST_GCP_LOCATION", "us-central1"),
		AWSRegion:   getEnv("SUGGEST_AWS_REGION", getEnv("AWS_REGION", "us-east-1")),
	}
}
