package openai

// Config holds configuration for the LLM-backed SQL generator. The default
// base URL targets OpenRouter; any OpenAI-compatible endpoint works.
type Config struct {
	APIKey     string `env:"SQLGEN_API_KEY"`
	BaseURL    string `env:"SQLGEN_BASE_URL"    envDefault:"https://openrouter.ai/api/v1"`
	Model      string `env:"SQLGEN_MODEL"       envDefault:"openai/gpt-oss-20b"`
	Timeout    int    `env:"SQLGEN_TIMEOUT"     envDefault:"120"`
	MaxRetries int    `env:"SQLGEN_MAX_RETRIES" envDefault:"2"`
}
