package phrasing

// Config holds LLM phrasing settings.
type Config struct {
	// BatchSize is the number of symptoms sent per request.
	BatchSize   int
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for LLM phrasing.
func DefaultConfig() Config {
	return Config{
		BatchSize:   40,
		MaxTokens:   2048,
		Temperature: 0.2,
	}
}
