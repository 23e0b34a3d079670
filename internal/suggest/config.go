package suggest

// Config controls the behavior of the Suggester.
type Config struct {
	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxNotes truncates assessor notes to this many bytes. Zero keeps all.
	MaxNotes int
}

// DefaultConfig returns recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   512,
		Temperature: 0.2,
		MaxNotes:    4000,
	}
}
