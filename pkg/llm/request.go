package llm

// GenerateRequest represents a text completion request (Ollama-compatible).
// The pipeline always sends the full rendered prompt and never streams.
type GenerateRequest struct {
	Model       string  `json:"model"`       // Model name (e.g., "llama3.1:8b")
	Prompt      string  `json:"prompt"`      // Fully rendered prompt, history included
	MaxTokens   int     `json:"max_tokens"`  // Reply length cap
	Temperature float64 `json:"temperature"` // Sampling temperature
	Stream      bool    `json:"stream"`      // Always false here
}
