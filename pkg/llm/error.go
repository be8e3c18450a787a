// Package llm talks to the language-model collaborator: it renders the
// conversation into a single prompt, sends it to an Ollama-compatible
// generate endpoint, and decodes whichever response shape comes back.
package llm

// ErrorResponse is the JSON error body the HTTP surface returns to clients.
type ErrorResponse struct {
	Error string `json:"error"`
}
