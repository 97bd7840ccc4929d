package ollama

// GenerateRequest is the body of POST /api/generate
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"` // Set to false for a single, complete response
}

// GenerateResponse defines the relevant fields from the Ollama API response.
// Response is a pointer so an absent field can be told apart from an empty one.
type GenerateResponse struct {
	Model         string  `json:"model"`
	CreatedAt     string  `json:"created_at"`
	Response      *string `json:"response"`
	Done          bool    `json:"done"`
	TotalDuration int64   `json:"total_duration,omitempty"`
	EvalCount     int     `json:"eval_count,omitempty"`
}

// ErrorResponse represents an error response from Ollama's API.
type ErrorResponse struct {
	Error string `json:"error"`
}
