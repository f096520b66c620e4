package supplier

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST DTOs
// ══════════════════════════════════════════════════════════════════════════════

// SearchRequestDTO describes a resource search query sent to the supplier API.
type SearchRequestDTO struct {
	// Query is the search phrase, usually the subskill name.
	Query string `json:"query"`

	// Limit caps the number of results returned.
	Limit int `json:"limit,omitempty"`

	// Language restricts results to a language code (e.g. "en").
	Language string `json:"language,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE DTOs
// ══════════════════════════════════════════════════════════════════════════════

// SearchResultDTO is a single resource candidate as returned by the supplier.
type SearchResultDTO struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Score       int    `json:"score,omitempty"`
}

// APIResponse is the standard envelope used by the supplier API.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
}

// APIErrorDTO represents an error body from the supplier API.
type APIErrorDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIErrorDTO) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}
