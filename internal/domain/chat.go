package domain

// ============================================================
// Chat — request/response between the caller and this service
// ============================================================

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	// Message is the raw natural-language query — required.
	Message string `json:"message"`

	// SessionID ties consecutive turns to one conversation. When
	// absent the server mints one and returns it; the caller must echo
	// it to keep follow-up context ("and what about Bangalore?").
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is what the service returns for one turn. Intent and
// entities are echoed for the frontend alongside the rendered answer.
type ChatResponse struct {
	Response   string   `json:"response"`
	Intent     string   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Entities   Entities `json:"entities"`
	SessionID  string   `json:"session_id"`

	// Degraded marks a turn whose answer was degraded by a
	// collaborator failure. Accounting only, never serialized.
	Degraded bool `json:"-"`
}
