package types

// TurnRequest is the single POST body: one user message, optionally pinned to
// an existing session.
type TurnRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Content   string `json:"message"`
}

// TurnResponse is the success envelope. Response carries the raw agent JSON
// as a string so the client parses the contract itself.
type TurnResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// ErrorResponse is the failure envelope, deliberately delivered with a 200
// status so the client RPC layer can always read the body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SessionSummary is one row of the threads panel.
type SessionSummary struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
	IsActive  bool   `json:"is_active"`
	UpdatedAt string `json:"updated_at"`
}
