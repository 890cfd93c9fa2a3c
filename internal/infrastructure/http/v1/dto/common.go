// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// --- Session ---

// SessionResponse is returned when a session is opened.
type SessionResponse struct {
	SessionID string `json:"sessionId"`
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
