package api

import "fmt"

// SendRequest is the body of a user message submission.
type SendRequest struct {
	Message string `json:"message"`
}

// Plugin is one toggleable backend plugin.
type Plugin struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Persona describes an agent persona as served by the backend.
type Persona struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Moderated   bool   `json:"moderated"`
}

// PersonaRef is a persona listing entry.
type PersonaRef struct {
	Name string `json:"name"`
}

// Error is a non-2xx response from the backend, carrying the detail
// string when the body had one.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Detail, e.StatusCode)
	}
	return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
}
