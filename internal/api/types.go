package api

import (
	"fmt"
	"time"
)

// Hero is the wire representation of a hero record.
//
// This is the api-internal version of the hero type, decoupled from the
// root package to avoid circular dependencies.
type Hero struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Powers          []string  `json:"powers"`
	AlterEgo        string    `json:"alterEgo,omitempty"`
	Publisher       string    `json:"publisher"`
	FirstAppearance time.Time `json:"firstAppearance"`
	ImageURL        string    `json:"imageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Page is the paginated list response returned by the collection endpoint.
type Page struct {
	Data     []Hero `json:"data"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// Filters describes the list query parameters.
//
// Page is 1-based. Name, when non-empty, is sent as the name_like query
// parameter for server-side substring matching.
type Filters struct {
	Page     int
	PageSize int
	Name     string
}

// Draft is the create input: a hero without identity or timestamps.
type Draft struct {
	Name            string
	Powers          []string
	AlterEgo        string
	Publisher       string
	FirstAppearance time.Time
	ImageURL        string
}

// Patch is a partial update. Nil fields are omitted from the request body
// and left unchanged by the server.
type Patch struct {
	Name            *string    `json:"name,omitempty"`
	Powers          *[]string  `json:"powers,omitempty"`
	AlterEgo        *string    `json:"alterEgo,omitempty"`
	Publisher       *string    `json:"publisher,omitempty"`
	FirstAppearance *time.Time `json:"firstAppearance,omitempty"`
	ImageURL        *string    `json:"imageUrl,omitempty"`

	// UpdatedAt is stamped by the client on every update request, matching
	// the original service behavior. The server may overwrite it with its
	// own clock.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Error is a server error response: a non-2xx status with a message payload.
//
// The client returns *Error for every completed request with an error
// status; transport failures (no response at all) are returned as wrapped
// plain errors instead.
type Error struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Message is the human-readable message from the response body, or the
	// standard status text if the body carried none.
	Message string
}

// Error implements the error interface, combining status code and message.
func (e *Error) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}
