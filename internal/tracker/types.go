package tracker

import "time"

// Issue is the tracker's issue representation as returned by the REST API.
type Issue struct {
	ID          string         `json:"id"`
	Key         string         `json:"key,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status,omitempty"`
	Assignee    string         `json:"assignee,omitempty"`
	Labels      []string       `json:"labels,omitempty"`
	Priority    int            `json:"priority,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
	CreatedAt   time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt,omitempty"`
}

// ListOptions narrow an issue listing.
type ListOptions struct {
	Query  string
	Status string
	Limit  int
}

// CreateRequest is the payload for creating an issue.
type CreateRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Assignee    string         `json:"assignee,omitempty"`
	Labels      []string       `json:"labels,omitempty"`
	Priority    int            `json:"priority,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
}

// UpdateRequest is the payload for updating an issue. Empty fields are left
// untouched by the tracker.
type UpdateRequest struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status,omitempty"`
	Assignee    string         `json:"assignee,omitempty"`
	Labels      []string       `json:"labels,omitempty"`
	Priority    int            `json:"priority,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
}

// listResponse is the wire shape of a listing.
type listResponse struct {
	Issues []Issue `json:"issues"`
	Total  int     `json:"total"`
}
