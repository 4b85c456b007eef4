package models

import "time"

// Task is a to-do item owned by exactly one user
type Task struct {
	ID          string    `json:"id" db:"id"`
	Description string    `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"completed"`
	Owner       string    `json:"owner" db:"owner"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreateTaskRequest represents the POST /tasks body
// Any owner sent by the client is ignored
type CreateTaskRequest struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// UpdateTaskRequest represents a PATCH /tasks/{id} body
type UpdateTaskRequest struct {
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// TaskUpdateFields lists the keys accepted by PATCH /tasks/{id}
var TaskUpdateFields = []string{"description", "completed"}

// Sort directions for TaskFilter
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// TaskFilter narrows GET /tasks to the caller's matching tasks
// Zero values mean "not specified"
type TaskFilter struct {
	Owner     string
	Completed *bool
	Includes  string
	SortBy    string // sort_by field; unknown fields fall back to insertion order
	SortDir   string
	Limit     int
	Skip      int
}

// Note: owner is a plain user id; there is no back-reference on User.
// Tasks of a user are always fetched with an explicit owner filter.
