package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTaskStatus is used when a task is created without a status
const DefaultTaskStatus = "open"

// Task is a work item within a project
type Task struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ProjectID   uuid.UUID `json:"project_id" db:"project_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}

// NewTask creates a new Task instance; an empty status becomes DefaultTaskStatus
func NewTask(projectID uuid.UUID, title string, description *string, status string) *Task {
	if status == "" {
		status = DefaultTaskStatus
	}
	now := Now()
	return &Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
