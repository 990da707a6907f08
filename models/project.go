package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a security engagement that owns tasks and vulnerabilities
type Project struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Project model
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new Project instance
func NewProject(name string, description *string) *Project {
	now := Now()
	return &Project{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Now returns the current time in UTC truncated to the microsecond precision PostgreSQL stores
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
