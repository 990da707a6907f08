package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultVulnerabilityStatus is used when a vulnerability is created without a status
	DefaultVulnerabilityStatus = "open"

	// DefaultSeverity is used when a vulnerability is created without a severity
	DefaultSeverity = "medium"
)

// Vulnerability is a finding within a project
type Vulnerability struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ProjectID   uuid.UUID `json:"project_id" db:"project_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Severity    string    `json:"severity" db:"severity"` // free-form label, e.g. low/medium/high/critical
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Vulnerability model
func (Vulnerability) TableName() string {
	return "vulnerabilities"
}

// NewVulnerability creates a new Vulnerability instance with default severity and status
func NewVulnerability(projectID uuid.UUID, title string, description *string, severity, status string) *Vulnerability {
	if severity == "" {
		severity = DefaultSeverity
	}
	if status == "" {
		status = DefaultVulnerabilityStatus
	}
	now := Now()
	return &Vulnerability{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Severity:    severity,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
