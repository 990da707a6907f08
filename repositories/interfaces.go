package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/rest-api-modernized/models"
)

var (
	// ErrNotFound is returned when a row with the requested id does not exist
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a write violates a unique or foreign-key constraint
	ErrConflict = errors.New("constraint violation")
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// ProjectFilter narrows a project listing
type ProjectFilter struct {
	Query  *string // case-insensitive substring of name
	Limit  int
	Offset int
}

// TaskFilter narrows a task listing
type TaskFilter struct {
	ProjectID *uuid.UUID
	Status    *string
	Query     *string // case-insensitive substring of title
	Limit     int
	Offset    int
}

// VulnerabilityFilter narrows a vulnerability listing
type VulnerabilityFilter struct {
	ProjectID *uuid.UUID
	Severity  *string
	Status    *string
	Query     *string // case-insensitive substring of title
	Limit     int
	Offset    int
}

// ProjectRepository handles project data operations
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID, returning ErrNotFound when absent
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)

	// List returns one page of projects, newest first, and the total matching count
	List(ctx context.Context, filter ProjectFilter) ([]*models.Project, int, error)

	// Update updates a project
	Update(ctx context.Context, project *models.Project) error

	// Delete deletes a project and, by cascade, its tasks and vulnerabilities
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskRepository handles task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*models.Task, int, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// VulnerabilityRepository handles vulnerability data operations
type VulnerabilityRepository interface {
	Create(ctx context.Context, vuln *models.Vulnerability) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vulnerability, error)
	List(ctx context.Context, filter VulnerabilityFilter) ([]*models.Vulnerability, int, error)
	Update(ctx context.Context, vuln *models.Vulnerability) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MaintenanceRepository supports seeding the domain tables
type MaintenanceRepository interface {
	// HasAnyData reports whether any domain table has rows
	HasAnyData(ctx context.Context) (bool, error)

	// DeleteAll removes vulnerabilities, then tasks, then projects
	DeleteAll(ctx context.Context) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Projects        ProjectRepository
	Tasks           TaskRepository
	Vulnerabilities VulnerabilityRepository
	Maintenance     MaintenanceRepository
}
