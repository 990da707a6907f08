package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/rest-api-modernized/models"
	"github.com/upb/rest-api-modernized/repositories"
	"go.uber.org/zap"
)

const projectColumns = `id, name, description, created_at, updated_at`

// ProjectRepository implements the repositories.ProjectRepository interface
type ProjectRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB, logger *zap.Logger) repositories.ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return wrapError("create project", err)
	}

	r.logger.Debug("project created", zap.String("id", project.ID.String()))
	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	project, err := scanProject(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", id, repositories.ErrNotFound)
		}
		return nil, wrapError("get project", err)
	}

	return project, nil
}

// List retrieves one page of projects and the total matching count
func (r *ProjectRepository) List(ctx context.Context, filter repositories.ProjectFilter) ([]*models.Project, int, error) {
	var where whereBuilder
	where.contains("name", filter.Query)

	executor := GetExecutor(ctx, r.db)

	var total int
	countQuery := `SELECT COUNT(*) FROM projects` + where.clause()
	if err := executor.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, wrapError("count projects", err)
	}

	pageClause, args := where.page(filter.Limit, filter.Offset)
	query := `SELECT ` + projectColumns + ` FROM projects` + where.clause() +
		` ORDER BY created_at DESC` + pageClause

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapError("list projects", err)
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, wrapError("scan project", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, total, nil
}

// Update updates a project
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects
		SET name = $2,
		    description = $3,
		    updated_at = $4
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.UpdatedAt,
	)
	if err != nil {
		return wrapError("update project", err)
	}

	if err := expectAffected(result, "project", project.ID); err != nil {
		return err
	}

	r.logger.Debug("project updated", zap.String("id", project.ID.String()))
	return nil
}

// Delete deletes a project; tasks and vulnerabilities follow by cascade
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return wrapError("delete project", err)
	}

	if err := expectAffected(result, "project", id); err != nil {
		return err
	}

	r.logger.Debug("project deleted", zap.String("id", id.String()))
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	project := &models.Project{}
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	project.CreatedAt = project.CreatedAt.UTC()
	project.UpdatedAt = project.UpdatedAt.UTC()
	return project, nil
}

// expectAffected maps a zero-row update or delete to ErrNotFound
func expectAffected(result sql.Result, entity string, id uuid.UUID) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, repositories.ErrNotFound)
	}
	return nil
}
