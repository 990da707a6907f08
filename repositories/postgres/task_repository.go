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

const taskColumns = `id, project_id, title, description, status, created_at, updated_at`

// TaskRepository implements the repositories.TaskRepository interface
type TaskRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB, logger *zap.Logger) repositories.TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, project_id, title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		task.ID,
		task.ProjectID,
		task.Title,
		task.Description,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return wrapError("create task", err)
	}

	r.logger.Debug("task created",
		zap.String("id", task.ID.String()),
		zap.String("project_id", task.ProjectID.String()))
	return nil
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	task, err := scanTask(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, repositories.ErrNotFound)
		}
		return nil, wrapError("get task", err)
	}

	return task, nil
}

// List retrieves one page of tasks and the total matching count
func (r *TaskRepository) List(ctx context.Context, filter repositories.TaskFilter) ([]*models.Task, int, error) {
	var where whereBuilder
	if filter.ProjectID != nil {
		where.add("project_id = ?", *filter.ProjectID)
	}
	where.equals("status", filter.Status)
	where.contains("title", filter.Query)

	executor := GetExecutor(ctx, r.db)

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks` + where.clause()
	if err := executor.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, wrapError("count tasks", err)
	}

	pageClause, args := where.page(filter.Limit, filter.Offset)
	query := `SELECT ` + taskColumns + ` FROM tasks` + where.clause() +
		` ORDER BY created_at DESC` + pageClause

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapError("list tasks", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, wrapError("scan task", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, total, nil
}

// Update updates a task
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $2,
		    description = $3,
		    status = $4,
		    updated_at = $5
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.UpdatedAt,
	)
	if err != nil {
		return wrapError("update task", err)
	}

	if err := expectAffected(result, "task", task.ID); err != nil {
		return err
	}

	r.logger.Debug("task updated", zap.String("id", task.ID.String()))
	return nil
}

// Delete deletes a task
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return wrapError("delete task", err)
	}

	return expectAffected(result, "task", id)
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return task, nil
}
