package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/rest-api-modernized/models"
	"github.com/upb/rest-api-modernized/repositories"
	"go.uber.org/zap"
)

var taskRowColumns = []string{"id", "project_id", "title", "description", "status", "created_at", "updated_at"}

func TestTaskRepository_List(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	status := "open"
	q := "audit"
	now := time.Now().UTC()

	db, mock := newMockDB(t)
	repo := NewTaskRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tasks WHERE project_id = $1 AND status = $2 AND title ILIKE $3")).
		WithArgs(projectID, "open", "%audit%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT $4 OFFSET $5")).
		WithArgs(projectID, "open", "%audit%", 5, 0).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(uuid.New().String(), projectID.String(), "Enable org-wide audit logging", nil, "open", now, now))

	tasks, total, err := repo.List(ctx, repositories.TaskFilter{
		ProjectID: &projectID,
		Status:    &status,
		Query:     &q,
		Limit:     5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, tasks, 1)
	assert.Equal(t, projectID, tasks[0].ProjectID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("foreign key violation is a conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTaskRepository(db, zap.NewNop())

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
			WillReturnError(&pq.Error{Code: "23503"})

		err := repo.Create(ctx, models.NewTask(uuid.New(), "t", nil, ""))
		assert.True(t, errors.Is(err, repositories.ErrConflict))
	})

	t.Run("inserts row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTaskRepository(db, zap.NewNop())
		task := models.NewTask(uuid.New(), "Review IAM policies and roles", nil, "in_progress")

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
			WithArgs(task.ID, task.ProjectID, task.Title, nil, "in_progress", task.CreatedAt, task.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, task))
	})
}

func TestTaskRepository_GetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	db, mock := newMockDB(t)
	repo := NewTaskRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(taskRowColumns))
	_, err := repo.GetByID(ctx, id)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	task := models.NewTask(uuid.New(), "t", nil, "done")
	task.ID = id
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
		WithArgs(id, "t", nil, "done", task.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(ctx, task))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.Delete(ctx, id)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}
