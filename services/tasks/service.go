package tasks

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/rest-api-modernized/models"
	"github.com/upb/rest-api-modernized/oidc"
	"github.com/upb/rest-api-modernized/repositories"
	"github.com/upb/rest-api-modernized/services"
	"go.uber.org/zap"
)

// CreateInput holds the fields of a new task. An empty Status becomes models.DefaultTaskStatus.
type CreateInput struct {
	ProjectID   uuid.UUID
	Title       string
	Description *string
	Status      string
}

// UpdateInput holds a partial task update; nil fields are left unchanged
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *string
}

// Service implements task use-cases
type Service struct {
	tasks    repositories.TaskRepository
	projects repositories.ProjectRepository
	txMgr    repositories.TransactionManager
	logger   *zap.Logger
}

// NewService creates a new task Service
func NewService(tasks repositories.TaskRepository, projects repositories.ProjectRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *Service {
	return &Service{
		tasks:    tasks,
		projects: projects,
		txMgr:    txMgr,
		logger:   logger,
	}
}

// Create stores a new task under an existing project. Any authenticated user may create tasks.
func (s *Service) Create(ctx context.Context, user *oidc.AuthenticatedUser, input CreateInput) (*models.Task, error) {
	task, err := services.WithTransactionResult(ctx, s.txMgr, func(ctx context.Context) (*models.Task, error) {
		if _, err := s.projects.GetByID(ctx, input.ProjectID); err != nil {
			return nil, services.FromRepository(err, services.ErrProjectNotFound)
		}

		task := models.NewTask(input.ProjectID, input.Title, input.Description, input.Status)
		if err := s.tasks.Create(ctx, task); err != nil {
			return nil, services.FromRepository(err, services.ErrTaskNotFound)
		}
		return task, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("task created",
		zap.String("task_id", task.ID.String()),
		zap.String("project_id", task.ProjectID.String()),
		zap.String("subject", subject(user)))
	return task, nil
}

// Get returns a task by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrTaskNotFound)
	}
	return task, nil
}

// List returns one page of tasks and the total number matching the filter
func (s *Service) List(ctx context.Context, filter repositories.TaskFilter) ([]*models.Task, int, error) {
	tasks, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, 0, services.FromRepository(err, nil)
	}
	return tasks, total, nil
}

// Update applies a partial update
func (s *Service) Update(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID, input UpdateInput) (*models.Task, error) {
	return services.WithTransactionResult(ctx, s.txMgr, func(ctx context.Context) (*models.Task, error) {
		task, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		if input.Title != nil {
			task.Title = *input.Title
		}
		if input.Description != nil {
			task.Description = input.Description
		}
		if input.Status != nil {
			task.Status = *input.Status
		}
		task.UpdatedAt = models.Now()

		if err := s.tasks.Update(ctx, task); err != nil {
			return nil, services.FromRepository(err, services.ErrTaskNotFound)
		}
		return task, nil
	})
}

// Delete removes a task. Only admins may delete tasks.
func (s *Service) Delete(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID) error {
	if err := services.RequireAdmin(user, "delete tasks"); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return services.FromRepository(err, services.ErrTaskNotFound)
	}
	return nil
}

func subject(user *oidc.AuthenticatedUser) string {
	if user == nil {
		return ""
	}
	return user.Subject
}
