package projects

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/rest-api-modernized/models"
	"github.com/upb/rest-api-modernized/oidc"
	"github.com/upb/rest-api-modernized/repositories"
	"github.com/upb/rest-api-modernized/services"
	"go.uber.org/zap"
)

// CreateInput holds the fields of a new project
type CreateInput struct {
	Name        string
	Description *string
}

// UpdateInput holds a partial project update; nil fields are left unchanged
type UpdateInput struct {
	Name        *string
	Description *string
}

// Service implements project use-cases
type Service struct {
	projects repositories.ProjectRepository
	txMgr    repositories.TransactionManager
	logger   *zap.Logger
}

// NewService creates a new project Service
func NewService(projects repositories.ProjectRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *Service {
	return &Service{
		projects: projects,
		txMgr:    txMgr,
		logger:   logger,
	}
}

// Create stores a new project. Only admins may create projects.
func (s *Service) Create(ctx context.Context, user *oidc.AuthenticatedUser, input CreateInput) (*models.Project, error) {
	if err := services.RequireAdmin(user, "create projects"); err != nil {
		return nil, err
	}

	project := models.NewProject(input.Name, input.Description)
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, services.FromRepository(err, services.ErrProjectNotFound)
	}

	s.logger.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("subject", user.Subject))

	return project, nil
}

// Get returns a project by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrProjectNotFound)
	}
	return project, nil
}

// List returns one page of projects and the total number matching the filter
func (s *Service) List(ctx context.Context, filter repositories.ProjectFilter) ([]*models.Project, int, error) {
	projects, total, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, 0, services.FromRepository(err, nil)
	}
	return projects, total, nil
}

// Update applies a partial update. Only admins may update projects.
func (s *Service) Update(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID, input UpdateInput) (*models.Project, error) {
	if err := services.RequireAdmin(user, "update projects"); err != nil {
		return nil, err
	}

	return services.WithTransactionResult(ctx, s.txMgr, func(ctx context.Context) (*models.Project, error) {
		project, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		if input.Name != nil {
			project.Name = *input.Name
		}
		if input.Description != nil {
			project.Description = input.Description
		}
		project.UpdatedAt = models.Now()

		if err := s.projects.Update(ctx, project); err != nil {
			return nil, services.FromRepository(err, services.ErrProjectNotFound)
		}
		return project, nil
	})
}

// Delete removes a project together with its tasks and vulnerabilities.
// Only admins may delete projects.
func (s *Service) Delete(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID) error {
	if err := services.RequireAdmin(user, "delete projects"); err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return services.FromRepository(err, services.ErrProjectNotFound)
	}

	s.logger.Info("project deleted",
		zap.String("project_id", id.String()),
		zap.String("subject", user.Subject))
	return nil
}
