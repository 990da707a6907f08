package vulnerabilities

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/rest-api-modernized/models"
	"github.com/upb/rest-api-modernized/oidc"
	"github.com/upb/rest-api-modernized/repositories"
	"github.com/upb/rest-api-modernized/services"
	"go.uber.org/zap"
)

// CreateInput holds the fields of a new vulnerability.
// Empty Severity and Status fall back to the model defaults.
type CreateInput struct {
	ProjectID   uuid.UUID
	Title       string
	Description *string
	Severity    string
	Status      string
}

// UpdateInput holds a partial vulnerability update; nil fields are left unchanged
type UpdateInput struct {
	Title       *string
	Description *string
	Severity    *string
	Status      *string
}

// Service implements vulnerability use-cases
type Service struct {
	vulns    repositories.VulnerabilityRepository
	projects repositories.ProjectRepository
	txMgr    repositories.TransactionManager
	logger   *zap.Logger
}

// NewService creates a new vulnerability Service
func NewService(vulns repositories.VulnerabilityRepository, projects repositories.ProjectRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *Service {
	return &Service{
		vulns:    vulns,
		projects: projects,
		txMgr:    txMgr,
		logger:   logger,
	}
}

// Create records a vulnerability against an existing project
func (s *Service) Create(ctx context.Context, user *oidc.AuthenticatedUser, input CreateInput) (*models.Vulnerability, error) {
	vuln, err := services.WithTransactionResult(ctx, s.txMgr, func(ctx context.Context) (*models.Vulnerability, error) {
		if _, err := s.projects.GetByID(ctx, input.ProjectID); err != nil {
			return nil, services.FromRepository(err, services.ErrProjectNotFound)
		}

		vuln := models.NewVulnerability(input.ProjectID, input.Title, input.Description, input.Severity, input.Status)
		if err := s.vulns.Create(ctx, vuln); err != nil {
			return nil, services.FromRepository(err, services.ErrVulnerabilityNotFound)
		}
		return vuln, nil
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("vulnerability_id", vuln.ID.String()),
		zap.String("severity", vuln.Severity),
	}
	if user != nil {
		fields = append(fields, zap.String("subject", user.Subject))
	}
	s.logger.Info("vulnerability recorded", fields...)
	return vuln, nil
}

// Get returns a vulnerability by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Vulnerability, error) {
	vuln, err := s.vulns.GetByID(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrVulnerabilityNotFound)
	}
	return vuln, nil
}

// List returns one page of vulnerabilities and the total number matching the filter
func (s *Service) List(ctx context.Context, filter repositories.VulnerabilityFilter) ([]*models.Vulnerability, int, error) {
	vulns, total, err := s.vulns.List(ctx, filter)
	if err != nil {
		return nil, 0, services.FromRepository(err, nil)
	}
	return vulns, total, nil
}

// Update applies a partial update
func (s *Service) Update(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID, input UpdateInput) (*models.Vulnerability, error) {
	return services.WithTransactionResult(ctx, s.txMgr, func(ctx context.Context) (*models.Vulnerability, error) {
		vuln, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		if input.Title != nil {
			vuln.Title = *input.Title
		}
		if input.Description != nil {
			vuln.Description = input.Description
		}
		if input.Severity != nil {
			vuln.Severity = *input.Severity
		}
		if input.Status != nil {
			vuln.Status = *input.Status
		}
		vuln.UpdatedAt = models.Now()

		if err := s.vulns.Update(ctx, vuln); err != nil {
			return nil, services.FromRepository(err, services.ErrVulnerabilityNotFound)
		}
		return vuln, nil
	})
}

// Delete removes a vulnerability. Only admins may delete vulnerabilities.
func (s *Service) Delete(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID) error {
	if err := services.RequireAdmin(user, "delete vulnerabilities"); err != nil {
		return err
	}
	if err := s.vulns.Delete(ctx, id); err != nil {
		return services.FromRepository(err, services.ErrVulnerabilityNotFound)
	}
	return nil
}
