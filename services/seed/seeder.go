package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/rest-api-modernized/models"
	"github.com/upb/rest-api-modernized/repositories"
	"github.com/upb/rest-api-modernized/services"
	"go.uber.org/zap"
)

// Result reports what a seed run did
type Result struct {
	Skipped         bool
	Projects        int
	Tasks           int
	Vulnerabilities int
}

// Seeder loads a Dataset into the domain tables
type Seeder struct {
	repos   *repositories.Repositories
	txMgr   repositories.TransactionManager
	dataset Dataset
	logger  *zap.Logger
}

// NewSeeder creates a Seeder for dataset
func NewSeeder(repos *repositories.Repositories, txMgr repositories.TransactionManager, dataset Dataset, logger *zap.Logger) *Seeder {
	return &Seeder{
		repos:   repos,
		txMgr:   txMgr,
		dataset: dataset,
		logger:  logger,
	}
}

// Run seeds the database. With reset, all domain rows are deleted and committed first.
// Without reset, existing data makes the run a no-op reported as Skipped.
// The inserts happen in a single transaction.
func (s *Seeder) Run(ctx context.Context, reset bool) (Result, error) {
	if reset {
		err := services.WithTransaction(ctx, s.txMgr, func(ctx context.Context) error {
			return s.repos.Maintenance.DeleteAll(ctx)
		})
		if err != nil {
			return Result{}, fmt.Errorf("failed to reset domain tables: %w", err)
		}
		s.logger.Info("domain tables cleared")
	} else {
		hasData, err := s.repos.Maintenance.HasAnyData(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("failed to check existing data: %w", err)
		}
		if hasData {
			s.logger.Info("seed skipped, existing data found")
			return Result{Skipped: true}, nil
		}
	}

	result, err := services.WithTransactionResult(ctx, s.txMgr, s.insert)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("seed complete",
		zap.Int("projects", result.Projects),
		zap.Int("tasks", result.Tasks),
		zap.Int("vulnerabilities", result.Vulnerabilities))
	return result, nil
}

func (s *Seeder) insert(ctx context.Context) (Result, error) {
	var result Result
	projectIDs := make(map[string]uuid.UUID, len(s.dataset.Projects))

	for _, p := range s.dataset.Projects {
		project := models.NewProject(p.Name, stringPtr(p.Description))
		if err := s.repos.Projects.Create(ctx, project); err != nil {
			return result, fmt.Errorf("failed to insert project %q: %w", p.Key, err)
		}
		projectIDs[p.Key] = project.ID
		result.Projects++
	}

	for _, t := range s.dataset.Tasks {
		projectID, ok := projectIDs[t.ProjectKey]
		if !ok {
			return result, fmt.Errorf("task %q references unknown project %q", t.Title, t.ProjectKey)
		}
		task := models.NewTask(projectID, t.Title, stringPtr(t.Description), t.Status)
		if err := s.repos.Tasks.Create(ctx, task); err != nil {
			return result, fmt.Errorf("failed to insert task %q: %w", t.Title, err)
		}
		result.Tasks++
	}

	for _, v := range s.dataset.Vulnerabilities {
		projectID, ok := projectIDs[v.ProjectKey]
		if !ok {
			return result, fmt.Errorf("vulnerability %q references unknown project %q", v.Title, v.ProjectKey)
		}
		vuln := models.NewVulnerability(projectID, v.Title, stringPtr(v.Description), v.Severity, v.Status)
		if err := s.repos.Vulnerabilities.Create(ctx, vuln); err != nil {
			return result, fmt.Errorf("failed to insert vulnerability %q: %w", v.Title, err)
		}
		result.Vulnerabilities++
	}

	return result, nil
}

// stringPtr stores descriptions as empty strings rather than NULL
func stringPtr(s string) *string {
	return &s
}
