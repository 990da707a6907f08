package postgres

import (
	"context"

	"github.com/upb/rest-api-modernized/repositories"
	"go.uber.org/zap"
)

// MaintenanceRepository implements the repositories.MaintenanceRepository interface
type MaintenanceRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(db *DB, logger *zap.Logger) repositories.MaintenanceRepository {
	return &MaintenanceRepository{
		db:     db,
		logger: logger,
	}
}

// HasAnyData reports whether any domain table has rows
func (r *MaintenanceRepository) HasAnyData(ctx context.Context) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM projects)
		    OR EXISTS (SELECT 1 FROM tasks)
		    OR EXISTS (SELECT 1 FROM vulnerabilities)
	`

	var exists bool
	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		return false, wrapError("check existing data", err)
	}
	return exists, nil
}

// DeleteAll removes children before parents
func (r *MaintenanceRepository) DeleteAll(ctx context.Context) error {
	executor := GetExecutor(ctx, r.db)
	for _, table := range []string{"vulnerabilities", "tasks", "projects"} {
		if _, err := executor.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return wrapError("delete "+table, err)
		}
		r.logger.Debug("table cleared", zap.String("table", table))
	}
	return nil
}
