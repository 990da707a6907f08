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

const vulnerabilityColumns = `id, project_id, title, description, severity, status, created_at, updated_at`

// VulnerabilityRepository implements the repositories.VulnerabilityRepository interface
type VulnerabilityRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewVulnerabilityRepository creates a new vulnerability repository
func NewVulnerabilityRepository(db *DB, logger *zap.Logger) repositories.VulnerabilityRepository {
	return &VulnerabilityRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new vulnerability
func (r *VulnerabilityRepository) Create(ctx context.Context, vuln *models.Vulnerability) error {
	query := `
		INSERT INTO vulnerabilities (id, project_id, title, description, severity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		vuln.ID,
		vuln.ProjectID,
		vuln.Title,
		vuln.Description,
		vuln.Severity,
		vuln.Status,
		vuln.CreatedAt,
		vuln.UpdatedAt,
	)
	if err != nil {
		return wrapError("create vulnerability", err)
	}

	r.logger.Debug("vulnerability created",
		zap.String("id", vuln.ID.String()),
		zap.String("severity", vuln.Severity))
	return nil
}

// GetByID retrieves a vulnerability by ID
func (r *VulnerabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Vulnerability, error) {
	query := `SELECT ` + vulnerabilityColumns + ` FROM vulnerabilities WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	vuln, err := scanVulnerability(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("vulnerability %s: %w", id, repositories.ErrNotFound)
		}
		return nil, wrapError("get vulnerability", err)
	}

	return vuln, nil
}

// List retrieves one page of vulnerabilities and the total matching count
func (r *VulnerabilityRepository) List(ctx context.Context, filter repositories.VulnerabilityFilter) ([]*models.Vulnerability, int, error) {
	var where whereBuilder
	if filter.ProjectID != nil {
		where.add("project_id = ?", *filter.ProjectID)
	}
	where.equals("severity", filter.Severity)
	where.equals("status", filter.Status)
	where.contains("title", filter.Query)

	executor := GetExecutor(ctx, r.db)

	var total int
	countQuery := `SELECT COUNT(*) FROM vulnerabilities` + where.clause()
	if err := executor.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, wrapError("count vulnerabilities", err)
	}

	pageClause, args := where.page(filter.Limit, filter.Offset)
	query := `SELECT ` + vulnerabilityColumns + ` FROM vulnerabilities` + where.clause() +
		` ORDER BY created_at DESC` + pageClause

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapError("list vulnerabilities", err)
	}
	defer rows.Close()

	vulns := make([]*models.Vulnerability, 0)
	for rows.Next() {
		vuln, err := scanVulnerability(rows)
		if err != nil {
			return nil, 0, wrapError("scan vulnerability", err)
		}
		vulns = append(vulns, vuln)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating vulnerability rows: %w", err)
	}

	return vulns, total, nil
}

// Update updates a vulnerability
func (r *VulnerabilityRepository) Update(ctx context.Context, vuln *models.Vulnerability) error {
	query := `
		UPDATE vulnerabilities
		SET title = $2,
		    description = $3,
		    severity = $4,
		    status = $5,
		    updated_at = $6
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		vuln.ID,
		vuln.Title,
		vuln.Description,
		vuln.Severity,
		vuln.Status,
		vuln.UpdatedAt,
	)
	if err != nil {
		return wrapError("update vulnerability", err)
	}

	return expectAffected(result, "vulnerability", vuln.ID)
}

// Delete deletes a vulnerability
func (r *VulnerabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, `DELETE FROM vulnerabilities WHERE id = $1`, id)
	if err != nil {
		return wrapError("delete vulnerability", err)
	}

	return expectAffected(result, "vulnerability", id)
}

func scanVulnerability(row rowScanner) (*models.Vulnerability, error) {
	vuln := &models.Vulnerability{}
	err := row.Scan(
		&vuln.ID,
		&vuln.ProjectID,
		&vuln.Title,
		&vuln.Description,
		&vuln.Severity,
		&vuln.Status,
		&vuln.CreatedAt,
		&vuln.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	vuln.CreatedAt = vuln.CreatedAt.UTC()
	vuln.UpdatedAt = vuln.UpdatedAt.UTC()
	return vuln, nil
}
