// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/upb/rest-api-modernized/models"
	"github.com/upb/rest-api-modernized/repositories"
)

// ProjectRepository is a mock implementation of repositories.ProjectRepository
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, filter repositories.ProjectFilter) ([]*models.Project, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Project), args.Int(1), args.Error(2)
}

func (m *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// TaskRepository is a mock implementation of repositories.TaskRepository
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *TaskRepository) List(ctx context.Context, filter repositories.TaskFilter) ([]*models.Task, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Task), args.Int(1), args.Error(2)
}

func (m *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// VulnerabilityRepository is a mock implementation of repositories.VulnerabilityRepository
type VulnerabilityRepository struct {
	mock.Mock
}

func (m *VulnerabilityRepository) Create(ctx context.Context, vuln *models.Vulnerability) error {
	return m.Called(ctx, vuln).Error(0)
}

func (m *VulnerabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Vulnerability, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vulnerability), args.Error(1)
}

func (m *VulnerabilityRepository) List(ctx context.Context, filter repositories.VulnerabilityFilter) ([]*models.Vulnerability, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Vulnerability), args.Int(1), args.Error(2)
}

func (m *VulnerabilityRepository) Update(ctx context.Context, vuln *models.Vulnerability) error {
	return m.Called(ctx, vuln).Error(0)
}

func (m *VulnerabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MaintenanceRepository is a mock implementation of repositories.MaintenanceRepository
type MaintenanceRepository struct {
	mock.Mock
}

func (m *MaintenanceRepository) HasAnyData(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MaintenanceRepository) DeleteAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// TransactionManager is a mock implementation of repositories.TransactionManager
type TransactionManager struct {
	mock.Mock
}

func (m *TransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repositories.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

// Transaction is a mock implementation of repositories.Transaction.
// Ctx is returned from Context without recording a call.
type Transaction struct {
	mock.Mock
	Ctx        context.Context
	Committed  bool
	RolledBack bool
}

func (m *Transaction) Commit() error {
	args := m.Called()
	m.Committed = true
	return args.Error(0)
}

func (m *Transaction) Rollback() error {
	args := m.Called()
	m.RolledBack = true
	return args.Error(0)
}

func (m *Transaction) Context() context.Context {
	return m.Ctx
}

// PassthroughTransactions returns a TransactionManager whose Begin yields a transaction
// that commits and rolls back successfully, for tests that do not assert on transactions.
func PassthroughTransactions(ctx context.Context) (*TransactionManager, *Transaction) {
	tx := &Transaction{Ctx: ctx}
	tx.On("Commit").Return(nil).Maybe()
	tx.On("Rollback").Return(nil).Maybe()

	txMgr := new(TransactionManager)
	txMgr.On("Begin", mock.Anything).Return(tx, nil).Maybe()
	return txMgr, tx
}
