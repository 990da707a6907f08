package projects

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/rest-api-modernized/models"
	"github.com/upb/rest-api-modernized/oidc"
	"github.com/upb/rest-api-modernized/repositories"
	"github.com/upb/rest-api-modernized/repositories/mocks"
	"github.com/upb/rest-api-modernized/services"
	"go.uber.org/zap"
)

var (
	admin  = &oidc.AuthenticatedUser{Subject: "admin-1", Roles: []string{"admin"}}
	viewer = &oidc.AuthenticatedUser{Subject: "viewer-1", Roles: []string{"viewer"}}
)

func newTestService(t *testing.T) (*Service, *mocks.ProjectRepository, *mocks.Transaction) {
	t.Helper()
	repo := new(mocks.ProjectRepository)
	txMgr, tx := mocks.PassthroughTransactions(context.Background())
	return NewService(repo, txMgr, zap.NewNop()), repo, tx
}

func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("admin creates project", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.On("Create", ctx, mock.MatchedBy(func(p *models.Project) bool {
			return p.Name == "Acme" && p.Description == nil && p.ID != uuid.Nil
		})).Return(nil)

		project, err := svc.Create(ctx, admin, CreateInput{Name: "Acme"})

		require.NoError(t, err)
		assert.Equal(t, "Acme", project.Name)
		assert.Equal(t, project.CreatedAt, project.UpdatedAt)
		repo.AssertExpectations(t)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		project, err := svc.Create(ctx, viewer, CreateInput{Name: "Acme"})

		assert.Nil(t, project)
		assert.True(t, services.IsForbiddenError(err))
		assert.Contains(t, err.Error(), "Not authorized to create projects.")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("constraint violation becomes conflict", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.On("Create", ctx, mock.Anything).Return(fmt.Errorf("failed to create project: %w", repositories.ErrConflict))

		_, err := svc.Create(ctx, admin, CreateInput{Name: "Acme"})

		assert.True(t, services.IsConflictError(err))
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.On("GetByID", ctx, id).Return(&models.Project{ID: id, Name: "Acme"}, nil)

		project, err := svc.Get(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, id, project.ID)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.On("GetByID", ctx, id).Return(nil, repositories.ErrNotFound)

		_, err := svc.Get(ctx, id)

		assert.True(t, services.IsNotFoundError(err))
		var domainErr *services.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "Project not found.", domainErr.Message)
	})

	t.Run("database failure is internal", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.On("GetByID", ctx, id).Return(nil, errors.New("connection reset"))

		_, err := svc.Get(ctx, id)

		assert.True(t, services.IsInternalError(err))
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)
	filter := repositories.ProjectFilter{Query: strPtr("acme"), Limit: 10, Offset: 5}
	items := []*models.Project{{ID: uuid.New(), Name: "Acme"}}
	repo.On("List", ctx, filter).Return(items, 11, nil)

	got, total, err := svc.List(ctx, filter)

	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.Equal(t, 11, total)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("partial update keeps unspecified fields", func(t *testing.T) {
		svc, repo, tx := newTestService(t)
		existing := models.NewProject("Old", strPtr("keep me"))
		existing.ID = id
		createdAt := existing.CreatedAt
		repo.On("GetByID", ctx, id).Return(existing, nil)
		repo.On("Update", ctx, existing).Return(nil)

		project, err := svc.Update(ctx, admin, id, UpdateInput{Name: strPtr("New")})

		require.NoError(t, err)
		assert.Equal(t, "New", project.Name)
		require.NotNil(t, project.Description)
		assert.Equal(t, "keep me", *project.Description)
		assert.Equal(t, createdAt, project.CreatedAt)
		assert.False(t, project.UpdatedAt.Before(createdAt))
		assert.True(t, tx.Committed)
	})

	t.Run("missing project rolls back", func(t *testing.T) {
		svc, repo, tx := newTestService(t)
		repo.On("GetByID", ctx, id).Return(nil, repositories.ErrNotFound)

		_, err := svc.Update(ctx, admin, id, UpdateInput{Name: strPtr("New")})

		assert.True(t, services.IsNotFoundError(err))
		assert.True(t, tx.RolledBack)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		_, err := svc.Update(ctx, viewer, id, UpdateInput{Name: strPtr("New")})

		assert.True(t, services.IsForbiddenError(err))
		assert.Contains(t, err.Error(), "Not authorized to update projects.")
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	tests := []struct {
		name      string
		user      *oidc.AuthenticatedUser
		repoErr   error
		callsRepo bool
		check     func(error) bool
	}{
		{name: "admin deletes", user: admin, callsRepo: true},
		{name: "realm-admin deletes", user: &oidc.AuthenticatedUser{Subject: "r", Roles: []string{"realm-admin"}}, callsRepo: true},
		{name: "missing project", user: admin, repoErr: repositories.ErrNotFound, callsRepo: true, check: services.IsNotFoundError},
		{name: "viewer forbidden", user: viewer, check: services.IsForbiddenError},
		{name: "anonymous forbidden", user: nil, check: services.IsForbiddenError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService(t)
			if tt.callsRepo {
				repo.On("Delete", ctx, id).Return(tt.repoErr)
			}

			err := svc.Delete(ctx, tt.user, id)

			if tt.check == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tt.check(err))
			}
			if !tt.callsRepo {
				repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			}
			repo.AssertExpectations(t)
		})
	}
}
