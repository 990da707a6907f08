package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/rest-api-modernized/middleware"
	"github.com/upb/rest-api-modernized/models"
	"github.com/upb/rest-api-modernized/oidc"
	"github.com/upb/rest-api-modernized/repositories"
	"github.com/upb/rest-api-modernized/services/projects"
	"github.com/upb/rest-api-modernized/services/tasks"
	"github.com/upb/rest-api-modernized/services/vulnerabilities"
	"github.com/upb/rest-api-modernized/utils"
)

var (
	testAdmin = &oidc.AuthenticatedUser{Subject: "admin-1", Issuer: "https://idp.example.com/realms/test", Roles: []string{"admin", "editor"}}
	testUser  = &oidc.AuthenticatedUser{Subject: "user-1", Issuer: "https://idp.example.com/realms/test", Roles: []string{"viewer"}}
)

// MockProjectService is a mock implementation of ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, user *oidc.AuthenticatedUser, input projects.CreateInput) (*models.Project, error) {
	args := m.Called(ctx, user, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) List(ctx context.Context, filter repositories.ProjectFilter) ([]*models.Project, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Project), args.Int(1), args.Error(2)
}

func (m *MockProjectService) Update(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID, input projects.UpdateInput) (*models.Project, error) {
	args := m.Called(ctx, user, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID) error {
	return m.Called(ctx, user, id).Error(0)
}

// MockTaskService is a mock implementation of TaskService
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, user *oidc.AuthenticatedUser, input tasks.CreateInput) (*models.Task, error) {
	args := m.Called(ctx, user, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) List(ctx context.Context, filter repositories.TaskFilter) ([]*models.Task, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Task), args.Int(1), args.Error(2)
}

func (m *MockTaskService) Update(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID, input tasks.UpdateInput) (*models.Task, error) {
	args := m.Called(ctx, user, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID) error {
	return m.Called(ctx, user, id).Error(0)
}

// MockVulnerabilityService is a mock implementation of VulnerabilityService
type MockVulnerabilityService struct {
	mock.Mock
}

func (m *MockVulnerabilityService) Create(ctx context.Context, user *oidc.AuthenticatedUser, input vulnerabilities.CreateInput) (*models.Vulnerability, error) {
	args := m.Called(ctx, user, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vulnerability), args.Error(1)
}

func (m *MockVulnerabilityService) Get(ctx context.Context, id uuid.UUID) (*models.Vulnerability, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vulnerability), args.Error(1)
}

func (m *MockVulnerabilityService) List(ctx context.Context, filter repositories.VulnerabilityFilter) ([]*models.Vulnerability, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Vulnerability), args.Int(1), args.Error(2)
}

func (m *MockVulnerabilityService) Update(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID, input vulnerabilities.UpdateInput) (*models.Vulnerability, error) {
	args := m.Called(ctx, user, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vulnerability), args.Error(1)
}

func (m *MockVulnerabilityService) Delete(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID) error {
	return m.Called(ctx, user, id).Error(0)
}

// withUser injects user the way the auth middleware does
func withUser(user *oidc.AuthenticatedUser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user != nil {
				r = r.WithContext(middleware.WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	if s, ok := v.(string); ok {
		return bytes.NewBufferString(s)
	}
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func serve(handler http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) utils.Problem {
	t.Helper()
	require.Equal(t, utils.ProblemContentType, rec.Header().Get("Content-Type"))
	var problem utils.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func strPtr(s string) *string { return &s }
