package handlers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/rest-api-modernized/models"
	"github.com/upb/rest-api-modernized/oidc"
	"github.com/upb/rest-api-modernized/repositories"
	"github.com/upb/rest-api-modernized/services"
	"github.com/upb/rest-api-modernized/services/tasks"
	"go.uber.org/zap"
)

func newTaskRouter(svc TaskService, user *oidc.AuthenticatedUser) http.Handler {
	h := NewTaskHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Use(withUser(user))
	r.Post("/tasks", h.HandleCreate)
	r.Get("/tasks", h.HandleList)
	r.Get("/tasks/{id}", h.HandleGet)
	r.Patch("/tasks/{id}", h.HandleUpdate)
	r.Delete("/tasks/{id}", h.HandleDelete)
	return r
}

func TestTaskHandler_Create(t *testing.T) {
	projectID := uuid.New()

	t.Run("status omitted uses service default", func(t *testing.T) {
		svc := new(MockTaskService)
		task := models.NewTask(projectID, "Review IAM", nil, "")
		svc.On("Create", mock.Anything, testUser, tasks.CreateInput{ProjectID: projectID, Title: "Review IAM"}).
			Return(task, nil)

		rec := serve(newTaskRouter(svc, testUser), http.MethodPost, "/tasks",
			jsonBody(t, map[string]string{"project_id": projectID.String(), "title": "Review IAM"}))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"open"`)
		svc.AssertExpectations(t)
	})

	t.Run("unknown project", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("Create", mock.Anything, testUser, mock.Anything).Return(nil, services.ErrProjectNotFound)

		rec := serve(newTaskRouter(svc, testUser), http.MethodPost, "/tasks",
			jsonBody(t, map[string]string{"project_id": projectID.String(), "title": "Review IAM", "status": "done"}))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Project not found.", decodeProblem(t, rec).Detail)
	})

	tests := []struct {
		name     string
		body     string
		wantLoc  []string
		wantType string
	}{
		{name: "invalid project id", body: `{"project_id":"nope","title":"x"}`, wantLoc: []string{"body", "project_id"}, wantType: "uuid_parsing"},
		{name: "missing project id", body: `{"title":"x"}`, wantLoc: []string{"body", "project_id"}, wantType: "missing"},
		{name: "empty status", body: `{"project_id":"` + projectID.String() + `","title":"x","status":""}`, wantLoc: []string{"body", "status"}, wantType: "string_too_short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockTaskService)

			rec := serve(newTaskRouter(svc, testUser), http.MethodPost, "/tasks", jsonBody(t, tt.body))

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			problem := decodeProblem(t, rec)
			require.NotEmpty(t, problem.Errors)
			assert.Equal(t, tt.wantLoc, problem.Errors[0].Loc)
			assert.Equal(t, tt.wantType, problem.Errors[0].Type)
		})
	}
}

func TestTaskHandler_List(t *testing.T) {
	projectID := uuid.New()

	t.Run("filters passed through", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("List", mock.Anything, repositories.TaskFilter{
			ProjectID: &projectID,
			Status:    strPtr("open"),
			Query:     strPtr("iam"),
			Limit:     5,
		}).Return([]*models.Task{}, 0, nil)

		rec := serve(newTaskRouter(svc, testUser), http.MethodGet,
			"/tasks?project_id="+projectID.String()+"&status=open&q=iam&limit=5", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("invalid project filter", func(t *testing.T) {
		svc := new(MockTaskService)

		rec := serve(newTaskRouter(svc, testUser), http.MethodGet, "/tasks?project_id=123", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		problem := decodeProblem(t, rec)
		require.Len(t, problem.Errors, 1)
		assert.Equal(t, []string{"query", "project_id"}, problem.Errors[0].Loc)
	})
}

func TestTaskHandler_UpdateAndDelete(t *testing.T) {
	id := uuid.New()

	t.Run("update status", func(t *testing.T) {
		svc := new(MockTaskService)
		task := models.NewTask(uuid.New(), "t", nil, "done")
		svc.On("Update", mock.Anything, testUser, id, tasks.UpdateInput{Status: strPtr("done")}).Return(task, nil)

		rec := serve(newTaskRouter(svc, testUser), http.MethodPatch, "/tasks/"+id.String(), jsonBody(t, `{"status":"done"}`))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("get missing", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("Get", mock.Anything, id).Return(nil, services.ErrTaskNotFound)

		rec := serve(newTaskRouter(svc, testUser), http.MethodGet, "/tasks/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Task not found.", decodeProblem(t, rec).Detail)
	})

	t.Run("delete forbidden", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("Delete", mock.Anything, testUser, id).Return(services.RequireAdmin(testUser, "delete tasks"))

		rec := serve(newTaskRouter(svc, testUser), http.MethodDelete, "/tasks/"+id.String(), nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("Delete", mock.Anything, testAdmin, id).Return(nil)

		rec := serve(newTaskRouter(svc, testAdmin), http.MethodDelete, "/tasks/"+id.String(), nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
