package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/rest-api-modernized/middleware"
	"github.com/upb/rest-api-modernized/models"
	"github.com/upb/rest-api-modernized/oidc"
	"github.com/upb/rest-api-modernized/repositories"
	"github.com/upb/rest-api-modernized/services/tasks"
	"github.com/upb/rest-api-modernized/utils"
	"go.uber.org/zap"
)

// CreateTaskRequest represents a request to create a task
type CreateTaskRequest struct {
	ProjectID   *string `json:"project_id" validate:"required"`
	Title       *string `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,min=1,max=50"`
}

// UpdateTaskRequest represents a partial task update
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,min=1,max=50"`
}

// TaskService defines the task use-cases the handler depends on
type TaskService interface {
	Create(ctx context.Context, user *oidc.AuthenticatedUser, input tasks.CreateInput) (*models.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, filter repositories.TaskFilter) ([]*models.Task, int, error)
	Update(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID, input tasks.UpdateInput) (*models.Task, error)
	Delete(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID) error
}

// TaskHandler handles task HTTP requests
type TaskHandler struct {
	service TaskService
	logger  *zap.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(service TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate handles POST {prefix}/tasks
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	projectID, err := bodyUUID("project_id", *req.ProjectID)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	input := tasks.CreateInput{
		ProjectID:   projectID,
		Title:       *req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		input.Status = *req.Status
	}

	task, err := h.service.Create(r.Context(), middleware.GetUserFromContext(r.Context()), input)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	respondJSON(w, r, http.StatusCreated, task, h.logger)
}

// HandleList handles GET {prefix}/tasks
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := utils.ParsePagination(r)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}
	projectID, err := utils.ParseUUIDQuery(r, "project_id")
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	items, total, err := h.service.List(r.Context(), repositories.TaskFilter{
		ProjectID: projectID,
		Status:    utils.OptionalQuery(r, "status"),
		Query:     utils.OptionalQuery(r, "q"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	respondJSON(w, r, http.StatusOK, utils.NewListResponse(items, total, page), h.logger)
}

// HandleGet handles GET {prefix}/tasks/{id}
func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "task_id")
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	respondJSON(w, r, http.StatusOK, task, h.logger)
}

// HandleUpdate handles PATCH {prefix}/tasks/{id}
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "task_id")
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	var req UpdateTaskRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	task, err := h.service.Update(r.Context(), middleware.GetUserFromContext(r.Context()), id, tasks.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	respondJSON(w, r, http.StatusOK, task, h.logger)
}

// HandleDelete handles DELETE {prefix}/tasks/{id}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "task_id")
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserFromContext(r.Context()), id); err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}
