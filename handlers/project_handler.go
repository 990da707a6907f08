package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/rest-api-modernized/middleware"
	"github.com/upb/rest-api-modernized/models"
	"github.com/upb/rest-api-modernized/oidc"
	"github.com/upb/rest-api-modernized/repositories"
	"github.com/upb/rest-api-modernized/services/projects"
	"github.com/upb/rest-api-modernized/utils"
	"go.uber.org/zap"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Name        *string `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description"`
}

// UpdateProjectRequest represents a partial project update
type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
}

// ProjectService defines the project use-cases the handler depends on
type ProjectService interface {
	Create(ctx context.Context, user *oidc.AuthenticatedUser, input projects.CreateInput) (*models.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, filter repositories.ProjectFilter) ([]*models.Project, int, error)
	Update(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID, input projects.UpdateInput) (*models.Project, error)
	Delete(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID) error
}

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	service ProjectService
	logger  *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(service ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate handles POST {prefix}/projects
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	project, err := h.service.Create(r.Context(), middleware.GetUserFromContext(r.Context()), projects.CreateInput{
		Name:        *req.Name,
		Description: req.Description,
	})
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	respondJSON(w, r, http.StatusCreated, project, h.logger)
}

// HandleList handles GET {prefix}/projects
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := utils.ParsePagination(r)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	items, total, err := h.service.List(r.Context(), repositories.ProjectFilter{
		Query:  utils.OptionalQuery(r, "q"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	respondJSON(w, r, http.StatusOK, utils.NewListResponse(items, total, page), h.logger)
}

// HandleGet handles GET {prefix}/projects/{id}
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "project_id")
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	project, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	respondJSON(w, r, http.StatusOK, project, h.logger)
}

// HandleUpdate handles PATCH {prefix}/projects/{id}
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "project_id")
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	var req UpdateProjectRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	project, err := h.service.Update(r.Context(), middleware.GetUserFromContext(r.Context()), id, projects.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	respondJSON(w, r, http.StatusOK, project, h.logger)
}

// HandleDelete handles DELETE {prefix}/projects/{id}
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "project_id")
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
