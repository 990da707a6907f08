package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/rest-api-modernized/middleware"
	"github.com/upb/rest-api-modernized/models"
	"github.com/upb/rest-api-modernized/oidc"
	"github.com/upb/rest-api-modernized/repositories"
	"github.com/upb/rest-api-modernized/services/vulnerabilities"
	"github.com/upb/rest-api-modernized/utils"
	"go.uber.org/zap"
)

// CreateVulnerabilityRequest represents a request to record a vulnerability
type CreateVulnerabilityRequest struct {
	ProjectID   *string `json:"project_id" validate:"required"`
	Title       *string `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description"`
	Severity    *string `json:"severity" validate:"omitempty,min=1,max=30"`
	Status      *string `json:"status" validate:"omitempty,min=1,max=50"`
}

// UpdateVulnerabilityRequest represents a partial vulnerability update
type UpdateVulnerabilityRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Severity    *string `json:"severity" validate:"omitempty,min=1,max=30"`
	Status      *string `json:"status" validate:"omitempty,min=1,max=50"`
}

// VulnerabilityService defines the vulnerability use-cases the handler depends on
type VulnerabilityService interface {
	Create(ctx context.Context, user *oidc.AuthenticatedUser, input vulnerabilities.CreateInput) (*models.Vulnerability, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Vulnerability, error)
	List(ctx context.Context, filter repositories.VulnerabilityFilter) ([]*models.Vulnerability, int, error)
	Update(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID, input vulnerabilities.UpdateInput) (*models.Vulnerability, error)
	Delete(ctx context.Context, user *oidc.AuthenticatedUser, id uuid.UUID) error
}

// VulnerabilityHandler handles vulnerability HTTP requests
type VulnerabilityHandler struct {
	service VulnerabilityService
	logger  *zap.Logger
}

// NewVulnerabilityHandler creates a new VulnerabilityHandler
func NewVulnerabilityHandler(service VulnerabilityService, logger *zap.Logger) *VulnerabilityHandler {
	return &VulnerabilityHandler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate handles POST {prefix}/vulnerabilities
func (h *VulnerabilityHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateVulnerabilityRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	projectID, err := bodyUUID("project_id", *req.ProjectID)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	input := vulnerabilities.CreateInput{
		ProjectID:   projectID,
		Title:       *req.Title,
		Description: req.Description,
	}
	if req.Severity != nil {
		input.Severity = *req.Severity
	}
	if req.Status != nil {
		input.Status = *req.Status
	}

	vuln, err := h.service.Create(r.Context(), middleware.GetUserFromContext(r.Context()), input)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	respondJSON(w, r, http.StatusCreated, vuln, h.logger)
}

// HandleList handles GET {prefix}/vulnerabilities
func (h *VulnerabilityHandler) HandleList(w http.ResponseWriter, r *http.Request) {
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

	items, total, err := h.service.List(r.Context(), repositories.VulnerabilityFilter{
		ProjectID: projectID,
		Severity:  utils.OptionalQuery(r, "severity"),
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

// HandleGet handles GET {prefix}/vulnerabilities/{id}
func (h *VulnerabilityHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "vulnerability_id")
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	vuln, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	respondJSON(w, r, http.StatusOK, vuln, h.logger)
}

// HandleUpdate handles PATCH {prefix}/vulnerabilities/{id}
func (h *VulnerabilityHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "vulnerability_id")
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	var req UpdateVulnerabilityRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	vuln, err := h.service.Update(r.Context(), middleware.GetUserFromContext(r.Context()), id, vulnerabilities.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Severity:    req.Severity,
		Status:      req.Status,
	})
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	respondJSON(w, r, http.StatusOK, vuln, h.logger)
}

// HandleDelete handles DELETE {prefix}/vulnerabilities/{id}
func (h *VulnerabilityHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "vulnerability_id")
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
