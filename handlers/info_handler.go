package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/upb/rest-api-modernized/config"
	"github.com/upb/rest-api-modernized/middleware"
	"github.com/upb/rest-api-modernized/utils"
	"go.uber.org/zap"
)

// ServiceResponse identifies the running service
type ServiceResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// MessageResponse carries a short status message
type MessageResponse struct {
	Message string `json:"message"`
}

// InfoResponse describes the service and server time
type InfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	APIPrefix string `json:"api_prefix"`
	Timestamp string `json:"timestamp"`
}

// IdentityResponse echoes the caller's verified identity
type IdentityResponse struct {
	Subject  string   `json:"subject"`
	Username *string  `json:"username"`
	Email    *string  `json:"email"`
	Roles    []string `json:"roles"`
	Issuer   string   `json:"issuer"`
}

// AdminCheckResponse confirms an admin-only request was authorized
type AdminCheckResponse struct {
	OK      bool     `json:"ok"`
	Subject string   `json:"subject"`
	Roles   []string `json:"roles"`
}

// InfoHandler serves service metadata and the protected identity endpoints
type InfoHandler struct {
	app    config.AppConfig
	now    func() time.Time
	logger *zap.Logger
}

// NewInfoHandler creates a new InfoHandler
func NewInfoHandler(app config.AppConfig, logger *zap.Logger) *InfoHandler {
	return &InfoHandler{
		app:    app,
		now:    time.Now,
		logger: logger,
	}
}

// HandleRoot handles GET /
func (h *InfoHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, ServiceResponse{Name: h.app.Name, Version: h.app.Version}, h.logger)
}

// HandleAPIRoot handles GET {prefix}/
func (h *InfoHandler) HandleAPIRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("%s API is running", h.app.Name),
	}, h.logger)
}

// HandleInfo handles GET {prefix}/info
func (h *InfoHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, InfoResponse{
		Name:      h.app.Name,
		Version:   h.app.Version,
		APIPrefix: h.app.APIPrefix,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	}, h.logger)
}

// HandleProtected handles GET {prefix}/protected
func (h *InfoHandler) HandleProtected(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		_ = utils.WriteUnauthorized(w, r, "")
		return
	}
	respondJSON(w, r, http.StatusOK, IdentityResponse{
		Subject:  user.Subject,
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.RoleList(),
		Issuer:   user.Issuer,
	}, h.logger)
}

// HandleProtectedAdmin handles GET {prefix}/protected/admin
func (h *InfoHandler) HandleProtectedAdmin(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		_ = utils.WriteUnauthorized(w, r, "")
		return
	}
	respondJSON(w, r, http.StatusOK, AdminCheckResponse{
		OK:      true,
		Subject: user.Subject,
		Roles:   user.RoleList(),
	}, h.logger)
}
