package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/upb/rest-api-modernized/middleware"
	"github.com/upb/rest-api-modernized/services"
	"github.com/upb/rest-api-modernized/utils"
	"go.uber.org/zap"
)

// respondJSON writes a JSON response, logging encoder failures
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}, logger *zap.Logger) {
	if err := utils.WriteJSON(w, status, data); err != nil {
		logger.Error("failed to write response",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.Error(err))
	}
}

// pathID parses the {id} route parameter, reporting failures at ["path", name]
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return utils.ParseUUIDParam(name, chi.URLParam(r, "id"))
}

func asDomainError(err error) (*services.DomainError, bool) {
	var domainErr *services.DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// bodyUUID parses a UUID taken from the request body
func bodyUUID(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, utils.NewFieldValidationError(utils.FieldError{
			Loc:  []string{"body", name},
			Msg:  "Input should be a valid UUID",
			Type: "uuid_parsing",
		})
	}
	return id, nil
}
