package handlers

import (
	"net/http"

	"github.com/upb/rest-api-modernized/middleware"
	"github.com/upb/rest-api-modernized/oidc"
	"github.com/upb/rest-api-modernized/services"
	"github.com/upb/rest-api-modernized/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps validation, authentication and domain errors to problem responses.
// Internal details are logged, never returned.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	requestID := middleware.GetRequestIDFromContext(r.Context())
	var writeErr error

	switch {
	case utils.IsValidationError(err):
		writeErr = utils.WriteValidationProblem(w, r, utils.GetValidationFields(err))

	case oidc.KindOf(err) != "":
		writeErr = writeOIDCError(w, r, err, logger, requestID)

	case services.IsNotFoundError(err):
		writeErr = utils.WriteNotFound(w, r, publicMessage(err))

	case services.IsValidationError(err):
		writeErr = utils.WriteValidationProblem(w, r, nil)

	case services.IsUnauthorizedError(err):
		writeErr = utils.WriteUnauthorized(w, r, publicMessage(err))

	case services.IsForbiddenError(err):
		writeErr = utils.WriteForbidden(w, r, publicMessage(err))

	case services.IsConflictError(err):
		logger.Warn("constraint violation",
			zap.String("request_id", requestID),
			zap.Error(err))
		writeErr = utils.WriteConflict(w, r, publicMessage(err))

	case services.IsUnavailableError(err):
		writeErr = utils.WriteServiceUnavailable(w, r, publicMessage(err))

	case services.IsInternalError(err):
		// Log internal errors but return the public message only
		logger.Error("internal server error",
			zap.String("request_id", requestID),
			zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, r, publicMessage(err))

	default:
		logger.Error("unhandled error type",
			zap.String("request_id", requestID),
			zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, r, "")
	}

	if writeErr != nil {
		logger.Error("failed to write error response",
			zap.String("request_id", requestID),
			zap.Error(writeErr))
	}
}

func writeOIDCError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger, requestID string) error {
	detail := oidc.PublicMessage(err)
	switch oidc.KindOf(err) {
	case oidc.KindUnauthenticated:
		return utils.WriteUnauthorized(w, r, detail)
	case oidc.KindForbidden:
		return utils.WriteForbidden(w, r, detail)
	case oidc.KindUnavailable:
		logger.Warn("oidc metadata unavailable", zap.String("request_id", requestID), zap.Error(err))
		return utils.WriteServiceUnavailable(w, r, detail)
	default:
		logger.Error("oidc configuration error", zap.String("request_id", requestID), zap.Error(err))
		return utils.WriteInternalServerError(w, r, detail)
	}
}

// publicMessage returns the client-safe message of a DomainError
func publicMessage(err error) string {
	if domainErr, ok := asDomainError(err); ok {
		return domainErr.Message
	}
	return ""
}
