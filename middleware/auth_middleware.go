package middleware

import (
	"net/http"
	"strings"

	"github.com/upb/rest-api-modernized/internal/observability"
	"github.com/upb/rest-api-modernized/oidc"
	"github.com/upb/rest-api-modernized/utils"
	"go.uber.org/zap"
)

// AuthMiddleware turns AuthorizationGate guards into HTTP middleware
type AuthMiddleware struct {
	gate    *oidc.AuthorizationGate
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware. metrics may be nil.
func NewAuthMiddleware(verifier oidc.Verifier, metrics *observability.Metrics, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		gate:    oidc.NewAuthorizationGate(verifier),
		metrics: metrics,
		logger:  logger,
	}
}

// RequireAuth is a middleware that requires a valid bearer token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return m.Require()(next)
}

// Require returns a middleware that requires a valid bearer token and any one of roles.
// With no roles it only authenticates.
func (m *AuthMiddleware) Require(roles ...string) func(http.Handler) http.Handler {
	guard := m.gate.Build(roles...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			// A user verified by an outer guard only needs the role check
			user := GetUserFromContext(ctx)
			var err error
			if user != nil {
				err = guard.Authorize(user)
			} else {
				user, err = guard.Check(ctx, extractBearerToken(r))
			}
			if err != nil {
				m.writeAuthError(w, r, requestID, guard.Required(), err)
				return
			}

			m.metrics.RecordAuth(observability.AuthOutcomeAuthenticated)
			m.logger.Debug("authentication successful",
				zap.String("request_id", requestID),
				zap.String("sub", user.Subject),
				zap.Strings("roles", user.Roles))

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}

func (m *AuthMiddleware) writeAuthError(w http.ResponseWriter, r *http.Request, requestID string, required []string, err error) {
	kind := oidc.KindOf(err)
	detail := oidc.PublicMessage(err)

	switch kind {
	case oidc.KindUnauthenticated:
		m.metrics.RecordAuth(observability.AuthOutcomeUnauthenticated)
		m.logger.Warn("authentication failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteUnauthorized(w, r, detail)
	case oidc.KindForbidden:
		m.metrics.RecordAuth(observability.AuthOutcomeForbidden)
		m.logger.Warn("insufficient permissions",
			zap.String("request_id", requestID),
			zap.Strings("required_roles", required))
		_ = utils.WriteForbidden(w, r, detail)
	case oidc.KindUnavailable:
		m.metrics.RecordAuth(observability.AuthOutcomeUnavailable)
		m.logger.Error("auth metadata unavailable",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteServiceUnavailable(w, r, detail)
	case oidc.KindConfiguration:
		m.metrics.RecordAuth(observability.AuthOutcomeConfiguration)
		m.logger.Error("auth misconfiguration",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, r, detail)
	default:
		m.logger.Error("unexpected authentication error",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, r, "")
	}
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Check if it starts with "Bearer "
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
