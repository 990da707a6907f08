package oidc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// VerifierConfig holds configuration for TokenVerifier
type VerifierConfig struct {
	Issuer   string
	Audience string
	ClientID string
	Leeway   time.Duration
}

// TokenVerifier validates RS256 bearer tokens against the provider's keys
type TokenVerifier struct {
	issuer   string
	audience string
	clientID string
	leeway   time.Duration
	keys     *KeyResolver
	now      Clock
	logger   *zap.Logger
}

// NewTokenVerifier creates a verifier. A nil clock defaults to time.Now.
func NewTokenVerifier(config VerifierConfig, keys *KeyResolver, clock Clock, logger *zap.Logger) *TokenVerifier {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TokenVerifier{
		issuer:   NormalizeIssuer(config.Issuer),
		audience: strings.TrimSpace(config.Audience),
		clientID: strings.TrimSpace(config.ClientID),
		leeway:   config.Leeway,
		keys:     keys,
		now:      clock,
		logger:   logger,
	}
}

// Verify checks signature, issuer, audience, exp, iat and sub, and builds the principal
func (v *TokenVerifier) Verify(ctx context.Context, rawToken string) (*AuthenticatedUser, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, newError(KindUnauthenticated, "Missing Bearer token.", ErrMissingToken)
	}

	if v.issuer == "" {
		return nil, newError(KindConfiguration, "Server auth misconfiguration: OIDC_ISSUER_URL is not set.", nil)
	}
	if v.audience == "" {
		return nil, newError(KindConfiguration, "Server auth misconfiguration: OIDC_AUDIENCE is not set.", nil)
	}

	publicKey, err := v.keys.ResolveKey(ctx, rawToken)
	if err != nil {
		v.logger.Warn("Failed to resolve signing key", zap.Error(err))
		return nil, err
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	)

	mapClaims := jwt.MapClaims{}
	token, err := parser.ParseWithClaims(rawToken, mapClaims, func(*jwt.Token) (interface{}, error) {
		return publicKey, nil
	})
	if err != nil {
		v.logger.Warn("Token validation failed", zap.Error(err))
		return nil, newError(KindUnauthenticated, "Invalid access token.", err)
	}
	if !token.Valid {
		return nil, newError(KindUnauthenticated, "Invalid access token.", jwt.ErrTokenUnverifiable)
	}

	if err := requireClaims(mapClaims, "iat", "sub"); err != nil {
		v.logger.Warn("Token validation failed", zap.Error(err))
		return nil, newError(KindUnauthenticated, "Invalid access token.", err)
	}

	user := newAuthenticatedUser(NewClaims(mapClaims), v.issuer, v.clientID)
	if user.Subject == "" {
		return nil, newError(KindUnauthenticated, "Token missing subject.", jwt.ErrTokenRequiredClaimMissing)
	}

	return user, nil
}

// requireClaims fails when any of names is absent or null
func requireClaims(claims jwt.MapClaims, names ...string) error {
	var missing []string
	for _, name := range names {
		if v, ok := claims[name]; !ok || v == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.Join(jwt.ErrTokenRequiredClaimMissing, errors.New("missing claims: "+strings.Join(missing, ", ")))
	}
	return nil
}
