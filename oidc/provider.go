package oidc

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Config holds everything needed to assemble the verification pipeline
type Config struct {
	Issuer      string
	Audience    string
	ClientID    string
	CacheTTL    time.Duration
	HTTPTimeout time.Duration
	Leeway      time.Duration
	HTTPClient  *http.Client
	Recorder    FetchRecorder
	Clock       Clock
}

// Provider wires discovery, key resolution, verification and role gating
// around two explicitly owned caches.
type Provider struct {
	Discovery *DiscoveryClient
	Keys      *KeyResolver
	Verifier  *TokenVerifier
	Gate      *AuthorizationGate
}

// NewProvider assembles the pipeline for config
func NewProvider(config Config, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("oidc")

	discovery := NewDiscoveryClient(DiscoveryConfig{
		Issuer:      config.Issuer,
		CacheTTL:    config.CacheTTL,
		HTTPTimeout: config.HTTPTimeout,
		HTTPClient:  config.HTTPClient,
		Recorder:    config.Recorder,
	}, NewTokenCache[DiscoveryDocument](config.Clock), logger)

	keys := NewKeyResolver(KeyResolverConfig{
		CacheTTL:    config.CacheTTL,
		HTTPTimeout: config.HTTPTimeout,
		HTTPClient:  config.HTTPClient,
		Recorder:    config.Recorder,
	}, discovery, NewTokenCache[*JWKS](config.Clock), logger)

	verifier := NewTokenVerifier(VerifierConfig{
		Issuer:   config.Issuer,
		Audience: config.Audience,
		ClientID: config.ClientID,
		Leeway:   config.Leeway,
	}, keys, config.Clock, logger)

	return &Provider{
		Discovery: discovery,
		Keys:      keys,
		Verifier:  verifier,
		Gate:      NewAuthorizationGate(verifier),
	}
}

// ClearCaches drops the cached discovery document and JWKS
func (p *Provider) ClearCaches() {
	p.Keys.Clear()
}

// CacheStats reports both caches, keyed by document
func (p *Provider) CacheStats() map[string]CacheStats {
	return map[string]CacheStats{
		"discovery": p.Discovery.CacheStats(),
		"jwks":      p.Keys.CacheStats(),
	}
}
