package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const wellKnownPath = "/.well-known/openid-configuration"

// DiscoveryDocument is the provider metadata served at the well-known endpoint.
// Only jwks_uri is interpreted; other fields are kept as returned.
type DiscoveryDocument struct {
	fields map[string]interface{}
}

// NewDiscoveryDocument wraps decoded provider metadata
func NewDiscoveryDocument(fields map[string]interface{}) DiscoveryDocument {
	return DiscoveryDocument{fields: fields}
}

// JWKSURI returns the jwks_uri field. It is validated lazily so a document
// without it still caches, and the failure surfaces on the JWKS path.
func (d DiscoveryDocument) JWKSURI() (string, error) {
	raw, ok := d.fields["jwks_uri"]
	if !ok {
		return "", ErrMissingJWKSURI
	}
	uri, ok := raw.(string)
	if !ok || strings.TrimSpace(uri) == "" {
		return "", ErrMissingJWKSURI
	}
	return strings.TrimSpace(uri), nil
}

// Get returns an arbitrary metadata field
func (d DiscoveryDocument) Get(name string) (interface{}, bool) {
	v, ok := d.fields[name]
	return v, ok
}

// DiscoveryConfig holds configuration for DiscoveryClient
type DiscoveryConfig struct {
	Issuer      string
	CacheTTL    time.Duration
	HTTPTimeout time.Duration
	HTTPClient  *http.Client
	Recorder    FetchRecorder
}

// DiscoveryClient fetches and caches the provider's discovery document
type DiscoveryClient struct {
	issuer     string
	ttl        time.Duration
	httpClient *http.Client
	cache      *TokenCache[DiscoveryDocument]
	group      singleflight.Group
	recorder   FetchRecorder
	logger     *zap.Logger
}

// NewDiscoveryClient creates a discovery client backed by the given cache
func NewDiscoveryClient(config DiscoveryConfig, cache *TokenCache[DiscoveryDocument], logger *zap.Logger) *DiscoveryClient {
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = DefaultHTTPTimeout
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: config.HTTPTimeout}
	}
	if config.Recorder == nil {
		config.Recorder = nopRecorder{}
	}
	if cache == nil {
		cache = NewTokenCache[DiscoveryDocument](nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DiscoveryClient{
		issuer:     NormalizeIssuer(config.Issuer),
		ttl:        config.CacheTTL,
		httpClient: config.HTTPClient,
		cache:      cache,
		recorder:   config.Recorder,
		logger:     logger,
	}
}

// NormalizeIssuer trims whitespace and trailing slashes from an issuer URL
func NormalizeIssuer(issuer string) string {
	return strings.TrimRight(strings.TrimSpace(issuer), "/")
}

// Issuer returns the normalized issuer URL
func (d *DiscoveryClient) Issuer() string {
	return d.issuer
}

// Fetch returns the discovery document, from cache when fresh
func (d *DiscoveryClient) Fetch(ctx context.Context) (DiscoveryDocument, error) {
	if doc, ok := d.cache.Get(); ok {
		return doc, nil
	}

	if d.issuer == "" {
		return DiscoveryDocument{}, newError(KindConfiguration, "Server auth misconfiguration: OIDC_ISSUER_URL is not set.", nil)
	}

	url := d.issuer + wellKnownPath
	ch := d.group.DoChan(url, func() (interface{}, error) {
		// a flight that finished just before this one may have filled the cache
		if doc, ok := d.cache.Get(); ok {
			return doc, nil
		}
		return d.fetch(context.WithoutCancel(ctx), url)
	})

	doc, err := awaitFlight[DiscoveryDocument](ctx, ch)
	if err != nil {
		return DiscoveryDocument{}, newError(KindUnavailable, "Auth metadata unavailable.", err)
	}
	return doc, nil
}

func (d *DiscoveryClient) fetch(ctx context.Context, url string) (DiscoveryDocument, error) {
	start := time.Now()
	doc, err := d.download(ctx, url)
	d.recorder.RecordFetch("discovery", err, time.Since(start))
	if err != nil {
		d.logger.Warn("Failed to fetch OIDC discovery document", zap.String("url", url), zap.Error(err))
		return DiscoveryDocument{}, err
	}

	d.cache.Set(doc, d.ttl)
	d.logger.Debug("Fetched OIDC discovery document", zap.String("url", url))
	return doc, nil
}

func (d *DiscoveryClient) download(ctx context.Context, url string) (DiscoveryDocument, error) {
	body, err := fetchJSONObject(ctx, d.httpClient, url)
	if err != nil {
		return DiscoveryDocument{}, err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return DiscoveryDocument{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return NewDiscoveryDocument(fields), nil
}

// Clear drops the cached discovery document
func (d *DiscoveryClient) Clear() {
	d.cache.Clear()
}

// CacheStats returns the discovery cache state
func (d *DiscoveryClient) CacheStats() CacheStats {
	return d.cache.Stats()
}
