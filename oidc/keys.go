package oidc

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// JWKS represents the JSON Web Key Set
type JWKS struct {
	Keys []JWK `json:"keys"`

	// noKeyList is set when the document has no keys array
	noKeyList bool
}

// UnmarshalJSON keeps the object entries that carry a string kid and skips the rest.
// Fields of a kept entry that are not strings decode as empty.
func (j *JWKS) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	j.Keys = nil
	j.noKeyList = false

	var entries []json.RawMessage
	raw, ok := doc["keys"]
	if !ok || json.Unmarshal(raw, &entries) != nil || entries == nil {
		j.noKeyList = true
		return nil
	}

	for _, entry := range entries {
		var fields map[string]interface{}
		if err := json.Unmarshal(entry, &fields); err != nil {
			continue
		}
		kid, ok := fields["kid"].(string)
		if !ok {
			continue
		}
		text := func(name string) string {
			v, _ := fields[name].(string)
			return v
		}
		j.Keys = append(j.Keys, JWK{
			Kid: kid,
			Kty: text("kty"),
			Alg: text("alg"),
			Use: text("use"),
			N:   text("n"),
			E:   text("e"),
		})
	}
	return nil
}

// JWK represents a JSON Web Key
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// KeyResolverConfig holds configuration for KeyResolver
type KeyResolverConfig struct {
	CacheTTL    time.Duration
	HTTPTimeout time.Duration
	HTTPClient  *http.Client
	Recorder    FetchRecorder
}

// KeyResolver selects the RSA verification key for a token from the provider JWKS.
// Keys are never cached individually: rotation is picked up when the JWKS entry expires.
type KeyResolver struct {
	discovery  *DiscoveryClient
	ttl        time.Duration
	httpClient *http.Client
	cache      *TokenCache[*JWKS]
	group      singleflight.Group
	recorder   FetchRecorder
	logger     *zap.Logger
}

// NewKeyResolver creates a key resolver backed by the given cache
func NewKeyResolver(config KeyResolverConfig, discovery *DiscoveryClient, cache *TokenCache[*JWKS], logger *zap.Logger) *KeyResolver {
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
		cache = NewTokenCache[*JWKS](nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &KeyResolver{
		discovery:  discovery,
		ttl:        config.CacheTTL,
		httpClient: config.HTTPClient,
		cache:      cache,
		recorder:   config.Recorder,
		logger:     logger,
	}
}

// FetchKeySet returns the provider JWKS, from cache when fresh
func (k *KeyResolver) FetchKeySet(ctx context.Context) (*JWKS, error) {
	if jwks, ok := k.cache.Get(); ok {
		return jwks, nil
	}

	doc, err := k.discovery.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	jwksURI, err := doc.JWKSURI()
	if err != nil {
		return nil, newError(KindUnavailable, "Auth metadata unavailable.", err)
	}

	ch := k.group.DoChan(jwksURI, func() (interface{}, error) {
		if jwks, ok := k.cache.Get(); ok {
			return jwks, nil
		}
		return k.fetch(context.WithoutCancel(ctx), jwksURI)
	})

	jwks, err := awaitFlight[*JWKS](ctx, ch)
	if err != nil {
		return nil, newError(KindUnavailable, "Auth metadata unavailable.", err)
	}
	return jwks, nil
}

func (k *KeyResolver) fetch(ctx context.Context, url string) (*JWKS, error) {
	start := time.Now()
	jwks, err := k.download(ctx, url)
	k.recorder.RecordFetch("jwks", err, time.Since(start))
	if err != nil {
		k.logger.Warn("Failed to fetch JWKS", zap.String("url", url), zap.Error(err))
		return nil, err
	}

	k.cache.Set(jwks, k.ttl)
	k.logger.Debug("Fetched JWKS", zap.String("url", url), zap.Int("keys", len(jwks.Keys)))
	return jwks, nil
}

func (k *KeyResolver) download(ctx context.Context, url string) (*JWKS, error) {
	body, err := fetchJSONObject(ctx, k.httpClient, url)
	if err != nil {
		return nil, err
	}

	var jwks JWKS
	if err := json.Unmarshal(body, &jwks); err != nil {
		return nil, fmt.Errorf("%w: failed to decode JWKS: %v", ErrFetchFailed, err)
	}
	return &jwks, nil
}

// SelectKey picks the key matching the token's kid header and converts it to an RSA public key.
// The token is not verified here.
func (k *KeyResolver) SelectKey(rawToken string, jwks *JWKS) (*rsa.PublicKey, error) {
	token, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err != nil {
		return nil, newError(KindUnauthenticated, "Invalid access token.", err)
	}

	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, newError(KindUnauthenticated, "Invalid access token.", ErrMissingKid)
	}

	if jwks != nil && jwks.noKeyList {
		return nil, newError(KindUnauthenticated, "Invalid access token.", ErrMissingKeyList)
	}

	var jwk *JWK
	if jwks != nil {
		for i := range jwks.Keys {
			if jwks.Keys[i].Kid == kid {
				jwk = &jwks.Keys[i]
				break
			}
		}
	}
	if jwk == nil {
		return nil, newError(KindUnauthenticated, "Invalid access token.", fmt.Errorf("%w: %s", ErrNoMatchingKey, kid))
	}

	publicKey, err := jwkToRSAPublicKey(jwk)
	if err != nil {
		return nil, newError(KindUnauthenticated, "Invalid access token.", err)
	}
	return publicKey, nil
}

// ResolveKey fetches the key set and selects the key for rawToken
func (k *KeyResolver) ResolveKey(ctx context.Context, rawToken string) (*rsa.PublicKey, error) {
	jwks, err := k.FetchKeySet(ctx)
	if err != nil {
		return nil, err
	}
	return k.SelectKey(rawToken, jwks)
}

// Clear drops both the JWKS and the discovery cache
func (k *KeyResolver) Clear() {
	k.cache.Clear()
	k.discovery.Clear()
}

// CacheStats returns the JWKS cache state
func (k *KeyResolver) CacheStats() CacheStats {
	return k.cache.Stats()
}

// jwkToRSAPublicKey converts a JWK to an RSA public key
func jwkToRSAPublicKey(jwk *JWK) (*rsa.PublicKey, error) {
	if jwk.Kty != "RSA" {
		return nil, fmt.Errorf("%w: kty %q", ErrUnsupportedKey, jwk.Kty)
	}
	if jwk.Alg != "" && jwk.Alg != "RS256" {
		return nil, fmt.Errorf("%w: alg %q", ErrUnsupportedKey, jwk.Alg)
	}
	if jwk.N == "" || jwk.E == "" {
		return nil, errors.New("JWK is missing modulus or exponent")
	}

	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	e := new(big.Int).SetBytes(eBytes)
	if !e.IsInt64() || e.Int64() < 2 || e.Int64() > math.MaxInt {
		return nil, errors.New("invalid RSA exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(e.Int64()),
	}, nil
}
