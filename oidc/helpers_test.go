package oidc

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testAudience = "expected-aud"
	testClientID = "web-app"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Test helper to generate RSA key pair
func generateTestKeyPair(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return privateKey
}

func rsaJWK(kid string, publicKey *rsa.PublicKey) JWK {
	return JWK{
		Kid: kid,
		Kty: "RSA",
		Alg: "RS256",
		Use: "sig",
		N:   base64.RawURLEncoding.EncodeToString(publicKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(publicKey.E)).Bytes()),
	}
}

// mockProvider is an httptest OIDC provider serving discovery and JWKS
type mockProvider struct {
	server         *httptest.Server
	discoveryHits  atomic.Int32
	jwksHits       atomic.Int32
	mu             sync.Mutex
	keys           []JWK
	discoveryBody  string
	discoveryCode  int
	jwksBody       string
	jwksCode       int
	omitJWKSURI    bool
	discoveryDelay time.Duration
}

func newMockProvider(t *testing.T, keys ...JWK) *mockProvider {
	t.Helper()
	p := &mockProvider{keys: keys, discoveryCode: http.StatusOK, jwksCode: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("/realms/test/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		p.discoveryHits.Add(1)
		p.mu.Lock()
		code, body, omit, delay := p.discoveryCode, p.discoveryBody, p.omitJWKSURI, p.discoveryDelay
		p.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if body != "" {
			_, _ = w.Write([]byte(body))
			return
		}
		doc := map[string]interface{}{"issuer": p.issuer()}
		if !omit {
			doc["jwks_uri"] = p.server.URL + "/realms/test/protocol/openid-connect/certs"
		}
		_ = json.NewEncoder(w).Encode(doc)
	})
	mux.HandleFunc("/realms/test/protocol/openid-connect/certs", func(w http.ResponseWriter, r *http.Request) {
		p.jwksHits.Add(1)
		p.mu.Lock()
		code, body := p.jwksCode, p.jwksBody
		jwks := JWKS{Keys: append([]JWK{}, p.keys...)}
		p.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if body != "" {
			_, _ = w.Write([]byte(body))
			return
		}
		_ = json.NewEncoder(w).Encode(jwks)
	})

	p.server = httptest.NewServer(mux)
	t.Cleanup(p.server.Close)
	return p
}

func (p *mockProvider) issuer() string {
	return p.server.URL + "/realms/test"
}

func (p *mockProvider) setKeys(keys ...JWK) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = keys
}

func (p *mockProvider) setJWKSBody(body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jwksBody = body
}

func (p *mockProvider) setDiscoveryResponse(code int, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.discoveryCode = code
	p.discoveryBody = body
}

func (p *mockProvider) newProvider(clock *fakeClock) *Provider {
	return NewProvider(Config{
		Issuer:   p.issuer() + "/",
		Audience: testAudience,
		ClientID: testClientID,
		CacheTTL: 300 * time.Second,
		Clock:    clock.Now,
	}, nil)
}

// validClaims returns a complete claim set issued at now
func validClaims(issuer string, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"iss":                issuer,
		"sub":                "user-123",
		"aud":                testAudience,
		"exp":                now.Add(time.Hour).Unix(),
		"iat":                now.Unix(),
		"preferred_username": "alice",
		"email":              "alice@example.com",
		"realm_access":       map[string]interface{}{"roles": []interface{}{"admin"}},
		"resource_access": map[string]interface{}{
			testClientID: map[string]interface{}{"roles": []interface{}{"editor"}},
		},
	}
}

// Test helper to create a signed RS256 token
func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}
