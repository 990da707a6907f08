package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/rest-api-modernized/config"
	"github.com/upb/rest-api-modernized/oidc"
	"go.uber.org/zap"
)

func newTestInfoHandler() *InfoHandler {
	h := NewInfoHandler(config.AppConfig{Name: "rest-api-modernized", Version: "1.2.3", APIPrefix: "/api"}, zap.NewNop())
	h.now = func() time.Time {
		return time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("X", 3600))
	}
	return h
}

func TestInfoHandler_Public(t *testing.T) {
	h := newTestInfoHandler()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{name: "root", handler: h.HandleRoot, want: `{"name":"rest-api-modernized","version":"1.2.3"}`},
		{name: "api root", handler: h.HandleAPIRoot, want: `{"message":"rest-api-modernized API is running"}`},
		{
			name:    "info",
			handler: h.HandleInfo,
			want:    `{"name":"rest-api-modernized","version":"1.2.3","api_prefix":"/api","timestamp":"2026-03-04T04:06:07Z"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.handler, http.MethodGet, "/", nil)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestInfoHandler_Protected(t *testing.T) {
	h := newTestInfoHandler()
	email := "ana@example.com"
	user := &oidc.AuthenticatedUser{
		Subject: "sub-1",
		Email:   &email,
		Issuer:  "https://idp.example.com/realms/test",
		Roles:   []string{"admin", "viewer"},
	}

	t.Run("identity", func(t *testing.T) {
		rec := serve(withUser(user)(http.HandlerFunc(h.HandleProtected)), http.MethodGet, "/api/protected", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "sub-1", got["subject"])
		assert.Nil(t, got["username"])
		assert.Equal(t, email, got["email"])
		assert.Equal(t, []interface{}{"admin", "viewer"}, got["roles"])
		assert.Equal(t, user.Issuer, got["issuer"])
	})

	t.Run("admin", func(t *testing.T) {
		rec := serve(withUser(user)(http.HandlerFunc(h.HandleProtectedAdmin)), http.MethodGet, "/api/protected/admin", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true,"subject":"sub-1","roles":["admin","viewer"]}`, rec.Body.String())
	})

	t.Run("no user in context", func(t *testing.T) {
		rec := serve(http.HandlerFunc(h.HandleProtected), http.MethodGet, "/api/protected", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
