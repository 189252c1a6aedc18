package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/infrastructure/auth"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claimsEcho(w http.ResponseWriter, r *http.Request) {
	c := domain.ClaimsFromContext(r.Context())
	if c == nil {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(c.UserID + ":" + string(c.Role)))
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthAndAdmin(t *testing.T) {
	tokens := auth.NewJWTIssuer("test-secret", time.Hour)
	userToken, _, err := tokens.Issue("u1", domain.RoleUser)
	require.NoError(t, err)
	adminToken, _, err := tokens.Issue("a1", domain.RoleAdmin)
	require.NoError(t, err)

	authed := RequireAuth(tokens)(http.HandlerFunc(claimsEcho))
	admin := RequireAuth(tokens)(RequireAdmin(http.HandlerFunc(claimsEcho)))

	rec := serve(authed, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])

	assert.Equal(t, http.StatusUnauthorized, serve(authed, "garbage").Code)

	rec = serve(authed, userToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1:user", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(admin, "").Code)
	assert.Equal(t, http.StatusForbidden, serve(admin, userToken).Code)
	rec = serve(admin, adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a1:admin", rec.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	tokens := auth.NewJWTIssuer("test-secret", time.Hour)
	userToken, _, _ := tokens.Issue("u1", domain.RoleUser)
	h := OptionalAuth(tokens)(http.HandlerFunc(claimsEcho))

	assert.Equal(t, "anonymous", serve(h, "").Body.String())
	assert.Equal(t, "anonymous", serve(h, "expired-or-bad").Body.String())
	assert.Equal(t, "u1:user", serve(h, userToken).Body.String())
}

func TestSecurityHeadersAndAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	h := AccessLog(logger)(SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "/api/products", line["path"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
}
