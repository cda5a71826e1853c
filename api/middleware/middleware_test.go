package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/brandcorner-backend/api/responses"
	pkgAuth "github.com/angelmondragon/brandcorner-backend/pkg/auth"
	"github.com/angelmondragon/brandcorner-backend/pkg/config"
	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
	"github.com/angelmondragon/brandcorner-backend/pkg/security"
)

var testSessionConfig = config.SessionConfig{Secret: "test-secret", Issuer: "brandcorner", TTLMinutes: 60}

func sessionEcho(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionAcceptsBearerAndHeader(t *testing.T) {
	token, claims, err := pkgAuth.MintSessionToken(testSessionConfig, time.Now(), "sess-42")
	require.NoError(t, err)
	require.Equal(t, "sess-42", claims.SessionID())

	for _, set := range []func(*http.Request){
		func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
		func(r *http.Request) { r.Header.Set(SessionTokenHeader, token) },
	} {
		var got string
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		set(req)
		rec := httptest.NewRecorder()
		Session(testSessionConfig, logger.Nop())(sessionEcho(&got)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "sess-42", got)
	}
}

func TestSessionRejectsMissingOrInvalidToken(t *testing.T) {
	var got string
	handler := Session(testSessionConfig, nil)(sessionEcho(&got))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other := config.SessionConfig{Secret: "other", Issuer: "brandcorner", TTLMinutes: 60}
	token, _, err := pkgAuth.MintSessionToken(other, time.Now(), "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, got)
}

func TestAdminKeyPlain(t *testing.T) {
	handler := AdminKey(config.AdminConfig{APIKey: "s3cret"}, nil)(okHandler())

	cases := map[string]int{
		"":       http.StatusUnauthorized,
		"wrong":  http.StatusUnauthorized,
		"s3cret": http.StatusOK,
	}
	for key, want := range cases {
		req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/orders/1", nil)
		if key != "" {
			req.Header.Set(adminKeyHeader, key)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "key %q", key)
	}
}

func TestAdminKeyHashTakesPrecedence(t *testing.T) {
	hash, err := security.HashSecret("hashed-key", security.DefaultParams)
	require.NoError(t, err)

	handler := AdminKey(config.AdminConfig{APIKey: "plain-key", APIKeyHash: hash}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/products/p1", nil)
	req.Header.Set(adminKeyHeader, "hashed-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/admin/v1/products/p1", nil)
	req.Header.Set(adminKeyHeader, "plain-key")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminKeyDisabled(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/products/p1", nil)
	req.Header.Set(adminKeyHeader, "anything")
	rec := httptest.NewRecorder()
	AdminKey(config.AdminConfig{}, nil)(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequestIDEchoesOrGenerates(t *testing.T) {
	handler := RequestID(logger.Nop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(responses.RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Header().Get(responses.RequestIDHeader))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(responses.RequestIDHeader))
}

func TestRequestIDReplacesUnsafeHeader(t *testing.T) {
	handler := RequestID(nil)(okHandler())

	for _, raw := range []string{"id with spaces", "req/1", strings.Repeat("a", maxRequestIDLength+1)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(responses.RequestIDHeader, raw)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		got := rec.Header().Get(responses.RequestIDHeader)
		assert.NotEqual(t, raw, got)
		assert.True(t, validRequestID(got), got)
	}
}

func TestRecovererWritesInternalError(t *testing.T) {
	handler := Recoverer(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "close", rec.Header().Get("Connection"))
}

func TestRecovererPassesAbortThrough(t *testing.T) {
	handler := Recoverer(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	rec := httptest.NewRecorder()
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestLoggingKeepsFlusher(t *testing.T) {
	var flushable bool
	handler := Logging(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, flushable = w.(http.Flusher)
		w.WriteHeader(http.StatusAccepted)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, flushable)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
