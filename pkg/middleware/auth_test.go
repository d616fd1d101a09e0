package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samijoehayek/opus-oakadmin/pkg/httputil"
)

const testSecret = "test-secret"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

// --- NewJWTValidator ---

func TestJWTValidator_ValidToken(t *testing.T) {
	validate := NewJWTValidator(testSecret)
	tok := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "u-1",
		"email":   "admin@opusoak.com",
		"role":    "ADMIN",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	claims, err := validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin@opusoak.com", claims.Email)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestJWTValidator_FallsBackToSub(t *testing.T) {
	tok := signToken(t, testSecret, jwt.MapClaims{"sub": "u-2", "role": "SUPER_ADMIN"})

	claims, err := NewJWTValidator(testSecret)(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-2", claims.UserID)
}

func TestJWTValidator_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", signToken(t, "other", jwt.MapClaims{"sub": "u-1"})},
		{"expired", signToken(t, testSecret, jwt.MapClaims{"sub": "u-1", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"no subject", signToken(t, testSecret, jwt.MapClaims{"role": "ADMIN"})},
		{"garbage", "not-a-jwt"},
	}

	validate := NewJWTValidator(testSecret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validate(tt.token)
			assert.Error(t, err)
		})
	}
}

// --- Auth / RequireRole ---

func TestAuth_InjectsIdentity(t *testing.T) {
	tok := signToken(t, testSecret, jwt.MapClaims{"user_id": "u-1", "role": "ADMIN"})

	var gotUser, gotRole, gotToken string
	h := Auth(NewJWTValidator(testSecret), discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		gotToken = TokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "u-1", gotUser)
	assert.Equal(t, "ADMIN", gotRole)
	assert.Equal(t, tok, gotToken)
}

func TestAuth_RejectsMissingOrMalformedHeader(t *testing.T) {
	h := Auth(NewJWTValidator(testSecret), discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer bad-token"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole("ADMIN", "SUPER_ADMIN")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		role string
		want int
	}{
		{"ADMIN", http.StatusNoContent},
		{"super_admin", http.StatusNoContent},
		{"CUSTOMER", http.StatusForbidden},
		{"", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(WithIdentity(req.Context(), "u-1", tt.role, "tok"))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
