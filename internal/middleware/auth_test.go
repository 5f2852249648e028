package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koliada1973/credit-service/internal/config"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}

	var gotUserID, gotRole string
	handler := AuthMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value("userID").(string)
		gotRole, _ = r.Context().Value("role").(string)
		w.WriteHeader(http.StatusOK)
	}))

	valid := signToken(t, "test-secret", jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "42",
		"role": "manager",
		"exp":  jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	cases := map[string]struct {
		authHeader string
		wantStatus int
	}{
		"valid token": {
			authHeader: "Bearer " + valid,
			wantStatus: http.StatusOK,
		},
		"missing header": {
			wantStatus: http.StatusUnauthorized,
		},
		"not a bearer token": {
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		"wrong secret": {
			authHeader: "Bearer " + signToken(t, "other-secret", jwt.SigningMethodHS256, jwt.MapClaims{
				"sub": "42", "exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}),
			wantStatus: http.StatusUnauthorized,
		},
		"expired token": {
			authHeader: "Bearer " + signToken(t, "test-secret", jwt.SigningMethodHS256, jwt.MapClaims{
				"sub": "42", "exp": jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			}),
			wantStatus: http.StatusUnauthorized,
		},
		"missing subject": {
			authHeader: "Bearer " + signToken(t, "test-secret", jwt.SigningMethodHS256, jwt.MapClaims{
				"role": "manager", "exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/loans", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}

	assert.Equal(t, "42", gotUserID)
	assert.Equal(t, "manager", gotRole)
}
