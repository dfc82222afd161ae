package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, expiresAt time.Time) string {
	t.Helper()
	claims := JWTClaims{
		OperatorID: 42,
		Username:   "clerk",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func serve(t *testing.T, header string) (*httptest.ResponseRecorder, uint) {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler

	var operatorID uint
	e.GET("/private", func(c echo.Context) error {
		operatorID, _ = GetOperatorID(c)
		return c.NoContent(http.StatusNoContent)
	}, JWTAuth(secret))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, operatorID
}

func TestJWTAuth(t *testing.T) {
	valid := signToken(t, jwt.SigningMethodHS256, []byte(secret), time.Now().Add(time.Hour))

	rec, operatorID := serve(t, "Bearer "+valid)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uint(42), operatorID)

	rec, _ = serve(t, "bearer "+valid)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestJWTAuthRejects(t *testing.T) {
	expired := signToken(t, jwt.SigningMethodHS256, []byte(secret), time.Now().Add(-time.Hour))
	wrongKey := signToken(t, jwt.SigningMethodHS256, []byte("other"), time.Now().Add(time.Hour))
	wrongAlg := signToken(t, jwt.SigningMethodHS512, []byte(secret), time.Now().Add(time.Hour))

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "missing authorization header"},
		{"wrong scheme", "Basic abc", "invalid authorization header format"},
		{"no token", "Bearer", "invalid authorization header format"},
		{"expired", "Bearer " + expired, "invalid or expired token"},
		{"wrong key", "Bearer " + wrongKey, "invalid or expired token"},
		{"wrong algorithm", "Bearer " + wrongAlg, "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := serve(t, tt.header)
			require.Equal(t, http.StatusUnauthorized, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.message, resp.Error)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
		details map[string]any
	}{
		{
			name:    "plain error",
			err:     errors.New("boom"),
			code:    http.StatusInternalServerError,
			message: "internal server error",
		},
		{
			name:    "http error",
			err:     echo.NewHTTPError(http.StatusNotFound, "Product not found."),
			code:    http.StatusNotFound,
			message: "Product not found.",
		},
		{
			name:    "detailed error",
			err:     NewDetailedError(http.StatusConflict, "Sale failed", map[string]any{"remaining_stock": 3}),
			code:    http.StatusConflict,
			message: "Sale failed",
			details: map[string]any{"remaining_stock": float64(3)},
		},
		{
			name:    "wrapped http error",
			err:     echo.NewHTTPError(http.StatusInternalServerError, "failed to list").SetInternal(errors.New("db down")),
			code:    http.StatusInternalServerError,
			message: "failed to list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			ErrorHandler(tt.err, c)

			require.Equal(t, tt.code, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.message, resp.Error)
			assert.Equal(t, tt.details, resp.Details)
		})
	}
}
