package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/healthymeal/backend/internal/middleware"
	"github.com/healthymeal/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubValidator accepts any bearer token and returns fixed claims.
type stubValidator struct {
	userID uuid.UUID
}

func (v *stubValidator) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	return &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "test-session"},
		UserID:           v.userID,
	}, nil
}

// newProtectedRouter mounts registerRoutes behind the auth middleware
// acting as the given user.
func newProtectedRouter(userID uuid.UUID, registerRoutes func(*gin.RouterGroup)) *gin.Engine {
	engine := gin.New()
	group := engine.Group("/api")
	group.Use(middleware.AuthMiddleware(&stubValidator{userID: userID}))
	registerRoutes(group)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

// doUnauthenticated builds a request without an Authorization header.
func doUnauthenticated(method, path string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, nil)
	return req, httptest.NewRecorder()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, rec, &envelope)
	return envelope.Error.Code
}
