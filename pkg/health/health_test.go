package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func failing(context.Context) error { return fmt.Errorf("connection refused") }

func serve(t *testing.T, c *Checker, path string) (int, Response) {
	t.Helper()
	e := echo.New()
	c.RegisterRoutes(e)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestHealth_AllHealthy(t *testing.T) {
	c := NewChecker("1.0.0").AddCheck("database", ok).AddOptionalCheck("redis", ok)

	code, resp := serve(t, c, "/api/v1/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Len(t, resp.Checks, 2)
	assert.Equal(t, "1.0.0", resp.Version)
}

func TestHealth_OptionalFailureDegrades(t *testing.T) {
	c := NewChecker("1.0.0").AddCheck("database", ok).AddOptionalCheck("redis", failing)

	code, resp := serve(t, c, "/api/v1/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Equal(t, "connection refused", resp.Checks["redis"].Message)
}

func TestHealth_CriticalFailure(t *testing.T) {
	c := NewChecker("1.0.0").AddCheck("database", failing).AddOptionalCheck("redis", failing)

	code, resp := serve(t, c, "/api/v1/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusUnhealthy, resp.Status)
}

func TestHealth_NilProbe(t *testing.T) {
	c := NewChecker("").AddCheck("database", nil)
	assert.Equal(t, StatusUnhealthy, c.Run(context.Background())["database"].Status)
}

func TestReadiness(t *testing.T) {
	c := NewChecker("1.0.0").AddCheck("database", ok)

	code, resp := serve(t, c, "/api/v1/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, resp.Checks, "startup")

	c.SetReady(true)
	code, resp = serve(t, c, "/api/v1/health/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, resp.Checks, "database")
}

func TestLiveness(t *testing.T) {
	code, resp := serve(t, NewChecker("1.0.0").AddCheck("database", failing), "/api/v1/health/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusHealthy, resp.Status)
}
