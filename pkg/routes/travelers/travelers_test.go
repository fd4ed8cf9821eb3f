package travelers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/reconcile"
)

type fakeTravelers map[string]*models.Traveler

func (f fakeTravelers) Get(_ context.Context, id string) (*models.Traveler, error) {
	return f[id], nil
}

type fakeRows struct {
	active map[string][]models.ProfileRow
	all    map[string][]models.ProfileRow
}

func (f fakeRows) ListActive(_ context.Context, table, _ string) ([]models.ProfileRow, error) {
	return f.active[table], nil
}

func (f fakeRows) ListAll(_ context.Context, table, _ string) ([]models.ProfileRow, error) {
	return f.all[table], nil
}

func newTestServer() *echo.Echo {
	rows := fakeRows{
		active: map[string][]models.ProfileRow{"traveler_emails": {{ID: "e-1", NaturalKey: "ana@example.com"}}},
		all:    map[string][]models.ProfileRow{"traveler_emails": {{ID: "e-1"}, {ID: "e-2"}}},
	}
	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
	NewHandler(fakeTravelers{"t-1": {ID: "t-1", FirstName: "Ana"}}, rows).Register(e.Group("/api/v1/travelers"))
	return e
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGet(t *testing.T) {
	rec := get(newTestServer(), "/api/v1/travelers/t-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ID        string                         `json:"id"`
		FirstName string                         `json:"first_name"`
		Families  map[string][]models.ProfileRow `json:"families"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Ana", resp.FirstName)
	assert.Len(t, resp.Families, len(reconcile.Families))
	assert.Len(t, resp.Families[reconcile.FamilyEmail], 1)
}

func TestGet_NotFound(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, get(newTestServer(), "/api/v1/travelers/missing").Code)
}

func TestListFamily(t *testing.T) {
	e := newTestServer()

	var rows []models.ProfileRow
	rec := get(e, "/api/v1/travelers/t-1/email")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 1)

	rec = get(e, "/api/v1/travelers/t-1/email?include_deleted=true")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 2)

	assert.Equal(t, http.StatusNotFound, get(e, "/api/v1/travelers/t-1/fax").Code)
}
