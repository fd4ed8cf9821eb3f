package deadletters

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
	"github.com/Ramsey-B/fern/pkg/redis"
)

type fakeQueue struct {
	entries []redis.DLQEntry
	asked   int64
}

func (f *fakeQueue) List(_ context.Context, count int64) ([]redis.DLQEntry, error) {
	f.asked = count
	return f.entries, nil
}

func (f *fakeQueue) Len(context.Context) (int64, error) {
	return int64(len(f.entries)), nil
}

func serve(q *fakeQueue, path string) *httptest.ResponseRecorder {
	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
	NewHandler(q).Register(e.Group("/api/v1/dead-letters"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestList(t *testing.T) {
	q := &fakeQueue{entries: []redis.DLQEntry{{ID: "1", Reason: "no_profile_root"}}}

	rec := serve(q, "/api/v1/dead-letters?count=5000")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(maxCount), q.asked)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, "no_profile_root", resp.Entries[0].Reason)
}

func TestList_DefaultAndInvalidCount(t *testing.T) {
	q := &fakeQueue{}
	assert.Equal(t, http.StatusOK, serve(q, "/api/v1/dead-letters").Code)
	assert.Equal(t, int64(defaultCount), q.asked)

	assert.Equal(t, http.StatusBadRequest, serve(q, "/api/v1/dead-letters?count=zero").Code)
}
