package imports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/importer"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/raw"
)

type fakeImporter struct {
	docs     []raw.Document
	payloads []any
	err      error
}

func (f *fakeImporter) ImportProfile(_ context.Context, doc raw.Document) (*importer.ProfileOutcome, error) {
	f.docs = append(f.docs, doc)
	if f.err != nil {
		return nil, f.err
	}
	return &importer.ProfileOutcome{TravelerID: "t-1", Created: true}, nil
}

func (f *fakeImporter) ImportReservation(_ context.Context, doc raw.Document) (*importer.ReservationOutcome, error) {
	f.docs = append(f.docs, doc)
	if f.err != nil {
		return nil, f.err
	}
	return &importer.ReservationOutcome{RecordLocator: "ABC123"}, nil
}

func (f *fakeImporter) ImportProfiles(_ context.Context, payloads []any) importer.BatchSummary {
	f.payloads = payloads
	return importer.BatchSummary{TotalProcessed: len(payloads), Created: len(payloads)}
}

func (f *fakeImporter) ImportReservations(_ context.Context, payloads []any) importer.BatchSummary {
	f.payloads = payloads
	return importer.BatchSummary{TotalProcessed: len(payloads), Updated: len(payloads)}
}

func newTestServer(imp Importer) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
	e.Use(middleware.Context())
	NewHandler(imp).Register(e.Group("/api/v1/imports"))
	return e
}

func post(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestImportProfile_Created(t *testing.T) {
	imp := &fakeImporter{}
	rec := post(newTestServer(imp), "/api/v1/imports/profiles", `{"Profile": {"profile_id": "p-1"}}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, imp.docs, 1)
	assert.Equal(t, raw.KindText, imp.docs[0].Kind)
	assert.Contains(t, imp.docs[0].Root, "Profile")

	var outcome importer.ProfileOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, "t-1", outcome.TravelerID)
}

func TestImportProfile_ListBodyUsesFirstObject(t *testing.T) {
	imp := &fakeImporter{}
	rec := post(newTestServer(imp), "/api/v1/imports/profiles", `[1, {"Profile": {"profile_id": "p-1"}}]`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, imp.docs[0].Root, "Profile")
}

func TestImportProfile_UnsupportedBody(t *testing.T) {
	imp := &fakeImporter{}
	rec := post(newTestServer(imp), "/api/v1/imports/profiles", `"just text"`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, imp.docs)
}

func TestImportReservation_PreconditionFailure(t *testing.T) {
	imp := &fakeImporter{err: errors.ErrNoReservationRoot}
	rec := post(newTestServer(imp), "/api/v1/imports/reservations", `{"foo": "bar"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestImportReservation_OK(t *testing.T) {
	rec := post(newTestServer(&fakeImporter{}), "/api/v1/imports/reservations", `{"Reservation": {}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ABC123")
}

func TestImportBatches(t *testing.T) {
	imp := &fakeImporter{}
	e := newTestServer(imp)

	rec := post(e, "/api/v1/imports/profiles/batch", `{"documents": [{"Profile": {}}, "bad"]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, imp.payloads, 2)

	var summary importer.BatchSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.Created)

	rec = post(e, "/api/v1/imports/reservations/batch", `{"documents": [{"Reservation": {}}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, imp.payloads, 1)
}

func TestImportBatches_Invalid(t *testing.T) {
	e := newTestServer(&fakeImporter{})

	assert.Equal(t, http.StatusBadRequest, post(e, "/api/v1/imports/profiles/batch", `{"documents": []}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(e, "/api/v1/imports/profiles/batch", `not json`).Code)
}
