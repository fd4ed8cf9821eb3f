package imports

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/importer"
	"github.com/Ramsey-B/fern/pkg/raw"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

type Importer interface {
	ImportProfile(ctx context.Context, doc raw.Document) (*importer.ProfileOutcome, error)
	ImportReservation(ctx context.Context, doc raw.Document) (*importer.ReservationOutcome, error)
	ImportProfiles(ctx context.Context, payloads []any) importer.BatchSummary
	ImportReservations(ctx context.Context, payloads []any) importer.BatchSummary
}

type Handler struct {
	importer Importer
	validate *validator.Validate
}

func NewHandler(imp Importer) *Handler {
	return &Handler{importer: imp, validate: validator.New()}
}

func (h *Handler) Register(g *echo.Group) {
	g.POST("/profiles", h.ImportProfile)
	g.POST("/profiles/batch", h.ImportProfiles)
	g.POST("/reservations", h.ImportReservation)
	g.POST("/reservations/batch", h.ImportReservations)
}

// BatchRequest carries raw provider documents exactly as received. A batch
// holds at most 500 documents.
type BatchRequest struct {
	Documents []json.RawMessage `json:"documents" validate:"required,min=1,max=500"`
}

// ImportProfile handles POST /imports/profiles. The body is one raw
// provider profile document.
func (h *Handler) ImportProfile(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ImportsHandler.ImportProfile")
	defer span.End()

	doc, err := readDocument(c)
	if err != nil {
		return err
	}

	outcome, err := h.importer.ImportProfile(ctx, doc)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if outcome.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, outcome)
}

// ImportReservation handles POST /imports/reservations.
func (h *Handler) ImportReservation(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ImportsHandler.ImportReservation")
	defer span.End()

	doc, err := readDocument(c)
	if err != nil {
		return err
	}

	outcome, err := h.importer.ImportReservation(ctx, doc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, outcome)
}

func (h *Handler) ImportProfiles(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ImportsHandler.ImportProfiles")
	defer span.End()

	payloads, err := h.readBatch(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.importer.ImportProfiles(ctx, payloads))
}

func (h *Handler) ImportReservations(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ImportsHandler.ImportReservations")
	defer span.End()

	payloads, err := h.readBatch(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.importer.ImportReservations(ctx, payloads))
}

func readDocument(c echo.Context) (raw.Document, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return raw.Document{}, httperror.NewHTTPErrorf(http.StatusBadRequest, "failed to read request body: %s", err.Error())
	}
	return raw.Classify(body)
}

func (h *Handler) readBatch(c echo.Context) ([]any, error) {
	var req BatchRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid batch request: %s", err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid batch request: %s", err.Error())
	}

	payloads := make([]any, len(req.Documents))
	for i, d := range req.Documents {
		payloads[i] = d
	}
	return payloads, nil
}
