package travelers

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/reconcile"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

type TravelerReader interface {
	Get(ctx context.Context, id string) (*models.Traveler, error)
}

type RowReader interface {
	ListActive(ctx context.Context, table, profileID string) ([]models.ProfileRow, error)
	ListAll(ctx context.Context, table, profileID string) ([]models.ProfileRow, error)
}

type Handler struct {
	travelers TravelerReader
	rows      RowReader
}

func NewHandler(travelers TravelerReader, rows RowReader) *Handler {
	return &Handler{travelers: travelers, rows: rows}
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("/:id", h.Get)
	g.GET("/:id/:family", h.ListFamily)
}

// TravelerResponse is a traveler with its active multi-valued rows.
type TravelerResponse struct {
	*models.Traveler
	Families map[string][]models.ProfileRow `json:"families"`
}

// Get handles GET /travelers/:id
func (h *Handler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TravelersHandler.Get")
	defer span.End()

	t, err := h.load(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	resp := TravelerResponse{Traveler: t, Families: map[string][]models.ProfileRow{}}
	for name, family := range reconcile.Families {
		rows, err := h.rows.ListActive(ctx, family.Table, t.ID)
		if err != nil {
			return err
		}
		resp.Families[name] = rows
	}
	return c.JSON(http.StatusOK, resp)
}

// ListFamily handles GET /travelers/:id/:family. Soft-deleted rows are
// included when include_deleted=true.
func (h *Handler) ListFamily(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TravelersHandler.ListFamily")
	defer span.End()

	family, err := reconcile.Lookup(c.Param("family"))
	if err != nil {
		return httperror.NewHTTPError(http.StatusNotFound, err.Error())
	}
	t, err := h.load(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	list := h.rows.ListActive
	if c.QueryParam("include_deleted") == "true" {
		list = h.rows.ListAll
	}
	rows, err := list(ctx, family.Table, t.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) load(ctx context.Context, id string) (*models.Traveler, error) {
	t, err := h.travelers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "traveler %s not found", id)
	}
	return t, nil
}
