package deadletters

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const (
	defaultCount = 50
	maxCount     = 1000
)

type Queue interface {
	List(ctx context.Context, count int64) ([]redis.DLQEntry, error)
	Len(ctx context.Context) (int64, error)
}

type Handler struct {
	queue Queue
}

func NewHandler(queue Queue) *Handler {
	return &Handler{queue: queue}
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.List)
}

type ListResponse struct {
	Total   int64            `json:"total"`
	Entries []redis.DLQEntry `json:"entries"`
}

// List handles GET /dead-letters?count=N, newest first.
func (h *Handler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "DeadLettersHandler.List")
	defer span.End()

	count := int64(defaultCount)
	if raw := c.QueryParam("count"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			return httperror.NewHTTPErrorf(http.StatusBadRequest, "count must be a positive integer")
		}
		count = min(n, maxCount)
	}

	total, err := h.queue.Len(ctx)
	if err != nil {
		return err
	}
	entries, err := h.queue.List(ctx, count)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse{Total: total, Entries: entries})
}
