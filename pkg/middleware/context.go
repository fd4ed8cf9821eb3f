package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	fernctx "github.com/Ramsey-B/fern/pkg/context"
)

const (
	// HeaderOrganizationID overrides the configured default organization.
	HeaderOrganizationID = "X-Organization-ID"
	// HeaderSource names the provider a document came from.
	HeaderSource = "X-Source"
)

func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			ctx := req.Context()
			ctx = fernctx.SetRequestID(ctx, requestID)
			if org := req.Header.Get(HeaderOrganizationID); org != "" {
				ctx = fernctx.SetOrganizationID(ctx, org)
			}
			if source := req.Header.Get(HeaderSource); source != "" {
				ctx = fernctx.SetSource(ctx, source)
			}

			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
