package middleware

import (
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	fernctx "github.com/Ramsey-B/fern/pkg/context"
)

func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()
			res := c.Response()
			start := time.Now()
			if err = next(c); err != nil {
				c.Error(err)
			}
			stop := time.Now()

			logger.WithContext(req.Context()).WithFields(map[string]any{
				"request_id":      fernctx.GetRequestID(req.Context()),
				"organization_id": fernctx.GetOrganizationID(req.Context()),
				"method":          req.Method,
				"uri":             req.RequestURI,
				"status":          res.Status,
				"route":           c.Path(),
				"remote_ip":       c.RealIP(),
				"user_agent":      req.UserAgent(),
				"response_time":   stop.Sub(start),
				"request_size":    req.Header.Get(echo.HeaderContentLength),
				"response_size":   strconv.FormatInt(res.Size, 10),
			}).Info("Request")

			return nil
		}
	}
}
