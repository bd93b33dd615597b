package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const ctxRequestID = "rid"

// RequestID reuses an incoming X-Request-ID or mints one, and echoes it back.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Set(ctxRequestID, rid)
			c.Response().Header().Set(echo.HeaderXRequestID, rid)
			return next(c)
		}
	}
}

// GetRequestID returns the id set by RequestID, or "".
func GetRequestID(c echo.Context) string {
	rid, _ := c.Get(ctxRequestID).(string)
	return rid
}
