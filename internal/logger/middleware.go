package logger

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDMiddleware tags every request with an id, generating one when the
// client did not send X-Request-ID.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		reqID := req.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		ctx := WithRequestID(req.Context(), reqID)
		c.SetRequest(req.WithContext(ctx))
		c.Response().Header().Set("X-Request-ID", reqID)

		return next(c)
	}
}

// RequestLogMiddleware logs every HTTP request with structured fields.
func RequestLogMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		log := FromCtx(c.Request().Context())

		err := next(c)

		log.Info("incoming request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.String("ip", c.RealIP()),
			zap.Duration("duration_ms", time.Since(start)),
		)

		return err
	}
}
