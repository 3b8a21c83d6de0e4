package http

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/0xsj/overwatch-pkg/log"

	"github.com/0xsj/overwatch-profile/internal/telemetry"
)

func requestLogger(logger log.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				log.String("method", v.Method),
				log.String("uri", v.URI),
				log.Any("status", v.Status),
				log.String("latency", v.Latency.String()),
				log.String("remote_ip", c.RealIP()),
			)
			return nil
		},
	})
}

// metricsMiddleware records request counts and latency by route template.
// Errors are rendered here so the recorded status is the one sent.
func metricsMiddleware(metrics *telemetry.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			metrics.IncHTTPInFlight()
			defer metrics.DecHTTPInFlight()

			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.ObserveHTTP(c.Request().Method, route, strconv.Itoa(c.Response().Status), time.Since(start))
			return nil
		}
	}
}
