package http

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/pkg/util"
)

// MiddlewareConfig bundles dependencies for the global middleware chain.
type MiddlewareConfig struct {
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Timeout time.Duration
	// LegacyStatus answers not-found, duplicate and invalid-id errors with
	// the route's success status (201 for creates, 200 otherwise); the
	// envelope still reports success=false and statusCode 400.
	LegacyStatus   bool
	RateLimit      config.RateLimitConfig
	LimiterStorage fiber.Storage
}

// legacyCodes are the domain errors historically returned with a success
// HTTP status.
var legacyCodes = map[string]bool{
	util.CodeDuplicateTicket:  true,
	util.CodeTicketNotFound:   true,
	util.CodeInvalidID:        true,
	util.CodeDuplicateEmail:   true,
	util.CodeCustomerNotFound: true,
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	app.Use(observability.RequestLogger(cfg.Logger, cfg.Metrics))
	app.Use(errorHandlingMiddleware(cfg.Logger, cfg.Metrics, cfg.LegacyStatus))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	if cfg.RateLimit.Enabled() {
		app.Use(rateLimitMiddleware(cfg.RateLimit, cfg.LimiterStorage))
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func rateLimitMiddleware(cfg config.RateLimitConfig, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Window(),
		Storage:    storage,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/health") || c.Path() == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return util.NewRateLimited()
		},
	})
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, legacyStatus bool) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = util.NewInternalError("", fmt.Errorf("panic: %v", r))
			}
			if err != nil {
				domainErr := toDomainError(err)
				metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)
				if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
					logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
				}

				env := util.FailureFrom(domainErr)
				status := domainErr.HTTPStatus
				if legacyStatus && legacyCodes[domainErr.Code] {
					env.StatusCode = fiber.StatusBadRequest
					status = legacySuccessStatus(c)
				}
				c.Status(status)
				_ = c.JSON(env)
				err = nil
			}
		}()
		return c.Next()
	}
}

func legacySuccessStatus(c *fiber.Ctx) int {
	if c.Method() == fiber.MethodPost {
		return fiber.StatusCreated
	}
	return fiber.StatusOK
}

// toDomainError also understands fiber's own errors (unknown route,
// unsupported method, malformed request).
func toDomainError(err error) *util.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := "REQUEST_FAILED"
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			code = "ROUTE_NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusTooManyRequests:
			code = util.CodeRateLimited
		}
		return util.NewDomainError(code, fiberErr.Message, fiberErr.Code)
	}
	return util.ToDomainError(err)
}
