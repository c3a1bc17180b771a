package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/oasis-hotel/portal/internal/observability"
	apperrors "github.com/oasis-hotel/portal/pkg/util/errorutil"
)

// restoringRetryAfter is the Retry-After hint, in seconds, for requests that
// arrived while the session was still being restored.
const restoringRetryAfter = "1"

// RegisterMiddlewares attaches the request logger, the error envelope and the
// per-request deadline. The logger runs outermost so it sees the final status.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorEnvelope(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeout(timeout))
	}
}

func requestTimeout(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorEnvelope turns handler errors and panics into the portal's JSON error
// body, tagged with the request id so a guest report can be matched to the log.
func errorEnvelope(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.String("request_id", observability.RequestID(c)),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}
			domainErr := envelopeError(err)
			metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
			writeError(c, logger, domainErr)
			err = nil
		}()
		return c.Next()
	}
}

func envelopeError(err error) *apperrors.DomainError {
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) && errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewDomainError(apperrors.CodeTimeout, "request timed out", http.StatusGatewayTimeout, nil)
	}
	return apperrors.ToDomainError(err)
}

func writeError(c *fiber.Ctx, logger *zap.Logger, domainErr *apperrors.DomainError) {
	reqID := observability.RequestID(c)
	body := fiber.Map{
		"code":    domainErr.Code,
		"message": domainErr.Message,
	}
	if reqID != "" {
		body["request_id"] = reqID
	}
	if len(domainErr.Details) > 0 {
		body["details"] = domainErr.Details
	}

	if domainErr.Code == apperrors.CodeSessionRestoring {
		c.Set(fiber.HeaderRetryAfter, restoringRetryAfter)
	}

	fields := []zap.Field{
		zap.String("request_id", reqID),
		zap.String("code", domainErr.Code),
		zap.String("path", c.Path()),
	}
	if domainErr.HTTPStatus >= 500 {
		logger.Error("request failed", append(fields, zap.Error(domainErr))...)
	} else {
		logger.Debug("request rejected", append(fields, zap.String("message", domainErr.Message))...)
	}

	c.Status(domainErr.HTTPStatus)
	_ = c.JSON(fiber.Map{"error": body})
}
