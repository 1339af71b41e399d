package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-gateway/internal/observability"
	"github.com/spec-kit/storefront-gateway/internal/session"
	"github.com/spec-kit/storefront-gateway/internal/upstream"
	apperrors "github.com/spec-kit/storefront-gateway/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// mapSentinels converts package sentinel errors from the session and
// upstream layers into the DomainError taxonomy before rendering.
func mapSentinels(err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch {
		case fiberErr.Code == fiber.StatusNotFound:
			return apperrors.NewNotFound("route", nil)
		case fiberErr.Code >= 400 && fiberErr.Code < 500:
			return apperrors.NewValidationError(fiberErr.Message, nil)
		default:
			return apperrors.NewInternalError(fiberErr)
		}
	}

	switch {
	case errors.Is(err, session.ErrAuthenticationRequired):
		return apperrors.NewAuthenticationRequired(err)
	case errors.Is(err, upstream.ErrUnavailable):
		return apperrors.NewUpstreamUnavailable("remote", err)
	case errors.Is(err, upstream.ErrUnauthorized):
		return apperrors.NewUnauthorized("upstream rejected credentials")
	case errors.Is(err, upstream.ErrNotFound):
		return apperrors.NewNotFound("resource", nil)
	case errors.Is(err, upstream.ErrBadRequest):
		return apperrors.NewValidationError("upstream rejected request", nil)
	default:
		return err
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(mapSentinels(err))
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				}
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}
