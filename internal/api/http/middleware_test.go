package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-gateway/internal/observability"
	"github.com/spec-kit/storefront-gateway/internal/session"
	"github.com/spec-kit/storefront-gateway/internal/upstream"
	apperrors "github.com/spec-kit/storefront-gateway/pkg/util"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	return app
}

func errorEnvelope(t *testing.T, resp *http.Response) (string, string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code, body.Error.Message
}

func TestErrorEnvelopeMapsSentinels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "authentication required",
			err:        fmt.Errorf("cart fetch: %w", session.ErrAuthenticationRequired),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_REQUIRED",
		},
		{
			name:       "upstream unavailable",
			err:        fmt.Errorf("round trip: %w", upstream.ErrUnavailable),
			wantStatus: http.StatusBadGateway,
			wantCode:   "UPSTREAM_UNAVAILABLE",
		},
		{
			name:       "upstream not found",
			err:        fmt.Errorf("lookup: %w", upstream.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "upstream bad request",
			err:        fmt.Errorf("submit: %w", upstream.ErrBadRequest),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "fiber client error becomes validation failure",
			err:        fiber.NewError(http.StatusBadRequest, "invalid payload"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "domain error passes through",
			err:        apperrors.NewValidationError("bad input", nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "unknown error becomes internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.Get("/boom", func(c *fiber.Ctx) error {
				return tt.err
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			code, _ := errorEnvelope(t, resp)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestPanicRecoveredAsInternalError(t *testing.T) {
	app := newTestApp(t)
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("unexpected")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	code, _ := errorEnvelope(t, resp)
	assert.Equal(t, "INTERNAL_ERROR", code)
}

func TestSuccessPassesThroughUntouched(t *testing.T) {
	app := newTestApp(t)
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": "ok"})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
