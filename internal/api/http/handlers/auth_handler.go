package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-gateway/internal/api/dto"
	"github.com/spec-kit/storefront-gateway/internal/cart"
	"github.com/spec-kit/storefront-gateway/internal/events"
	"github.com/spec-kit/storefront-gateway/internal/session"
	"github.com/spec-kit/storefront-gateway/internal/upstream"
)

// AuthHandler exposes session and profile endpoints.
type AuthHandler struct {
	sessions   *session.Manager
	carts      *cart.Aggregator
	auth       upstream.AuthAPI
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(sessions *session.Manager, carts *cart.Aggregator, auth upstream.AuthAPI, dispatcher events.Dispatcher, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, carts: carts, auth: auth, dispatcher: dispatcher, logger: logger}
}

// Login handles POST /auth/login. A successful login folds the
// anonymous cart into the remote one.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	sid := session.IDFromContext(c)
	sess, err := h.sessions.Login(c.UserContext(), sid, req.Email, req.Password)
	if err != nil {
		return err
	}

	if view, err := h.carts.MergeLocalCart(c.UserContext(), sid); err != nil {
		// The merge is best-effort; the anonymous cart stays persisted
		// and a later mutation retries it.
		h.logger.Warn("local cart merge failed", zap.Error(err))
	} else {
		_ = h.dispatcher.Publish(c.UserContext(), events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCartMerged,
			Timestamp: time.Now(),
			Payload: events.CartMergedPayload{
				SessionID:   sid,
				MergedLines: len(view.Lines),
			},
		})
	}

	return c.JSON(fiber.Map{"data": dto.SessionResponse{
		Authenticated: sess.Authenticated,
		Profile:       sess.Profile,
	}})
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	sid := session.IDFromContext(c)
	sess, err := h.sessions.Register(c.UserContext(), sid, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.SessionResponse{
		Authenticated: sess.Authenticated,
		Profile:       sess.Profile,
	}})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Logout(c.UserContext(), session.IDFromContext(c))
	return c.JSON(fiber.Map{"data": fiber.Map{"authenticated": false}})
}

// Session handles GET /auth/session. Failures are absorbed into the
// unauthenticated state, never surfaced as errors.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	sess := h.sessions.CheckAuth(c.UserContext(), session.IDFromContext(c))
	return c.JSON(fiber.Map{"data": dto.SessionResponse{
		Authenticated: sess.Authenticated,
		Profile:       sess.Profile,
	}})
}

// Profile handles GET /auth/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	sid := session.IDFromContext(c)
	token, err := h.sessions.ValidAccessToken(c.UserContext(), sid)
	if err != nil {
		return err
	}

	profile, err := h.auth.Profile(c.UserContext(), token)
	if err != nil {
		return err
	}
	h.sessions.UpdateProfile(sid, profile)

	return c.JSON(fiber.Map{"data": profile})
}

// UpdateProfile handles PUT /auth/profile. The upstream result, not
// the submitted patch, replaces the cached profile.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	sid := session.IDFromContext(c)
	token, err := h.sessions.ValidAccessToken(c.UserContext(), sid)
	if err != nil {
		return err
	}

	updated, err := h.auth.UpdateProfile(c.UserContext(), token, req.ToDomain())
	if err != nil {
		return err
	}
	h.sessions.UpdateProfile(sid, updated)

	return c.JSON(fiber.Map{"data": updated})
}
