package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-gateway/internal/api/dto"
	"github.com/spec-kit/storefront-gateway/internal/service"
	"github.com/spec-kit/storefront-gateway/internal/session"
	apperrors "github.com/spec-kit/storefront-gateway/pkg/util"
)

// CheckoutHandler exposes order placement and order history. All
// routes require an authenticated session.
type CheckoutHandler struct {
	sessions *session.Manager
	checkout *service.CheckoutService
}

// NewCheckoutHandler constructs handler.
func NewCheckoutHandler(sessions *session.Manager, checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, checkout: checkout}
}

// CreateOrder handles POST /checkout/orders.
func (h *CheckoutHandler) CreateOrder(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	sid := session.IDFromContext(c)
	sess := h.sessions.CheckAuth(c.UserContext(), sid)
	if !sess.Authenticated {
		return apperrors.NewAuthenticationRequired(errors.New("checkout requires login"))
	}

	order, err := h.checkout.PlaceOrder(c.UserContext(), sid, sess.Profile, service.PlaceOrderInput{
		ShippingName:  req.ShippingName,
		ShippingPhone: req.ShippingPhone,
		Address:       req.Address,
		District:      req.District,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": order})
}

// ListOrders handles GET /checkout/orders.
func (h *CheckoutHandler) ListOrders(c *fiber.Ctx) error {
	sess := h.sessions.CheckAuth(c.UserContext(), session.IDFromContext(c))
	if !sess.Authenticated {
		return apperrors.NewAuthenticationRequired(errors.New("order history requires login"))
	}

	orders, err := h.checkout.ListOrders(c.UserContext(), sess.Profile.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orders})
}

// GetOrder handles GET /checkout/orders/:id.
func (h *CheckoutHandler) GetOrder(c *fiber.Ctx) error {
	sess := h.sessions.CheckAuth(c.UserContext(), session.IDFromContext(c))
	if !sess.Authenticated {
		return apperrors.NewAuthenticationRequired(errors.New("order history requires login"))
	}

	order, err := h.checkout.GetOrder(c.UserContext(), c.Params("id"), sess.Profile.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": order})
}

// Districts handles GET /checkout/districts.
func (h *CheckoutHandler) Districts(c *fiber.Ctx) error {
	districts, err := h.checkout.Districts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": districts})
}
