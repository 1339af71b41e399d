package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-gateway/internal/api/dto"
	"github.com/spec-kit/storefront-gateway/internal/cart"
	"github.com/spec-kit/storefront-gateway/internal/service"
	"github.com/spec-kit/storefront-gateway/internal/session"
)

// CartHandler exposes the cart in both session modes: remote-backed
// for authenticated sessions, local-backed for anonymous ones. The
// mode is chosen per request from the session's authentication state.
type CartHandler struct {
	sessions *session.Manager
	carts    *cart.Aggregator
	catalog  *service.CatalogService
}

// NewCartHandler constructs handler.
func NewCartHandler(sessions *session.Manager, carts *cart.Aggregator, catalog *service.CatalogService) *CartHandler {
	return &CartHandler{sessions: sessions, carts: carts, catalog: catalog}
}

// Get handles GET /cart.
func (h *CartHandler) Get(c *fiber.Ctx) error {
	sid := session.IDFromContext(c)
	sess := h.sessions.CheckAuth(c.UserContext(), sid)

	var view cart.View
	var err error
	if sess.Authenticated {
		view, err = h.carts.FetchItems(c.UserContext(), sid)
	} else {
		view, err = h.carts.FetchLocal(c.UserContext(), sid)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

// Add handles POST /cart/items. The product is resolved from the
// catalog so price and discount always come from the shop, never the
// client.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req dto.AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ProductID <= 0 {
		return fiber.NewError(http.StatusBadRequest, "product_id required")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.ProductByID(c.UserContext(), req.ProductID)
	if err != nil {
		return err
	}

	sid := session.IDFromContext(c)
	sess := h.sessions.CheckAuth(c.UserContext(), sid)

	var view cart.View
	if sess.Authenticated {
		view, err = h.carts.Add(c.UserContext(), sid, *product, req.Quantity)
	} else {
		view, err = h.carts.AddLocal(c.UserContext(), sid, *product, req.Quantity)
	}
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": view})
}

// Update handles PATCH /cart/items/:id. A quantity of zero or less
// removes the line.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	productID, err := parseProductID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	sid := session.IDFromContext(c)
	sess := h.sessions.CheckAuth(c.UserContext(), sid)

	var view cart.View
	if sess.Authenticated {
		view, err = h.carts.UpdateQuantity(c.UserContext(), sid, productID, req.Quantity)
	} else {
		view, err = h.carts.UpdateLocalQuantity(c.UserContext(), sid, productID, req.Quantity)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

// Remove handles DELETE /cart/items/:id.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	productID, err := parseProductID(c)
	if err != nil {
		return err
	}

	sid := session.IDFromContext(c)
	sess := h.sessions.CheckAuth(c.UserContext(), sid)

	var view cart.View
	if sess.Authenticated {
		view, err = h.carts.Remove(c.UserContext(), sid, productID)
	} else {
		view, err = h.carts.RemoveLocal(c.UserContext(), sid, productID)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

// Clear handles DELETE /cart.
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := session.IDFromContext(c)
	sess := h.sessions.CheckAuth(c.UserContext(), sid)

	view, err := h.carts.Clear(c.UserContext(), sid, sess.Authenticated)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

func parseProductID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid product id")
	}
	return id, nil
}
