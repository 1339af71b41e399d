package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-gateway/internal/api/dto"
	"github.com/spec-kit/storefront-gateway/internal/domain"
	"github.com/spec-kit/storefront-gateway/internal/service"
)

// CatalogHandler exposes the product catalog proxy.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Products handles GET /shop/products.
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	products, err := h.catalog.Products(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// ProductByID handles GET /shop/products/:id.
func (h *CatalogHandler) ProductByID(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}

	product, err := h.catalog.ProductByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": product})
}

// Related handles GET /shop/products/:id/related.
func (h *CatalogHandler) Related(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}

	products, err := h.catalog.Related(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// TopSelling handles GET /shop/top-selling.
func (h *CatalogHandler) TopSelling(c *fiber.Ctx) error {
	products, err := h.catalog.TopSelling(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// TopCategories handles GET /shop/top-categories.
func (h *CatalogHandler) TopCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.TopCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categories})
}

// Contact handles POST /shop/contact.
func (h *CatalogHandler) Contact(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	err := h.catalog.Contact(c.UserContext(), domain.ContactMessage{
		Email:   req.Email,
		Subject: fmt.Sprintf("Message from %s", req.Name),
		Details: req.Message,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Message sent successfully!"}})
}
