package upstream

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/storefront-gateway/internal/config"
	"github.com/spec-kit/storefront-gateway/internal/domain"
	"github.com/spec-kit/storefront-gateway/internal/observability"
)

// ShopAPI is the contract of the remote shop service: the
// authoritative cart for authenticated customers plus the product
// catalog and checkout lookups.
type ShopAPI interface {
	CartItems(ctx context.Context, accessToken string) ([]domain.CartLine, error)
	AddCartItem(ctx context.Context, accessToken string, line domain.CartLine) error
	RemoveCartItem(ctx context.Context, accessToken string, productID int64) error
	UpdateCartItem(ctx context.Context, accessToken string, productID int64, quantity int) error

	Products(ctx context.Context) ([]domain.Product, error)
	ProductByID(ctx context.Context, id int64) (*domain.Product, error)
	TopSelling(ctx context.Context) ([]domain.Product, error)
	TopCategories(ctx context.Context) ([]domain.Category, error)

	Districts(ctx context.Context) ([]domain.District, error)
	Contact(ctx context.Context, msg domain.ContactMessage) error
}

// ShopClient talks to the remote shop service over HTTP.
type ShopClient struct {
	baseURL string
	client  httpDoer
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewShopClient builds the gateway for the shop service.
func NewShopClient(cfg config.UpstreamConfig, logger *zap.Logger, metrics *observability.Metrics) *ShopClient {
	return &ShopClient{
		baseURL: cfg.ShopBaseURL,
		client:  newHTTPClient(cfg.Timeout()),
		logger:  logger,
		metrics: metrics,
	}
}

// cartLinePayload tolerates the loose upstream field spellings
// (title/name, thumbnail/image). Normalization to domain.CartLine
// happens here and only here.
type cartLinePayload struct {
	ProductID          int64   `json:"product_id"`
	ID                 int64   `json:"id"`
	Title              string  `json:"title"`
	Name               string  `json:"name"`
	Price              float64 `json:"price"`
	Quantity           int     `json:"quantity"`
	Thumbnail          string  `json:"thumbnail"`
	Image              string  `json:"image"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

func (p cartLinePayload) toDomain() domain.CartLine {
	id := p.ProductID
	if id == 0 {
		id = p.ID
	}
	title := p.Title
	if title == "" {
		title = p.Name
	}
	thumbnail := p.Thumbnail
	if thumbnail == "" {
		thumbnail = p.Image
	}
	return domain.CartLine{
		ProductID:          id,
		Title:              title,
		UnitPrice:          p.Price,
		Quantity:           p.Quantity,
		Thumbnail:          thumbnail,
		DiscountPercentage: p.DiscountPercentage,
	}
}

// CartItems lists the authoritative cart lines for the token's owner.
func (c *ShopClient) CartItems(ctx context.Context, accessToken string) ([]domain.CartLine, error) {
	var resp []cartLinePayload
	err := doJSON(ctx, c.client, http.MethodGet, c.baseURL+"/shop/cart/", accessToken, nil, &resp)
	c.metrics.RecordUpstream("shop", "cart_items", err != nil)
	if err != nil {
		return nil, err
	}
	lines := make([]domain.CartLine, 0, len(resp))
	for _, item := range resp {
		lines = append(lines, item.toDomain())
	}
	return lines, nil
}

type addCartItemRequest struct {
	ProductID          int64   `json:"product_id"`
	Title              string  `json:"title"`
	Price              float64 `json:"price"`
	Quantity           int     `json:"quantity"`
	Thumbnail          string  `json:"thumbnail"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

// AddCartItem submits a new-or-incremented line. The shop service owns
// the merge and any server-side discount arithmetic, which is why
// callers refetch afterwards instead of merging optimistically.
func (c *ShopClient) AddCartItem(ctx context.Context, accessToken string, line domain.CartLine) error {
	err := doJSON(ctx, c.client, http.MethodPost, c.baseURL+"/shop/cart/add/", accessToken, addCartItemRequest{
		ProductID:          line.ProductID,
		Title:              line.Title,
		Price:              line.UnitPrice,
		Quantity:           line.Quantity,
		Thumbnail:          line.Thumbnail,
		DiscountPercentage: line.DiscountPercentage,
	}, nil)
	c.metrics.RecordUpstream("shop", "cart_add", err != nil)
	return err
}

// RemoveCartItem deletes the line for the product.
func (c *ShopClient) RemoveCartItem(ctx context.Context, accessToken string, productID int64) error {
	url := fmt.Sprintf("%s/shop/cart/remove/%d/", c.baseURL, productID)
	err := doJSON(ctx, c.client, http.MethodDelete, url, accessToken, nil, nil)
	c.metrics.RecordUpstream("shop", "cart_remove", err != nil)
	return err
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem sets the quantity of an existing line.
func (c *ShopClient) UpdateCartItem(ctx context.Context, accessToken string, productID int64, quantity int) error {
	url := fmt.Sprintf("%s/shop/cart/update/%d/", c.baseURL, productID)
	err := doJSON(ctx, c.client, http.MethodPatch, url, accessToken, updateCartItemRequest{Quantity: quantity}, nil)
	c.metrics.RecordUpstream("shop", "cart_update", err != nil)
	return err
}

// productPayload tolerates alternate catalog field spellings.
type productPayload struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discount_percentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Thumbnail          string   `json:"thumbnail"`
	Image              string   `json:"image"`
	Images             []string `json:"images"`
}

func (p productPayload) toDomain() domain.Product {
	title := p.Title
	if title == "" {
		title = p.Name
	}
	thumbnail := p.Thumbnail
	if thumbnail == "" {
		thumbnail = p.Image
	}
	return domain.Product{
		ID:                 p.ID,
		Title:              title,
		Description:        p.Description,
		Category:           p.Category,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		Rating:             p.Rating,
		Stock:              p.Stock,
		Thumbnail:          thumbnail,
		Images:             p.Images,
	}
}

func toProducts(payloads []productPayload) []domain.Product {
	products := make([]domain.Product, 0, len(payloads))
	for _, p := range payloads {
		products = append(products, p.toDomain())
	}
	return products
}

// Products lists the full catalog.
func (c *ShopClient) Products(ctx context.Context) ([]domain.Product, error) {
	var resp []productPayload
	err := doJSON(ctx, c.client, http.MethodGet, c.baseURL+"/shop/products/", "", nil, &resp)
	c.metrics.RecordUpstream("shop", "products", err != nil)
	if err != nil {
		return nil, err
	}
	return toProducts(resp), nil
}

// ProductByID fetches a single product.
func (c *ShopClient) ProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	var resp productPayload
	url := fmt.Sprintf("%s/shop/products/%d/", c.baseURL, id)
	err := doJSON(ctx, c.client, http.MethodGet, url, "", nil, &resp)
	c.metrics.RecordUpstream("shop", "product_by_id", err != nil)
	if err != nil {
		return nil, err
	}
	product := resp.toDomain()
	return &product, nil
}

// TopSelling lists the shop's best sellers.
func (c *ShopClient) TopSelling(ctx context.Context) ([]domain.Product, error) {
	var resp []productPayload
	err := doJSON(ctx, c.client, http.MethodGet, c.baseURL+"/shop/top-selling-products/", "", nil, &resp)
	c.metrics.RecordUpstream("shop", "top_selling", err != nil)
	if err != nil {
		return nil, err
	}
	return toProducts(resp), nil
}

type categoryPayload struct {
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
	Image        string `json:"image"`
}

// TopCategories lists the most popular categories.
func (c *ShopClient) TopCategories(ctx context.Context) ([]domain.Category, error) {
	var resp []categoryPayload
	err := doJSON(ctx, c.client, http.MethodGet, c.baseURL+"/shop/top-categories/", "", nil, &resp)
	c.metrics.RecordUpstream("shop", "top_categories", err != nil)
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(resp))
	for _, item := range resp {
		categories = append(categories, domain.Category{
			Name:         item.Name,
			ProductCount: item.ProductCount,
			Image:        item.Image,
		})
	}
	return categories, nil
}

// Districts lists deliverable regions for checkout.
func (c *ShopClient) Districts(ctx context.Context) ([]domain.District, error) {
	var resp []domain.District
	err := doJSON(ctx, c.client, http.MethodGet, c.baseURL+"/shop/districts/", "", nil, &resp)
	c.metrics.RecordUpstream("shop", "districts", err != nil)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

type contactRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Details string `json:"details"`
	Status  string `json:"status"`
}

// Contact forwards a customer inquiry.
func (c *ShopClient) Contact(ctx context.Context, msg domain.ContactMessage) error {
	err := doJSON(ctx, c.client, http.MethodPost, c.baseURL+"/shop/contact/", "", contactRequest{
		Email:   msg.Email,
		Subject: msg.Subject,
		Details: msg.Details,
		Status:  "Pending",
	}, nil)
	c.metrics.RecordUpstream("shop", "contact", err != nil)
	return err
}
