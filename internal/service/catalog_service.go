package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-gateway/internal/domain"
	"github.com/spec-kit/storefront-gateway/internal/events"
	"github.com/spec-kit/storefront-gateway/internal/upstream"
	apperrors "github.com/spec-kit/storefront-gateway/pkg/util"
)

// CatalogService proxies the product catalog and answers
// related-product queries.
type CatalogService struct {
	shop         upstream.ShopAPI
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	relatedLimit int
}

// NewCatalogService builds the service.
func NewCatalogService(shop upstream.ShopAPI, dispatcher events.Dispatcher, logger *zap.Logger, relatedLimit int) *CatalogService {
	if relatedLimit <= 0 {
		relatedLimit = 10
	}
	return &CatalogService{
		shop:         shop,
		dispatcher:   dispatcher,
		logger:       logger,
		relatedLimit: relatedLimit,
	}
}

// Products lists the catalog.
func (s *CatalogService) Products(ctx context.Context) ([]domain.Product, error) {
	return s.shop.Products(ctx)
}

// ProductByID fetches a single product.
func (s *CatalogService) ProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.shop.ProductByID(ctx, id)
}

// Related returns products sharing the subject's category, the subject
// itself excluded, best rated first with title as tiebreak, capped at
// the configured limit.
func (s *CatalogService) Related(ctx context.Context, productID int64) ([]domain.Product, error) {
	subject, err := s.shop.ProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	all, err := s.shop.Products(ctx)
	if err != nil {
		return nil, err
	}

	related := make([]domain.Product, 0, s.relatedLimit)
	for _, product := range all {
		if product.ID == subject.ID || product.Category != subject.Category {
			continue
		}
		related = append(related, product)
	}

	sort.Slice(related, func(i, j int) bool {
		if related[i].Rating != related[j].Rating {
			return related[i].Rating > related[j].Rating
		}
		return related[i].Title < related[j].Title
	})

	if len(related) > s.relatedLimit {
		related = related[:s.relatedLimit]
	}
	return related, nil
}

// TopSelling lists the shop's best sellers.
func (s *CatalogService) TopSelling(ctx context.Context) ([]domain.Product, error) {
	return s.shop.TopSelling(ctx)
}

// TopCategories lists the most popular categories.
func (s *CatalogService) TopCategories(ctx context.Context) ([]domain.Category, error) {
	return s.shop.TopCategories(ctx)
}

// Contact validates and forwards a customer inquiry, then emits a
// contact_message event.
func (s *CatalogService) Contact(ctx context.Context, msg domain.ContactMessage) error {
	details := map[string]any{}
	if strings.TrimSpace(msg.Email) == "" {
		details["email"] = "required"
	}
	if strings.TrimSpace(msg.Details) == "" {
		details["details"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("missing contact fields", details)
	}

	if err := s.shop.Contact(ctx, msg); err != nil {
		return err
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventContactMessage,
		Timestamp: time.Now(),
		Payload: events.ContactMessagePayload{
			Email:   msg.Email,
			Subject: msg.Subject,
		},
	})
	return nil
}
