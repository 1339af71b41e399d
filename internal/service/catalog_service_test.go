package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-gateway/internal/domain"
	"github.com/spec-kit/storefront-gateway/internal/events"
	apperrors "github.com/spec-kit/storefront-gateway/pkg/util"
)

type stubShop struct {
	products     []domain.Product
	contactCalls int
}

func (s *stubShop) CartItems(context.Context, string) ([]domain.CartLine, error) { return nil, nil }
func (s *stubShop) AddCartItem(context.Context, string, domain.CartLine) error { return nil }
func (s *stubShop) RemoveCartItem(context.Context, string, int64) error { return nil }
func (s *stubShop) UpdateCartItem(context.Context, string, int64, int) error { return nil }

func (s *stubShop) Products(context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubShop) ProductByID(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, apperrors.NewNotFound("product", nil)
}

func (s *stubShop) TopSelling(context.Context) ([]domain.Product, error) { return nil, nil }
func (s *stubShop) TopCategories(context.Context) ([]domain.Category, error) { return nil, nil }
func (s *stubShop) Districts(context.Context) ([]domain.District, error) { return nil, nil }

func (s *stubShop) Contact(context.Context, domain.ContactMessage) error {
	s.contactCalls++
	return nil
}

func catalogProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Title: "subject", Category: "audio", Rating: 4.0},
		{ID: 2, Title: "beta", Category: "audio", Rating: 4.5},
		{ID: 3, Title: "alpha", Category: "audio", Rating: 4.5},
		{ID: 4, Title: "gamma", Category: "audio", Rating: 3.0},
		{ID: 5, Title: "other", Category: "video", Rating: 5.0},
	}
}

func TestRelatedFiltersAndSorts(t *testing.T) {
	shop := &stubShop{products: catalogProducts()}
	svc := NewCatalogService(shop, events.NewInMemoryDispatcher(zap.NewNop()), zap.NewNop(), 10)

	related, err := svc.Related(context.Background(), 1)
	require.NoError(t, err)

	ids := make([]int64, 0, len(related))
	for _, p := range related {
		ids = append(ids, p.ID)
	}
	// same category only, subject excluded, rating desc with title tiebreak
	assert.Equal(t, []int64{3, 2, 4}, ids)
}

func TestRelatedCapsAtLimit(t *testing.T) {
	shop := &stubShop{products: catalogProducts()}
	svc := NewCatalogService(shop, events.NewInMemoryDispatcher(zap.NewNop()), zap.NewNop(), 2)

	related, err := svc.Related(context.Background(), 1)
	require.NoError(t, err)

	assert.Len(t, related, 2)
}

func TestRelatedUnknownProduct(t *testing.T) {
	shop := &stubShop{products: catalogProducts()}
	svc := NewCatalogService(shop, events.NewInMemoryDispatcher(zap.NewNop()), zap.NewNop(), 10)

	_, err := svc.Related(context.Background(), 999)

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestContactValidatesFields(t *testing.T) {
	shop := &stubShop{}
	svc := NewCatalogService(shop, events.NewInMemoryDispatcher(zap.NewNop()), zap.NewNop(), 10)

	err := svc.Contact(context.Background(), domain.ContactMessage{Email: " ", Details: ""})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	assert.Zero(t, shop.contactCalls)
}

func TestContactForwardsAndPublishes(t *testing.T) {
	shop := &stubShop{}
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())

	var published []events.Event
	dispatcher.Subscribe(events.EventContactMessage, func(_ context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	})

	svc := NewCatalogService(shop, dispatcher, zap.NewNop(), 10)

	err := svc.Contact(context.Background(), domain.ContactMessage{
		Email:   "a@b.c",
		Subject: "hello",
		Details: "question about an order",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, shop.contactCalls)
	require.Len(t, published, 1)
	assert.Equal(t, events.EventContactMessage, published[0].Type)
}
