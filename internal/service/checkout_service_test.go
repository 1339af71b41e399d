package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-gateway/internal/cart"
	"github.com/spec-kit/storefront-gateway/internal/domain"
	"github.com/spec-kit/storefront-gateway/internal/events"
	"github.com/spec-kit/storefront-gateway/internal/observability"
	"github.com/spec-kit/storefront-gateway/internal/session"
	apperrors "github.com/spec-kit/storefront-gateway/pkg/util"
)

type fixedTokenStore struct{}

func (fixedTokenStore) Tokens(context.Context, string) (string, string, error) {
	return "tok", "", nil
}
func (fixedTokenStore) SaveAccess(context.Context, string, string) error { return nil }
func (fixedTokenStore) SaveRefresh(context.Context, string, string) error { return nil }
func (fixedTokenStore) Clear(context.Context, string) error { return nil }

type passAuth struct{}

func (passAuth) Verify(context.Context, string) error { return nil }
func (passAuth) Refresh(context.Context, string) (domain.TokenPair, error) {
	return domain.TokenPair{}, errors.New("unused")
}
func (passAuth) Login(context.Context, string, string) (domain.TokenPair, error) {
	return domain.TokenPair{}, errors.New("unused")
}
func (passAuth) Register(context.Context, string, string) (domain.TokenPair, error) {
	return domain.TokenPair{}, errors.New("unused")
}
func (passAuth) Profile(context.Context, string) (*domain.Profile, error) {
	return &domain.Profile{}, nil
}
func (passAuth) UpdateProfile(_ context.Context, _ string, patch domain.Profile) (*domain.Profile, error) {
	return &patch, nil
}

type cartShop struct {
	stubShop
	lines       []domain.CartLine
	removeCalls int
}

func (s *cartShop) CartItems(context.Context, string) ([]domain.CartLine, error) {
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out, nil
}

func (s *cartShop) RemoveCartItem(_ context.Context, _ string, productID int64) error {
	s.removeCalls++
	kept := s.lines[:0]
	for _, line := range s.lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	s.lines = kept
	return nil
}

type memOrderRepo struct {
	orders    []domain.Order
	createErr error
}

func (r *memOrderRepo) Create(_ context.Context, order *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.orders = append(r.orders, *order)
	return nil
}

func (r *memOrderRepo) ListByCustomer(_ context.Context, email string) ([]domain.Order, error) {
	var out []domain.Order
	for _, order := range r.orders {
		if order.CustomerEmail == email {
			out = append(out, order)
		}
	}
	return out, nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id, email string) (*domain.Order, error) {
	for _, order := range r.orders {
		if order.ID == id && order.CustomerEmail == email {
			found := order
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newCheckoutFixture(shop *cartShop, repo *memOrderRepo) *CheckoutService {
	sessions := session.NewManager(fixedTokenStore{}, passAuth{}, zap.NewNop())
	policy := domain.CartPolicy{ShippingFee: 99, TaxRate: 0.08}
	carts := cart.NewAggregator(sessions, shop, nil, policy, zap.NewNop(), observability.NewMetrics())
	return NewCheckoutService(carts, repo, shop, events.NewInMemoryDispatcher(zap.NewNop()), zap.NewNop())
}

func validInput() PlaceOrderInput {
	return PlaceOrderInput{
		ShippingName:  "Jane Doe",
		ShippingPhone: "123456",
		Address:       "1 Main St",
		District:      "Central",
	}
}

func TestPlaceOrderSnapshotsCart(t *testing.T) {
	shop := &cartShop{lines: []domain.CartLine{{ProductID: 1, UnitPrice: 12.5, Quantity: 2}}}
	repo := &memOrderRepo{}
	svc := newCheckoutFixture(shop, repo)

	order, err := svc.PlaceOrder(context.Background(), "sid", &domain.Profile{Email: "a@b.c"}, validInput())
	require.NoError(t, err)

	require.Len(t, repo.orders, 1)
	assert.Equal(t, "a@b.c", order.CustomerEmail)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, float64(126), order.Summary.Total)
	require.Len(t, order.Lines, 1)

	// the remote cart was emptied after the snapshot
	assert.Equal(t, 1, shop.removeCalls)
	assert.Empty(t, shop.lines)
}

func TestPlaceOrderRejectsMissingShippingDetails(t *testing.T) {
	shop := &cartShop{lines: []domain.CartLine{{ProductID: 1, UnitPrice: 10, Quantity: 1}}}
	svc := newCheckoutFixture(shop, &memOrderRepo{})

	_, err := svc.PlaceOrder(context.Background(), "sid", &domain.Profile{Email: "a@b.c"}, PlaceOrderInput{})

	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "shipping_name")
	assert.Contains(t, domainErr.Details, "address")
	assert.Contains(t, domainErr.Details, "district")
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	svc := newCheckoutFixture(&cartShop{}, &memOrderRepo{})

	_, err := svc.PlaceOrder(context.Background(), "sid", &domain.Profile{Email: "a@b.c"}, validInput())

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestGetOrderUnknownIDMapsToNotFound(t *testing.T) {
	svc := newCheckoutFixture(&cartShop{}, &memOrderRepo{})

	_, err := svc.GetOrder(context.Background(), "missing", "a@b.c")

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestListOrdersFiltersByCustomer(t *testing.T) {
	repo := &memOrderRepo{orders: []domain.Order{
		{ID: "o1", CustomerEmail: "a@b.c"},
		{ID: "o2", CustomerEmail: "x@y.z"},
	}}
	svc := newCheckoutFixture(&cartShop{}, repo)

	orders, err := svc.ListOrders(context.Background(), "a@b.c")
	require.NoError(t, err)

	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
}
