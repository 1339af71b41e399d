package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-gateway/internal/cart"
	"github.com/spec-kit/storefront-gateway/internal/domain"
	"github.com/spec-kit/storefront-gateway/internal/events"
	"github.com/spec-kit/storefront-gateway/internal/repository"
	"github.com/spec-kit/storefront-gateway/internal/upstream"
	apperrors "github.com/spec-kit/storefront-gateway/pkg/util"
)

// PlaceOrderInput carries the shipping details collected at checkout.
type PlaceOrderInput struct {
	ShippingName  string
	ShippingPhone string
	Address       string
	District      string
}

// CheckoutService turns the authenticated cart into an order snapshot.
type CheckoutService struct {
	carts      *cart.Aggregator
	orders     repository.OrderRepository
	shop       upstream.ShopAPI
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCheckoutService builds the service.
func NewCheckoutService(carts *cart.Aggregator, orders repository.OrderRepository, shop upstream.ShopAPI, dispatcher events.Dispatcher, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		carts:      carts,
		orders:     orders,
		shop:       shop,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// PlaceOrder freezes the current remote cart into an order, clears the
// cart and emits an order_created event. Lines and totals are
// snapshotted, so later price changes never rewrite order history.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sid string, profile *domain.Profile, in PlaceOrderInput) (*domain.Order, error) {
	details := map[string]any{}
	if strings.TrimSpace(in.ShippingName) == "" {
		details["shipping_name"] = "required"
	}
	if strings.TrimSpace(in.Address) == "" {
		details["address"] = "required"
	}
	if strings.TrimSpace(in.District) == "" {
		details["district"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("missing shipping details", details)
	}

	view, err := s.carts.FetchItems(ctx, sid)
	if err != nil {
		return nil, err
	}
	if len(view.Lines) == 0 {
		return nil, apperrors.NewValidationError("cart is empty", nil)
	}

	order := &domain.Order{
		ID:            uuid.NewString(),
		CustomerEmail: profile.Email,
		Lines:         view.Lines,
		Summary:       view.Summary,
		ShippingName:  in.ShippingName,
		ShippingPhone: in.ShippingPhone,
		Address:       in.Address,
		District:      in.District,
		Status:        domain.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if _, err := s.carts.Clear(ctx, sid, true); err != nil {
		s.logger.Warn("cart clear after checkout failed", zap.String("order_id", order.ID), zap.Error(err))
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventOrderCreated,
		Timestamp: time.Now(),
		Payload: events.OrderCreatedPayload{
			OrderID:       order.ID,
			CustomerEmail: order.CustomerEmail,
			Total:         order.Summary.Total,
			TotalItems:    order.Summary.TotalItems,
		},
	})

	return order, nil
}

// ListOrders returns the customer's order history, newest first.
func (s *CheckoutService) ListOrders(ctx context.Context, email string) ([]domain.Order, error) {
	return s.orders.ListByCustomer(ctx, email)
}

// GetOrder returns one order owned by the customer.
func (s *CheckoutService) GetOrder(ctx context.Context, id, email string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", map[string]any{"id": id})
		}
		return nil, err
	}
	return order, nil
}

// Districts lists deliverable regions for the checkout form.
func (s *CheckoutService) Districts(ctx context.Context) ([]domain.District, error) {
	return s.shop.Districts(ctx)
}
