package cart

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/storefront-gateway/internal/domain"
	"github.com/spec-kit/storefront-gateway/internal/observability"
	"github.com/spec-kit/storefront-gateway/internal/session"
	"github.com/spec-kit/storefront-gateway/internal/upstream"
	apperrors "github.com/spec-kit/storefront-gateway/pkg/util"
)

// View is what callers observe after any cart operation: the line set
// together with the summary derived from exactly that line set.
type View struct {
	Lines   []domain.CartLine  `json:"items"`
	Summary domain.CartSummary `json:"summary"`
}

// Aggregator maintains cart state for the current session mode.
// Authenticated sessions use the remote shop cart as the source of
// truth (every mutation is followed by a full refetch); anonymous
// sessions mutate the gateway-persisted local cart directly. Summary
// and lines are recomputed together, so no caller can observe them out
// of sync. Mutations are serialized per owner.
type Aggregator struct {
	sessions *session.Manager
	shop     upstream.ShopAPI
	local    LocalStore
	policy   domain.CartPolicy
	logger   *zap.Logger
	metrics  *observability.Metrics
	locks    *ownerLocks
}

// NewAggregator builds the aggregator.
func NewAggregator(sessions *session.Manager, shop upstream.ShopAPI, local LocalStore, policy domain.CartPolicy, logger *zap.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		sessions: sessions,
		shop:     shop,
		local:    local,
		policy:   policy,
		logger:   logger,
		metrics:  metrics,
		locks:    newOwnerLocks(),
	}
}

// lineFromProduct builds the cart line for a product at the given
// quantity. Products arrive already normalized at the upstream
// boundary.
func lineFromProduct(product domain.Product, quantity int) domain.CartLine {
	return domain.CartLine{
		ProductID:          product.ID,
		Title:              product.Title,
		UnitPrice:          product.Price,
		Quantity:           quantity,
		Thumbnail:          product.Thumbnail,
		DiscountPercentage: product.DiscountPercentage,
	}
}

// FetchItems retrieves the remote cart and derives its summary. On
// failure the caller's prior view stays valid; nothing is overwritten.
func (a *Aggregator) FetchItems(ctx context.Context, sid string) (View, error) {
	token, err := a.sessions.ValidAccessToken(ctx, sid)
	if err != nil {
		return View{}, err
	}
	return a.refetch(ctx, token)
}

// Add submits a new-or-incremented line to the remote cart and
// refetches. The refetch, not an optimistic merge, keeps the view
// consistent with server-side discount and price computation.
func (a *Aggregator) Add(ctx context.Context, sid string, product domain.Product, quantity int) (View, error) {
	if quantity < 1 {
		return View{}, apperrors.NewValidationError("quantity must be at least 1", map[string]any{"quantity": quantity})
	}

	unlock := a.locks.acquire(sid)
	defer unlock()

	token, err := a.sessions.ValidAccessToken(ctx, sid)
	if err != nil {
		return View{}, err
	}
	if err := a.shop.AddCartItem(ctx, token, lineFromProduct(product, quantity)); err != nil {
		return View{}, err
	}
	a.metrics.RecordCartOp("add", "remote")
	return a.refetch(ctx, token)
}

// Remove deletes a line from the remote cart and refetches.
func (a *Aggregator) Remove(ctx context.Context, sid string, productID int64) (View, error) {
	unlock := a.locks.acquire(sid)
	defer unlock()
	return a.removeLocked(ctx, sid, productID)
}

// UpdateQuantity sets a line's quantity on the remote cart. A
// quantity of zero or less is equivalent to removing the line.
func (a *Aggregator) UpdateQuantity(ctx context.Context, sid string, productID int64, quantity int) (View, error) {
	unlock := a.locks.acquire(sid)
	defer unlock()

	if quantity <= 0 {
		return a.removeLocked(ctx, sid, productID)
	}

	token, err := a.sessions.ValidAccessToken(ctx, sid)
	if err != nil {
		return View{}, err
	}
	if err := a.shop.UpdateCartItem(ctx, token, productID, quantity); err != nil {
		return View{}, err
	}
	a.metrics.RecordCartOp("update", "remote")
	return a.refetch(ctx, token)
}

func (a *Aggregator) removeLocked(ctx context.Context, sid string, productID int64) (View, error) {
	token, err := a.sessions.ValidAccessToken(ctx, sid)
	if err != nil {
		return View{}, err
	}
	if err := a.shop.RemoveCartItem(ctx, token, productID); err != nil {
		return View{}, err
	}
	a.metrics.RecordCartOp("remove", "remote")
	return a.refetch(ctx, token)
}

func (a *Aggregator) refetch(ctx context.Context, token string) (View, error) {
	lines, err := a.shop.CartItems(ctx, token)
	if err != nil {
		return View{}, err
	}
	return View{Lines: lines, Summary: Summarize(lines, a.policy)}, nil
}

// FetchLocal returns the anonymous cart view.
func (a *Aggregator) FetchLocal(ctx context.Context, sid string) (View, error) {
	lines, err := a.local.Lines(ctx, sid)
	if err != nil {
		return View{}, err
	}
	return View{Lines: lines, Summary: Summarize(lines, a.policy)}, nil
}

// AddLocal merges the product into the anonymous cart: an existing
// line for the same product has its quantity incremented, never
// duplicated. The persisted lines and the summary change together.
func (a *Aggregator) AddLocal(ctx context.Context, sid string, product domain.Product, quantity int) (View, error) {
	if quantity < 1 {
		return View{}, apperrors.NewValidationError("quantity must be at least 1", map[string]any{"quantity": quantity})
	}

	unlock := a.locks.acquire(sid)
	defer unlock()

	lines, err := a.local.Lines(ctx, sid)
	if err != nil {
		return View{}, err
	}

	merged := false
	for i := range lines {
		if lines[i].ProductID == product.ID {
			lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, lineFromProduct(product, quantity))
	}

	a.metrics.RecordCartOp("add", "local")
	return a.saveLocal(ctx, sid, lines)
}

// RemoveLocal drops the line for the product from the anonymous cart.
func (a *Aggregator) RemoveLocal(ctx context.Context, sid string, productID int64) (View, error) {
	unlock := a.locks.acquire(sid)
	defer unlock()
	return a.removeLocalLocked(ctx, sid, productID)
}

// UpdateLocalQuantity sets a line's quantity in the anonymous cart. A
// quantity of zero or less removes the line.
func (a *Aggregator) UpdateLocalQuantity(ctx context.Context, sid string, productID int64, quantity int) (View, error) {
	unlock := a.locks.acquire(sid)
	defer unlock()

	if quantity <= 0 {
		return a.removeLocalLocked(ctx, sid, productID)
	}

	lines, err := a.local.Lines(ctx, sid)
	if err != nil {
		return View{}, err
	}
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
		}
	}

	a.metrics.RecordCartOp("update", "local")
	return a.saveLocal(ctx, sid, lines)
}

func (a *Aggregator) removeLocalLocked(ctx context.Context, sid string, productID int64) (View, error) {
	lines, err := a.local.Lines(ctx, sid)
	if err != nil {
		return View{}, err
	}

	kept := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}

	a.metrics.RecordCartOp("remove", "local")
	return a.saveLocal(ctx, sid, kept)
}

func (a *Aggregator) saveLocal(ctx context.Context, sid string, lines []domain.CartLine) (View, error) {
	if err := a.local.Save(ctx, sid, lines); err != nil {
		return View{}, err
	}
	return View{Lines: lines, Summary: Summarize(lines, a.policy)}, nil
}

// Clear empties the cart in whichever mode the session is in and
// resets the summary to its zero state.
func (a *Aggregator) Clear(ctx context.Context, sid string, authenticated bool) (View, error) {
	unlock := a.locks.acquire(sid)
	defer unlock()

	if !authenticated {
		if err := a.local.Clear(ctx, sid); err != nil {
			return View{}, err
		}
		a.metrics.RecordCartOp("clear", "local")
		return View{Summary: Summarize(nil, a.policy)}, nil
	}

	token, err := a.sessions.ValidAccessToken(ctx, sid)
	if err != nil {
		return View{}, err
	}
	lines, err := a.shop.CartItems(ctx, token)
	if err != nil {
		return View{}, err
	}
	for _, line := range lines {
		if err := a.shop.RemoveCartItem(ctx, token, line.ProductID); err != nil {
			return View{}, err
		}
	}
	a.metrics.RecordCartOp("clear", "remote")
	return a.refetch(ctx, token)
}

// MergeLocalCart folds the anonymous cart into the remote one after
// login: union by product id, remote quantity wins on conflict,
// local-only lines are pushed upstream. The local cart is cleared only
// after every push succeeded.
func (a *Aggregator) MergeLocalCart(ctx context.Context, sid string) (View, error) {
	unlock := a.locks.acquire(sid)
	defer unlock()

	token, err := a.sessions.ValidAccessToken(ctx, sid)
	if err != nil {
		return View{}, err
	}

	localLines, err := a.local.Lines(ctx, sid)
	if err != nil {
		return View{}, err
	}
	if len(localLines) == 0 {
		return a.refetch(ctx, token)
	}

	remoteLines, err := a.shop.CartItems(ctx, token)
	if err != nil {
		return View{}, err
	}
	remoteIDs := make(map[int64]struct{}, len(remoteLines))
	for _, line := range remoteLines {
		remoteIDs[line.ProductID] = struct{}{}
	}

	for _, line := range localLines {
		if _, exists := remoteIDs[line.ProductID]; exists {
			continue
		}
		if err := a.shop.AddCartItem(ctx, token, line); err != nil {
			return View{}, err
		}
	}

	if err := a.local.Clear(ctx, sid); err != nil {
		a.logger.Warn("local cart clear after merge failed", zap.Error(err))
	}

	a.metrics.RecordCartOp("merge", "remote")
	return a.refetch(ctx, token)
}
