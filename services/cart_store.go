package services

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/junkeats-app/live"
	"github.com/yeremiapane/junkeats-app/metrics"
	"github.com/yeremiapane/junkeats-app/models"
	"github.com/yeremiapane/junkeats-app/utils"
)

// Cart is a point in time view of a session cart.
type Cart struct {
	Items []models.CartItem `json:"items"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
}

// MaxLineQuantity caps a single cart line.
const MaxLineQuantity = 99

// CartStore holds one in-memory cart per session. Carts are not persisted
// and vanish on restart. Hub, when set, receives the cart after every
// change so other tabs of the session stay in sync.
type CartStore struct {
	Hub *live.Hub

	mu       sync.Mutex
	carts    map[string][]models.CartItem
	notifier Notifier
	metrics  *metrics.Metrics
}

func NewCartStore(notifier Notifier, m *metrics.Metrics) *CartStore {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &CartStore{
		carts:    make(map[string][]models.CartItem),
		notifier: notifier,
		metrics:  m,
	}
}

// Add merges qty of product into the cart. The merged line never exceeds
// MaxLineQuantity.
func (s *CartStore) Add(sessionID string, product models.Product, qty int) (Cart, error) {
	if qty < 1 || qty > MaxLineQuantity {
		return Cart{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	items := s.carts[sessionID]
	items = mergeItem(items, product, qty)
	s.carts[sessionID] = items
	cart := snapshot(items)
	s.mu.Unlock()

	s.metrics.CartOperation("add")
	s.push(sessionID, cart)
	s.notifier.Notify(sessionID, Toast{
		Title:       "Added to cart!",
		Description: fmt.Sprintf("%d x %s added to your cart.", qty, product.Name),
		Variant:     models.VariantDefault,
	})
	return cart, nil
}

// AddMultiple adds one of each product, as when accepting a suggested combo.
func (s *CartStore) AddMultiple(sessionID string, products []models.Product) (Cart, error) {
	if len(products) == 0 {
		return Cart{}, ErrProductNotFound
	}

	s.mu.Lock()
	items := s.carts[sessionID]
	added := decimal.Zero
	for _, p := range products {
		items = mergeItem(items, p, 1)
		added = added.Add(p.Price)
	}
	s.carts[sessionID] = items
	cart := snapshot(items)
	s.mu.Unlock()

	s.metrics.CartOperation("add_multiple")
	s.push(sessionID, cart)
	s.notifier.Notify(sessionID, Toast{
		Title:       "Combo added!",
		Description: fmt.Sprintf("%d items (%s) added to your cart.", len(products), utils.FormatINR(added)),
		Variant:     models.VariantDefault,
	})
	return cart, nil
}

func (s *CartStore) Remove(sessionID string, productID uint) (Cart, error) {
	s.mu.Lock()
	items, ok := removeItem(s.carts[sessionID], productID)
	if !ok {
		s.mu.Unlock()
		return Cart{}, ErrItemNotInCart
	}
	s.store(sessionID, items)
	cart := snapshot(items)
	s.mu.Unlock()

	s.metrics.CartOperation("remove")
	s.push(sessionID, cart)
	s.notifyRemoved(sessionID)
	return cart, nil
}

// SetQuantity overwrites a line's quantity. qty <= 0 removes the line.
func (s *CartStore) SetQuantity(sessionID string, productID uint, qty int) (Cart, error) {
	if qty <= 0 {
		return s.Remove(sessionID, productID)
	}
	if qty > MaxLineQuantity {
		return Cart{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	items := s.carts[sessionID]
	idx := indexOf(items, productID)
	if idx < 0 {
		s.mu.Unlock()
		return Cart{}, ErrItemNotInCart
	}
	items[idx].Quantity = qty
	cart := snapshot(items)
	s.mu.Unlock()

	s.metrics.CartOperation("set_quantity")
	s.push(sessionID, cart)
	return cart, nil
}

// Clear empties the cart. The "Cart cleared" notice is only raised when
// something was removed and suppressNotify is false.
func (s *CartStore) Clear(sessionID string, suppressNotify bool) {
	s.mu.Lock()
	hadItems := len(s.carts[sessionID]) > 0
	delete(s.carts, sessionID)
	s.mu.Unlock()

	s.metrics.CartOperation("clear")
	if hadItems {
		s.push(sessionID, snapshot(nil))
	}
	if hadItems && !suppressNotify {
		s.notifier.Notify(sessionID, Toast{
			Title:       "Cart cleared",
			Description: "All items have been removed from your cart.",
			Variant:     models.VariantDestructive,
		})
	}
	utils.InfoLogger.Debugf("cart of session %s cleared", sessionID)
}

func (s *CartStore) Get(sessionID string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.carts[sessionID])
}

// Items returns a copy of the cart lines.
func (s *CartStore) Items(sessionID string) []models.CartItem {
	return s.Get(sessionID).Items
}

func (s *CartStore) Count(sessionID string) int {
	return s.Get(sessionID).Count
}

func (s *CartStore) Total(sessionID string) decimal.Decimal {
	return s.Get(sessionID).Total
}

func (s *CartStore) store(sessionID string, items []models.CartItem) {
	if len(items) == 0 {
		delete(s.carts, sessionID)
		return
	}
	s.carts[sessionID] = items
}

func (s *CartStore) push(sessionID string, cart Cart) {
	s.Hub.SendToSession(sessionID, live.Message{Event: live.EventCartUpdate, Data: cart})
}

func (s *CartStore) notifyRemoved(sessionID string) {
	s.notifier.Notify(sessionID, Toast{
		Title:       "Item removed",
		Description: "The item has been removed from your cart.",
		Variant:     models.VariantDestructive,
	})
}

func indexOf(items []models.CartItem, productID uint) int {
	for i := range items {
		if items[i].ID == productID {
			return i
		}
	}
	return -1
}

func mergeItem(items []models.CartItem, product models.Product, qty int) []models.CartItem {
	if idx := indexOf(items, product.ID); idx >= 0 {
		if items[idx].Quantity > MaxLineQuantity-qty {
			items[idx].Quantity = MaxLineQuantity
		} else {
			items[idx].Quantity += qty
		}
		return items
	}
	return append(items, models.CartItem{Product: product, Quantity: qty})
}

func removeItem(items []models.CartItem, productID uint) ([]models.CartItem, bool) {
	idx := indexOf(items, productID)
	if idx < 0 {
		return items, false
	}
	out := make([]models.CartItem, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...), true
}

func snapshot(items []models.CartItem) Cart {
	cart := Cart{
		Items: make([]models.CartItem, len(items)),
		Total: decimal.Zero,
	}
	copy(cart.Items, items)
	for _, it := range items {
		cart.Count += it.Quantity
		cart.Total = cart.Total.Add(it.LineTotal())
	}
	return cart
}
