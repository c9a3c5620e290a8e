// Package cartstore holds the shopping cart: line items with add-time
// snapshots of product display fields, a visibility flag, and derived totals.
// Every mutation is persisted through the configured Persister.
package cartstore

import (
	"log/slog"
	"sync"

	"github.com/oldwares/curio/pkg/storefront/api"
	"github.com/shopspring/decimal"
)

// Line is one product-plus-quantity entry in the cart. Title, Price, ImageKey
// and Category are snapshots captured when the product was added; later
// catalog changes do not affect them.
type Line struct {
	ProductID int64           `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	ImageKey  string          `json:"image,omitempty"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
}

// Persister saves and loads the cart line list.
type Persister interface {
	Load() ([]Line, error)
	Save(lines []Line) error
}

// Store is the cart state container. It is safe for concurrent use; all
// mutations are serialized and subscribers are notified after each change.
type Store struct {
	mu      sync.Mutex
	lines   []Line
	open    bool
	persist Persister
	logger  *slog.Logger

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// NewStore creates a cart store and rehydrates it from the persister.
// Rehydration failures are absorbed: the cart starts empty, never fails.
func NewStore(persist Persister, logger *slog.Logger) *Store {
	s := &Store{
		persist: persist,
		logger:  logger.With("component", "cartstore"),
		subs:    make(map[int]func()),
	}
	lines, err := persist.Load()
	if err != nil {
		s.logger.Warn("Failed to load persisted cart, starting empty", "error", err)
		lines = nil
	}
	s.lines = lines
	return s
}

// Subscribe registers fn to be called after every state change. The returned
// function cancels the subscription.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// AddItem adds one unit of the product to the cart. An existing line for the
// same product is incremented; otherwise a new line with a snapshot of the
// product's display fields is appended.
func (s *Store) AddItem(p api.Product) {
	s.mu.Lock()
	found := false
	for i := range s.lines {
		if s.lines[i].ProductID == p.ID {
			s.lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.lines = append(s.lines, Line{
			ProductID: p.ID,
			Title:     p.Title,
			Price:     p.Price,
			ImageKey:  p.ImageKey,
			Category:  p.Category,
			Quantity:  1,
		})
	}
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
}

// RemoveItem deletes the line for the given product. Removing an absent
// product is a no-op.
func (s *Store) RemoveItem(productID int64) {
	s.mu.Lock()
	kept := s.lines[:0]
	for _, line := range s.lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	s.lines = kept
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
}

// SetQuantity sets the line's quantity to exactly quantity. A quantity below
// one removes the line. Setting quantity on an absent product is a no-op.
func (s *Store) SetQuantity(productID int64, quantity int) {
	if quantity < 1 {
		s.RemoveItem(productID)
		return
	}
	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			break
		}
	}
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
}

// Lines returns a copy of the current line list.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// Total returns the sum of price times quantity over all lines, using the
// snapshot price captured at add time.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// ItemCount returns the sum of all line quantities, not the line count.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Open makes the cart panel visible.
func (s *Store) Open() {
	s.setOpen(true)
}

// Close hides the cart panel.
func (s *Store) Close() {
	s.setOpen(false)
}

// Toggle flips the cart panel visibility.
func (s *Store) Toggle() {
	s.mu.Lock()
	s.open = !s.open
	s.mu.Unlock()
	s.notify()
}

// IsOpen reports whether the cart panel is visible.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Store) setOpen(open bool) {
	s.mu.Lock()
	changed := s.open != open
	s.open = open
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// saveLocked persists the full line list. Save failures are logged and
// swallowed so a broken persister never blocks cart mutations.
func (s *Store) saveLocked() {
	if err := s.persist.Save(s.lines); err != nil {
		s.logger.Error("Failed to persist cart", "error", err)
	}
}
