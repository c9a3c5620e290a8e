// Package uistate holds ephemeral view state: the selected product for the
// detail view, the checkout panel flag, and a self-clearing notification.
// Nothing here is persisted; the state resets on process restart.
package uistate

import (
	"sync"
	"time"

	"github.com/oldwares/curio/pkg/storefront/api"
)

// DefaultNotificationTTL is how long a notification stays visible unless
// dismissed first.
const DefaultNotificationTTL = 3 * time.Second

// Severity classifies a notification for presentation.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Notification is a short-lived message shown to the user. At most one is
// current; a new one replaces the previous immediately.
type Notification struct {
	Message  string
	Severity Severity
}

// Store is the transient UI state container. It is safe for concurrent use;
// subscribers are notified after each state change.
type Store struct {
	mu           sync.Mutex
	selected     *api.Product
	productOpen  bool
	checkoutOpen bool
	note         *Notification
	// noteGen invalidates a pending auto-clear when the notification is
	// replaced or dismissed before its timer fires.
	noteGen uint64
	timer   *time.Timer
	ttl     time.Duration

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithNotificationTTL overrides the auto-clear delay, used by tests.
func WithNotificationTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// NewStore creates an empty UI state store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		ttl:  DefaultNotificationTTL,
		subs: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
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

func (s *Store) notifySubs() {
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

// OpenProductDetail selects a product and opens the detail view.
func (s *Store) OpenProductDetail(p api.Product) {
	s.mu.Lock()
	s.selected = &p
	s.productOpen = true
	s.mu.Unlock()
	s.notifySubs()
}

// CloseProductDetail closes the detail view and clears the selection.
func (s *Store) CloseProductDetail() {
	s.mu.Lock()
	s.selected = nil
	s.productOpen = false
	s.mu.Unlock()
	s.notifySubs()
}

// SelectedProduct returns the product shown in the detail view, if any.
func (s *Store) SelectedProduct() (api.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return api.Product{}, false
	}
	return *s.selected, true
}

// IsProductOpen reports whether the product detail view is open.
func (s *Store) IsProductOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productOpen
}

// OpenCheckout opens the checkout panel.
func (s *Store) OpenCheckout() {
	s.setCheckoutOpen(true)
}

// CloseCheckout closes the checkout panel.
func (s *Store) CloseCheckout() {
	s.setCheckoutOpen(false)
}

// IsCheckoutOpen reports whether the checkout panel is open.
func (s *Store) IsCheckoutOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkoutOpen
}

func (s *Store) setCheckoutOpen(open bool) {
	s.mu.Lock()
	s.checkoutOpen = open
	s.mu.Unlock()
	s.notifySubs()
}

// Notify replaces any current notification and schedules an auto-clear after
// the configured TTL. Dismissal and replacement both cancel the pending clear.
func (s *Store) Notify(message string, severity Severity) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.noteGen++
	gen := s.noteGen
	s.note = &Notification{Message: message, Severity: severity}
	s.timer = time.AfterFunc(s.ttl, func() {
		s.clearIfCurrent(gen)
	})
	s.mu.Unlock()
	s.notifySubs()
}

// Dismiss clears the current notification and cancels its pending auto-clear.
// Dismissing when nothing is shown is a no-op.
func (s *Store) Dismiss() {
	s.mu.Lock()
	if s.note == nil {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.noteGen++
	s.note = nil
	s.mu.Unlock()
	s.notifySubs()
}

// Notification returns the current notification, or nil.
func (s *Store) Notification() *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.note == nil {
		return nil
	}
	note := *s.note
	return &note
}

// clearIfCurrent clears the notification only if it has not been replaced or
// dismissed since the timer was armed.
func (s *Store) clearIfCurrent(gen uint64) {
	s.mu.Lock()
	if gen != s.noteGen {
		s.mu.Unlock()
		return
	}
	s.note = nil
	s.timer = nil
	s.mu.Unlock()
	s.notifySubs()
}
