// Package catalogstore holds the fetched product catalog, the current filter
// criteria, and the derived filtered view.
package catalogstore

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/oldwares/curio/pkg/storefront/api"
)

// CategoryAll is the sentinel meaning "no category filter".
const CategoryAll = "all"

// Fetcher loads product collections from the backend. api.Client satisfies it.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]api.Product, error)
	FetchFeatured(ctx context.Context) ([]api.Product, error)
}

// Store is the catalog state container. It is safe for concurrent use;
// subscribers are notified after each state change.
type Store struct {
	mu               sync.Mutex
	items            []api.Product
	featured         []api.Product
	filtered         []api.Product
	categories       []string
	selectedCategory string
	searchQuery      string
	loading          bool
	errText          string
	// loadSeq tags each LoadAll so responses to superseded requests are
	// discarded instead of racing the newest one.
	loadSeq uint64

	fetcher Fetcher
	logger  *slog.Logger

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// NewStore creates an empty catalog store backed by the given fetcher.
func NewStore(fetcher Fetcher, logger *slog.Logger) *Store {
	return &Store{
		selectedCategory: CategoryAll,
		fetcher:          fetcher,
		logger:           logger.With("component", "catalogstore"),
		subs:             make(map[int]func()),
	}
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

// LoadAll fetches the full catalog. On success it stores the items, recomputes
// the distinct sorted category set and re-applies the current filter; on
// failure it stores the error's message. A response that was superseded by a
// newer LoadAll is discarded.
func (s *Store) LoadAll(ctx context.Context) {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.loading = true
	s.mu.Unlock()
	s.notify()

	items, err := s.fetcher.FetchProducts(ctx)

	s.mu.Lock()
	if seq != s.loadSeq {
		s.mu.Unlock()
		s.logger.Debug("Discarding stale catalog response", "seq", seq)
		return
	}
	s.loading = false
	if err != nil {
		s.errText = err.Error()
		s.mu.Unlock()
		s.logger.Warn("Failed to load catalog", "error", err)
		s.notify()
		return
	}
	s.errText = ""
	s.items = items
	s.categories = distinctCategories(items)
	s.filtered = filterProducts(items, s.selectedCategory, s.searchQuery)
	s.mu.Unlock()
	s.notify()
}

// LoadFeatured fetches the featured subset. Failures degrade gracefully to an
// empty list and are never surfaced.
func (s *Store) LoadFeatured(ctx context.Context) {
	featured, err := s.fetcher.FetchFeatured(ctx)
	if err != nil {
		s.logger.Warn("Failed to load featured products, showing none", "error", err)
		featured = nil
	}
	s.mu.Lock()
	s.featured = featured
	s.mu.Unlock()
	s.notify()
}

// SetCategory updates the category filter and recomputes the filtered view.
func (s *Store) SetCategory(category string) {
	s.mu.Lock()
	s.selectedCategory = category
	s.filtered = filterProducts(s.items, s.selectedCategory, s.searchQuery)
	s.mu.Unlock()
	s.notify()
}

// SetSearch updates the free-text filter and recomputes the filtered view.
func (s *Store) SetSearch(query string) {
	s.mu.Lock()
	s.searchQuery = query
	s.filtered = filterProducts(s.items, s.selectedCategory, s.searchQuery)
	s.mu.Unlock()
	s.notify()
}

// ClearFilters resets the category to CategoryAll and empties the search
// query; the filtered view becomes the full item list.
func (s *Store) ClearFilters() {
	s.mu.Lock()
	s.selectedCategory = CategoryAll
	s.searchQuery = ""
	s.filtered = slices.Clone(s.items)
	s.mu.Unlock()
	s.notify()
}

// Items returns a copy of the full fetched product list.
func (s *Store) Items() []api.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Filtered returns a copy of the current filtered view.
func (s *Store) Filtered() []api.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.filtered)
}

// Featured returns a copy of the featured subset.
func (s *Store) Featured() []api.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.featured)
}

// Categories returns the distinct sorted categories present in the catalog.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.categories)
}

// SelectedCategory returns the current category filter.
func (s *Store) SelectedCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedCategory
}

// SearchQuery returns the current free-text filter.
func (s *Store) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchQuery
}

// Loading reports whether a catalog load is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the user-facing error text of the last failed load, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errText
}

// filterProducts applies the category and search filters by intersection,
// preserving source order. The category filter is an exact match unless the
// category is CategoryAll; the search filter is a case-insensitive substring
// match over title, description and category.
func filterProducts(items []api.Product, category, query string) []api.Product {
	filtered := make([]api.Product, 0, len(items))
	q := strings.ToLower(query)
	for _, p := range items {
		if category != CategoryAll && p.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// distinctCategories returns the sorted set of categories present in items.
func distinctCategories(items []api.Product) []string {
	seen := make(map[string]struct{}, len(items))
	categories := make([]string, 0, len(items))
	for _, p := range items {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	slices.Sort(categories)
	return categories
}
