// Package service implements the session and commerce state store: the
// single writable owner of identity, bag, favorites, and order history.
// Every mutation applies locally first (optimistic), then reconciles with
// the remote backend; each state slice is mirrored to the snapshot store
// on every change.
package service

import (
	"context"
	"log/slog"
	"sync"

	"atelier/internal/remote"
	"atelier/internal/snapshot"
	"atelier/internal/storefront/metrics"
	"atelier/internal/storefront/models"
)

// Remote is the backend surface the store reconciles against.
type Remote interface {
	Register(ctx context.Context, name, email, password string) (*remote.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*remote.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	GetBag(ctx context.Context, userID string) ([]string, error)
	AddToBag(ctx context.Context, userID, productID string) ([]string, error)
	RemoveFromBag(ctx context.Context, userID, productID string) ([]string, error)
	ReplaceBag(ctx context.Context, userID string, productIDs []string) ([]string, error)
	GetFavorites(ctx context.Context, userID string) ([]string, error)
	AddFavorite(ctx context.Context, userID, productID string) error
	RemoveFavorite(ctx context.Context, userID, productID string) error
	FetchProduct(ctx context.Context, productID string) (*models.Product, error)
}

// Store owns all client-side commerce state. All mutations must go through
// its methods; callers get copies, never the internal slices.
//
// Locking covers local state only. Remote calls run outside the lock, so
// two overlapping mutations on the same line can leave the remote id set
// transiently ahead of or behind local quantity math — the last response
// to land wins. That is the documented trade-off, not a guarantee.
type Store struct {
	mu        sync.Mutex
	session   models.Session
	bag       []models.BagLine
	bagIDs    []string
	favorites []string
	orders    []models.Order

	background sync.WaitGroup

	remote    Remote
	snapshots snapshot.Store
	logger    *slog.Logger
	metrics   *metrics.Metrics

	hydrateConcurrency int
}

// Option configures the Store.
type Option func(s *Store)

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithHydrateConcurrency bounds the product-fetch fan-out during bag hydration.
func WithHydrateConcurrency(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.hydrateConcurrency = n
		}
	}
}

// New constructs a Store over the given remote backend and snapshot store.
func New(r Remote, snapshots snapshot.Store, opts ...Option) *Store {
	s := &Store{
		remote:             r,
		snapshots:          snapshots,
		hydrateConcurrency: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns the current session record.
func (s *Store) Session() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Bag returns a copy of the bag line collection.
func (s *Store) Bag() []models.BagLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.BagLine, len(s.bag))
	copy(out, s.bag)
	return out
}

// BagIDs returns a copy of the remote-tracked bag product-id set.
func (s *Store) BagIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.bagIDs))
	copy(out, s.bagIDs)
	return out
}

// Favorites returns a copy of the favorite product ids in insertion order.
func (s *Store) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.favorites))
	copy(out, s.favorites)
	return out
}

// IsFavorite reports membership in the favorite set.
func (s *Store) IsFavorite(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favoriteIndexLocked(productID) >= 0
}

// Orders returns a copy of the order history.
func (s *Store) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// ReplaceOrders bulk-replaces order history. Orders are read-only
// otherwise; this exists for snapshot restore and backend imports.
func (s *Store) ReplaceOrders(orders []models.Order) {
	s.mu.Lock()
	s.orders = make([]models.Order, len(orders))
	copy(s.orders, orders)
	s.mu.Unlock()

	s.persistOrders()
}

// WaitBackground blocks until background refreshes started by Hydrate have
// finished. Tests and orderly shutdown use it; the UI never does.
func (s *Store) WaitBackground() {
	s.background.Wait()
}

func (s *Store) favoriteIndexLocked(productID string) int {
	for i, id := range s.favorites {
		if id == productID {
			return i
		}
	}
	return -1
}

func (s *Store) logError(ctx context.Context, msg string, err error, args ...any) {
	if s.logger == nil {
		return
	}
	args = append(args, "error", err)
	s.logger.ErrorContext(ctx, msg, args...)
}

func (s *Store) logWarn(ctx context.Context, msg string, err error, args ...any) {
	if s.logger == nil {
		return
	}
	args = append(args, "error", err)
	s.logger.WarnContext(ctx, msg, args...)
}

func (s *Store) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.InfoContext(ctx, msg, args...)
}

func (s *Store) countRemoteFailure(operation string) {
	if s.metrics != nil {
		s.metrics.RemoteFailures.WithLabelValues(operation).Inc()
	}
}
