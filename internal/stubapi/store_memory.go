package stubapi

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"atelier/internal/sentinel"
	"atelier/internal/storefront/models"
)

// Error Contract:
// All store methods follow this pattern:
// - Return ErrNotFound when the requested entity does not exist
// - Return ErrAlreadyUsed on uniqueness conflicts
// - Return nil for successful operations

// MemoryUserStore stores accounts in memory for tests/dev.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*User
}

// NewMemoryUserStore constructs an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{byEmail: make(map[string]*User)}
}

func (s *MemoryUserStore) Create(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, ok := s.byEmail[key]; ok {
		return fmt.Errorf("email taken: %w", sentinel.ErrAlreadyUsed)
	}
	stored := *user
	s.byEmail[key] = &stored
	return nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.byEmail[strings.ToLower(email)]; ok {
		found := *user
		return &found, nil
	}
	return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
}

func (s *MemoryUserStore) Update(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, ok := s.byEmail[key]; !ok {
		return fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	stored := *user
	s.byEmail[key] = &stored
	return nil
}

// MemoryBagStore keeps per-user bag id sets in memory.
type MemoryBagStore struct {
	mu   sync.Mutex
	bags map[string][]string
}

// NewMemoryBagStore constructs an empty in-memory bag store.
func NewMemoryBagStore() *MemoryBagStore {
	return &MemoryBagStore{bags: make(map[string][]string)}
}

func (s *MemoryBagStore) Get(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyIDs(s.bags[userID]), nil
}

func (s *MemoryBagStore) Add(_ context.Context, userID, productID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.bags[userID]
	if !containsID(ids, productID) {
		ids = append(ids, productID)
		s.bags[userID] = ids
	}
	return copyIDs(ids), nil
}

func (s *MemoryBagStore) Remove(_ context.Context, userID, productID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.bags[userID]
	for i, id := range ids {
		if id == productID {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	s.bags[userID] = ids
	return copyIDs(ids), nil
}

func (s *MemoryBagStore) Replace(_ context.Context, userID string, productIDs []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bags[userID] = copyIDs(productIDs)
	return copyIDs(productIDs), nil
}

// MemoryFavoriteStore keeps per-user favorite id sets in memory.
type MemoryFavoriteStore struct {
	mu        sync.Mutex
	favorites map[string][]string
}

// NewMemoryFavoriteStore constructs an empty in-memory favorite store.
func NewMemoryFavoriteStore() *MemoryFavoriteStore {
	return &MemoryFavoriteStore{favorites: make(map[string][]string)}
}

func (s *MemoryFavoriteStore) Get(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyIDs(s.favorites[userID]), nil
}

func (s *MemoryFavoriteStore) Add(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.favorites[userID]
	if !containsID(ids, productID) {
		s.favorites[userID] = append(ids, productID)
	}
	return nil
}

func (s *MemoryFavoriteStore) Remove(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.favorites[userID]
	for i, id := range ids {
		if id == productID {
			s.favorites[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

// MemoryProductStore is the in-memory catalog.
type MemoryProductStore struct {
	mu       sync.RWMutex
	products map[string]models.Product
	order    []string
}

// NewMemoryProductStore constructs an empty in-memory catalog.
func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{products: make(map[string]models.Product)}
}

func (s *MemoryProductStore) Get(_ context.Context, productID string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.products[productID]; ok {
		return &p, nil
	}
	return nil, fmt.Errorf("product not found: %w", sentinel.ErrNotFound)
}

func (s *MemoryProductStore) List(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.products[id])
	}
	return out, nil
}

func (s *MemoryProductStore) Put(_ context.Context, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.products[p.ID] = p
	return nil
}

func copyIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
