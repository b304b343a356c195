package service

import (
	"context"

	"atelier/internal/snapshot"
	"atelier/internal/storefront/models"
)

// Snapshot mirroring. Each slice is written independently on every change;
// a failed write degrades durability, never the in-memory state, so these
// only log.

func (s *Store) persistSession() {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()

	if err := snapshot.Save(s.snapshots, snapshot.KeySession, sess); err != nil {
		s.logError(context.Background(), "failed to persist session snapshot", err)
	}
}

func (s *Store) persistBag() {
	s.mu.Lock()
	bag := make([]models.BagLine, len(s.bag))
	copy(bag, s.bag)
	s.mu.Unlock()

	if err := snapshot.Save(s.snapshots, snapshot.KeyBag, bag); err != nil {
		s.logError(context.Background(), "failed to persist bag snapshot", err)
	}
}

func (s *Store) persistFavorites() {
	s.mu.Lock()
	favorites := make([]string, len(s.favorites))
	copy(favorites, s.favorites)
	s.mu.Unlock()

	if err := snapshot.Save(s.snapshots, snapshot.KeyFavorites, favorites); err != nil {
		s.logError(context.Background(), "failed to persist favorites snapshot", err)
	}
}

func (s *Store) persistOrders() {
	s.mu.Lock()
	orders := make([]models.Order, len(s.orders))
	copy(orders, s.orders)
	s.mu.Unlock()

	if err := snapshot.Save(s.snapshots, snapshot.KeyOrders, orders); err != nil {
		s.logError(context.Background(), "failed to persist orders snapshot", err)
	}
}

func (s *Store) clearSnapshots() {
	for _, key := range []string{snapshot.KeySession, snapshot.KeyBag, snapshot.KeyFavorites, snapshot.KeyOrders} {
		if err := s.snapshots.Delete(key); err != nil {
			s.logError(context.Background(), "failed to delete snapshot", err, "key", key)
		}
	}
}
