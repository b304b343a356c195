package service

import (
	"context"
	"errors"
	"strings"

	dErrors "atelier/pkg/domain-errors"
	"atelier/pkg/optimistic"

	"atelier/internal/sentinel"
)

// ToggleFavorite flips local membership immediately. For authenticated
// users it then issues the remote add or remove matching the pre-toggle
// state and refetches the full remote set, replacing local state with the
// server's answer — self-healing against concurrent changes from other
// devices. Any remote error inverts the flip and surfaces a domain error.
//
// Anonymous toggles are final and persist only to the local snapshot.
func (s *Store) ToggleFavorite(ctx context.Context, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return dErrors.New(dErrors.CodeValidation, "product id is required")
	}

	s.mu.Lock()
	sess := s.session
	wasFavorite := s.favoriteIndexLocked(productID) >= 0
	s.mu.Unlock()

	var attempt func(ctx context.Context) error
	if sess.IsAuthenticated() {
		attempt = func(ctx context.Context) error {
			var err error
			if wasFavorite {
				err = s.remote.RemoveFavorite(ctx, sess.UserID, productID)
			} else {
				err = s.remote.AddFavorite(ctx, sess.UserID, productID)
			}
			if err != nil {
				return err
			}

			ids, err := s.remote.GetFavorites(ctx, sess.UserID)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.favorites = ids
			s.mu.Unlock()
			s.persistFavorites()
			return nil
		}
	}

	err := optimistic.Do(ctx, optimistic.Update{
		Apply: func() {
			s.flipFavorite(productID)
			if s.metrics != nil {
				s.metrics.FavoriteToggles.Inc()
			}
		},
		Attempt: attempt,
		Revert: func() {
			s.flipFavorite(productID)
			if s.metrics != nil {
				s.metrics.FavoriteRollbacks.Inc()
			}
		},
	})
	if err != nil {
		s.countRemoteFailure("toggle_favorite")
		s.logWarn(ctx, "remote favorite toggle failed, reverted local change", err, "product_id", productID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeNotFound, "product does not exist")
		}
		return dErrors.Wrap(err, dErrors.CodeRemoteUnavailable, "could not update favorites")
	}
	return nil
}

// flipFavorite inverts membership and mirrors the result to the snapshot.
func (s *Store) flipFavorite(productID string) {
	s.mu.Lock()
	if i := s.favoriteIndexLocked(productID); i >= 0 {
		s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
	} else {
		s.favorites = append(s.favorites, productID)
	}
	s.mu.Unlock()

	s.persistFavorites()
}
