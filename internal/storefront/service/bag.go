package service

import (
	"context"
	"errors"
	"strings"

	dErrors "atelier/pkg/domain-errors"
	"atelier/pkg/optimistic"

	"atelier/internal/sentinel"
	"atelier/internal/storefront/models"
)

// AddToBag merges the line into the bag immediately, then confirms with
// the remote for authenticated users. Quantity on the input is ignored:
// one call adds exactly one unit, merging into an existing line when the
// (product, size, color) key matches.
//
// On remote failure the local delta is rolled back — quantity decremented
// by one, or the line removed if it would hit zero — and a domain error is
// returned for the caller to display.
func (s *Store) AddToBag(ctx context.Context, line models.BagLine) error {
	line.ProductID = strings.TrimSpace(line.ProductID)
	if line.ProductID == "" {
		return dErrors.New(dErrors.CodeValidation, "product id is required")
	}
	if line.Size == "" || line.Color == "" {
		return dErrors.New(dErrors.CodeValidation, "size and color are required")
	}
	line.Quantity = 1

	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()

	var attempt func(ctx context.Context) error
	if sess.IsAuthenticated() {
		attempt = func(ctx context.Context) error {
			ids, err := s.remote.AddToBag(ctx, sess.UserID, line.ProductID)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.bagIDs = ids
			s.mu.Unlock()
			return nil
		}
	}

	err := optimistic.Do(ctx, optimistic.Update{
		Apply: func() {
			s.mu.Lock()
			s.mergeLineLocked(line)
			s.mu.Unlock()
			s.persistBag()
			if s.metrics != nil {
				s.metrics.BagAdds.Inc()
			}
		},
		Attempt: attempt,
		Revert: func() {
			s.mu.Lock()
			s.decrementLineLocked(line.Key())
			s.mu.Unlock()
			s.persistBag()
			if s.metrics != nil {
				s.metrics.BagAddRollbacks.Inc()
			}
		},
	})
	if err != nil {
		s.countRemoteFailure("add_to_bag")
		s.logWarn(ctx, "remote bag add failed, rolled back local change", err, "product_id", line.ProductID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeNotFound, "product does not exist")
		}
		return dErrors.Wrap(err, dErrors.CodeRemoteUnavailable, "could not add item to bag")
	}
	return nil
}

// RemoveFromBag removes the matching line locally, unconditionally. For
// authenticated users a remote remove follows; its failure is only logged —
// removal is user-intentional and durable enough locally, so it is left
// to the next full resync rather than rolled back.
func (s *Store) RemoveFromBag(ctx context.Context, productID, size, color string) {
	key := models.LineKey{ProductID: productID, Size: size, Color: color}

	s.mu.Lock()
	sess := s.session
	removed := s.removeLineLocked(key)
	stillPresent := s.hasProductLocked(productID)
	s.mu.Unlock()

	if removed {
		s.persistBag()
	}

	// The remote bag only tracks id presence, so the id stays while
	// another size/color line for the same product remains.
	if !sess.IsAuthenticated() || stillPresent {
		return
	}

	ids, err := s.remote.RemoveFromBag(ctx, sess.UserID, productID)
	if err != nil {
		s.countRemoteFailure("remove_from_bag")
		s.logWarn(ctx, "remote bag remove failed, keeping local removal", err, "product_id", productID)
		return
	}
	s.mu.Lock()
	s.bagIDs = ids
	s.mu.Unlock()
}

// UpdateBagQuantity sets the line's quantity directly. Quantity is a
// local-only concept — the remote tracks id presence only — so no remote
// call is ever made here. A quantity of zero or less removes the line,
// also locally only; the id lingers remotely until the next full resync.
func (s *Store) UpdateBagQuantity(productID, size, color string, quantity int) {
	key := models.LineKey{ProductID: productID, Size: size, Color: color}

	s.mu.Lock()
	changed := false
	if quantity <= 0 {
		changed = s.removeLineLocked(key)
	} else {
		for i := range s.bag {
			if s.bag[i].Key() == key {
				s.bag[i].Quantity = quantity
				changed = true
				break
			}
		}
	}
	s.mu.Unlock()

	if changed {
		s.persistBag()
	}
}

// mergeLineLocked applies the merge-or-append rule. Caller holds s.mu.
func (s *Store) mergeLineLocked(line models.BagLine) {
	key := line.Key()
	for i := range s.bag {
		if s.bag[i].Key() == key {
			s.bag[i].Quantity += line.Quantity
			return
		}
	}
	s.bag = append(s.bag, line)
}

// decrementLineLocked undoes exactly one merged add. Caller holds s.mu.
func (s *Store) decrementLineLocked(key models.LineKey) {
	for i := range s.bag {
		if s.bag[i].Key() == key {
			if s.bag[i].Quantity <= 1 {
				s.bag = append(s.bag[:i], s.bag[i+1:]...)
			} else {
				s.bag[i].Quantity--
			}
			return
		}
	}
}

// removeLineLocked drops the line with the given key. Caller holds s.mu.
func (s *Store) removeLineLocked(key models.LineKey) bool {
	for i := range s.bag {
		if s.bag[i].Key() == key {
			s.bag = append(s.bag[:i], s.bag[i+1:]...)
			return true
		}
	}
	return false
}

// hasProductLocked reports whether any line references the product,
// regardless of size/color. Caller holds s.mu.
func (s *Store) hasProductLocked(productID string) bool {
	for i := range s.bag {
		if s.bag[i].ProductID == productID {
			return true
		}
	}
	return false
}

// uniqueBagIDsLocked returns the distinct product ids currently in the
// bag, in first-seen order. Caller holds s.mu.
func (s *Store) uniqueBagIDsLocked() []string {
	seen := make(map[string]struct{}, len(s.bag))
	ids := make([]string, 0, len(s.bag))
	for _, line := range s.bag {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}
