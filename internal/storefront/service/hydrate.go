package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"atelier/internal/snapshot"
	"atelier/internal/storefront/models"
)

// Hydrate restores all state slices from persisted snapshots. It runs once
// at process start, before any UI reads. When the restored session is
// authenticated it also kicks off a background refresh of the remote bag
// id set — id presence only, no line hydration — so initial paint is never
// blocked on the network. WaitBackground observes its completion.
func (s *Store) Hydrate(ctx context.Context) {
	var sess models.Session
	if ok, err := snapshot.Load(s.snapshots, snapshot.KeySession, &sess); err != nil {
		s.logWarn(ctx, "failed to restore session snapshot", err)
	} else if ok {
		s.mu.Lock()
		s.session = sess
		s.mu.Unlock()
	}

	var bag []models.BagLine
	if ok, err := snapshot.Load(s.snapshots, snapshot.KeyBag, &bag); err != nil {
		s.logWarn(ctx, "failed to restore bag snapshot", err)
	} else if ok {
		s.mu.Lock()
		s.bag = bag
		s.mu.Unlock()
	}

	var favorites []string
	if ok, err := snapshot.Load(s.snapshots, snapshot.KeyFavorites, &favorites); err != nil {
		s.logWarn(ctx, "failed to restore favorites snapshot", err)
	} else if ok {
		s.mu.Lock()
		s.favorites = favorites
		s.mu.Unlock()
	}

	var orders []models.Order
	if ok, err := snapshot.Load(s.snapshots, snapshot.KeyOrders, &orders); err != nil {
		s.logWarn(ctx, "failed to restore orders snapshot", err)
	} else if ok {
		s.mu.Lock()
		s.orders = orders
		s.mu.Unlock()
	}

	if !sess.IsAuthenticated() {
		return
	}

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		ids, err := s.remote.GetBag(ctx, sess.UserID)
		if err != nil {
			s.countRemoteFailure("get_bag")
			s.logWarn(ctx, "background bag id refresh failed", err, "user_id", sess.UserID)
			return
		}
		s.mu.Lock()
		s.bagIDs = ids
		s.mu.Unlock()
	}()
}

// hydrateAfterAuth runs the post-authentication load: remote bag ids, bag
// line hydration from product records, then favorites replacement. Every
// failure here is logged and leaves that slice empty or partial; nothing
// blocks the rest of hydration.
func (s *Store) hydrateAfterAuth(ctx context.Context) {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()

	ids, err := s.remote.GetBag(ctx, sess.UserID)
	if err != nil {
		s.countRemoteFailure("get_bag")
		s.logWarn(ctx, "failed to load remote bag", err, "user_id", sess.UserID)
	} else {
		lines := s.hydrateBagLines(ctx, ids)
		s.mu.Lock()
		s.bagIDs = ids
		s.bag = lines
		s.mu.Unlock()
		s.persistBag()
	}

	favorites, err := s.remote.GetFavorites(ctx, sess.UserID)
	if err != nil {
		s.countRemoteFailure("get_favorites")
		s.logWarn(ctx, "failed to load remote favorites", err, "user_id", sess.UserID)
		return
	}
	s.mu.Lock()
	s.favorites = favorites
	s.mu.Unlock()
	s.persistFavorites()
}

// hydrateBagLines fans out one product fetch per bag id, bounded by the
// configured concurrency, and collects partial results: a failed fetch is
// logged and that line skipped, never fatal. Output preserves id order so
// hydration is deterministic regardless of fetch interleaving.
func (s *Store) hydrateBagLines(ctx context.Context, ids []string) []models.BagLine {
	products := make([]*models.Product, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.hydrateConcurrency)
	for i, productID := range ids {
		i, productID := i, productID
		g.Go(func() error {
			product, err := s.remote.FetchProduct(ctx, productID)
			if err != nil {
				s.countRemoteFailure("fetch_product")
				if s.metrics != nil {
					s.metrics.HydrationFailures.Inc()
				}
				s.logWarn(ctx, "failed to hydrate bag line, skipping", err, "product_id", productID)
				return nil
			}
			products[i] = product
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, partial failure is the contract

	lines := make([]models.BagLine, 0, len(ids))
	for _, product := range products {
		if product == nil {
			continue
		}
		lines = append(lines, models.BagLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Image:     product.Image,
			Size:      "One Size",
			Color:     "Default",
			Quantity:  1,
		})
		if s.metrics != nil {
			s.metrics.HydratedLines.Inc()
		}
	}
	return lines
}
