package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/mock/gomock"

	"atelier/internal/sentinel"
	"atelier/internal/snapshot"
	"atelier/internal/storefront/models"
)

func (s *StoreSuite) TestHydrate_RestoresAllSlicesFromSnapshots() {
	s.Require().NoError(snapshot.Save(s.snapshots, snapshot.KeySession, models.Session{UserID: "u-1", Name: "Ada", Token: "tok"}))
	s.Require().NoError(snapshot.Save(s.snapshots, snapshot.KeyBag, []models.BagLine{line("p1", "M", "Black")}))
	s.Require().NoError(snapshot.Save(s.snapshots, snapshot.KeyFavorites, []string{"p4"}))
	s.Require().NoError(snapshot.Save(s.snapshots, snapshot.KeyOrders, []models.Order{
		{OrderID: "o-1", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Status: models.OrderDelivered, Total: 240},
	}))

	// Background refresh keeps the id set current without line hydration.
	s.remote.EXPECT().GetBag(gomock.Any(), "u-1").Return([]string{"p1"}, nil)

	s.store.Hydrate(context.Background())
	s.store.WaitBackground()

	s.Equal("u-1", s.store.Session().UserID)
	s.Len(s.store.Bag(), 1)
	s.Equal([]string{"p4"}, s.store.Favorites())
	s.Len(s.store.Orders(), 1)
	s.Equal([]string{"p1"}, s.store.BagIDs())
}

func (s *StoreSuite) TestHydrate_AnonymousDoesNotTouchRemote() {
	s.store.Hydrate(context.Background())
	s.store.WaitBackground()

	s.False(s.store.Session().IsAuthenticated())
	s.Empty(s.store.Bag())
}

func (s *StoreSuite) TestHydrate_BackgroundFailureLeavesIDSetEmpty() {
	s.Require().NoError(snapshot.Save(s.snapshots, snapshot.KeySession, models.Session{UserID: "u-1"}))

	s.remote.EXPECT().GetBag(gomock.Any(), "u-1").
		Return(nil, fmt.Errorf("status 500: %w", sentinel.ErrRemote))

	s.store.Hydrate(context.Background())
	s.store.WaitBackground()

	s.Empty(s.store.BagIDs())
	s.True(s.store.Session().IsAuthenticated(), "session survives a failed refresh")
}

func (s *StoreSuite) TestHydrate_CorruptSliceIsSkippedNotFatal() {
	s.Require().NoError(s.snapshots.Put(snapshot.KeyBag, []byte("{not json")))
	s.Require().NoError(snapshot.Save(s.snapshots, snapshot.KeyFavorites, []string{"p4"}))

	s.store.Hydrate(context.Background())

	s.Empty(s.store.Bag())
	s.Equal([]string{"p4"}, s.store.Favorites())
}

func (s *StoreSuite) TestReplaceOrders_PersistsAndCopies() {
	orders := []models.Order{
		{OrderID: "o-1", Status: models.OrderProcessing, Total: 100},
		{OrderID: "o-2", Status: models.OrderShipped, Total: 55},
	}

	s.store.ReplaceOrders(orders)

	got := s.store.Orders()
	s.Require().Len(got, 2)

	// Mutating the caller's slice must not leak into the store.
	orders[0].OrderID = "mutated"
	s.Equal("o-1", s.store.Orders()[0].OrderID)

	var persisted []models.Order
	ok, err := snapshot.Load(s.snapshots, snapshot.KeyOrders, &persisted)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Len(persisted, 2)
}
