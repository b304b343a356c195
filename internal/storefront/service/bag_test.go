package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/mock/gomock"

	"atelier/internal/sentinel"
	"atelier/internal/snapshot"
	"atelier/internal/storefront/models"
	dErrors "atelier/pkg/domain-errors"
)

// No EXPECT calls on the mock in anonymous tests: gomock fails the test on
// any network attempt, which is exactly the contract.

func (s *StoreSuite) TestAddToBag_AnonymousMergesSameKey() {
	ctx := context.Background()

	s.Require().NoError(s.store.AddToBag(ctx, line("p1", "M", "Black")))
	s.Require().NoError(s.store.AddToBag(ctx, line("p1", "M", "Black")))

	bag := s.store.Bag()
	s.Require().Len(bag, 1)
	s.Equal(2, bag[0].Quantity)
}

func (s *StoreSuite) TestAddToBag_DifferentSizeAppendsLine() {
	ctx := context.Background()

	s.Require().NoError(s.store.AddToBag(ctx, line("p1", "M", "Black")))
	s.Require().NoError(s.store.AddToBag(ctx, line("p1", "L", "Black")))

	s.Len(s.store.Bag(), 2)
}

func (s *StoreSuite) TestAddToBag_ValidatesInput() {
	ctx := context.Background()

	err := s.store.AddToBag(ctx, models.BagLine{Size: "M", Color: "Black"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	err = s.store.AddToBag(ctx, models.BagLine{ProductID: "p1"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	s.Empty(s.store.Bag())
}

func (s *StoreSuite) TestAddToBag_AuthenticatedSuccessReplacesIDSet() {
	ctx := context.Background()
	s.authenticate("u-1")

	s.remote.EXPECT().AddToBag(gomock.Any(), "u-1", "p1").Return([]string{"p1"}, nil)

	s.Require().NoError(s.store.AddToBag(ctx, line("p1", "M", "Black")))

	bag := s.store.Bag()
	s.Require().Len(bag, 1)
	s.Equal(1, bag[0].Quantity)
	s.Equal([]string{"p1"}, s.store.BagIDs())
}

func (s *StoreSuite) TestAddToBag_RemoteFailureRollsBackToPreCallState() {
	ctx := context.Background()
	s.authenticate("u-1")
	s.seedBag(models.BagLine{ProductID: "p1", Size: "M", Color: "Black", Quantity: 1})

	s.remote.EXPECT().AddToBag(gomock.Any(), "u-1", "p1").
		Return(nil, fmt.Errorf("status 500: %w", sentinel.ErrRemote))

	err := s.store.AddToBag(ctx, line("p1", "M", "Black"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeRemoteUnavailable))

	bag := s.store.Bag()
	s.Require().Len(bag, 1)
	s.Equal(1, bag[0].Quantity, "rollback must undo exactly the applied delta")
}

func (s *StoreSuite) TestAddToBag_UnknownProductSurfacesNotFound() {
	ctx := context.Background()
	s.authenticate("u-1")

	s.remote.EXPECT().AddToBag(gomock.Any(), "u-1", "ghost").
		Return(nil, fmt.Errorf("status 404: %w", sentinel.ErrNotFound))

	err := s.store.AddToBag(ctx, line("ghost", "M", "Black"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Empty(s.store.Bag(), "rollback still applies")
}

func (s *StoreSuite) TestAddToBag_RollbackRemovesFreshLine() {
	ctx := context.Background()
	s.authenticate("u-1")

	s.remote.EXPECT().AddToBag(gomock.Any(), "u-1", "p1").
		Return(nil, errors.New("network down"))

	err := s.store.AddToBag(ctx, line("p1", "M", "Black"))
	s.Require().Error(err)
	s.Empty(s.store.Bag())
}

func (s *StoreSuite) TestRemoveFromBag_AnonymousIsLocalOnly() {
	ctx := context.Background()
	s.seedBag(line("p1", "M", "Black"))

	s.store.RemoveFromBag(ctx, "p1", "M", "Black")

	s.Empty(s.store.Bag())
}

func (s *StoreSuite) TestRemoveFromBag_AuthenticatedUpdatesIDSet() {
	ctx := context.Background()
	s.authenticate("u-1")
	s.seedBag(line("p1", "M", "Black"), line("p2", "S", "Red"))

	s.remote.EXPECT().RemoveFromBag(gomock.Any(), "u-1", "p1").Return([]string{"p2"}, nil)

	s.store.RemoveFromBag(ctx, "p1", "M", "Black")

	s.Len(s.store.Bag(), 1)
	s.Equal([]string{"p2"}, s.store.BagIDs())
}

func (s *StoreSuite) TestRemoveFromBag_RemoteFailureKeepsLocalRemoval() {
	ctx := context.Background()
	s.authenticate("u-1")
	s.seedBag(line("p1", "M", "Black"))

	s.remote.EXPECT().RemoveFromBag(gomock.Any(), "u-1", "p1").
		Return(nil, fmt.Errorf("status 500: %w", sentinel.ErrRemote))

	s.store.RemoveFromBag(ctx, "p1", "M", "Black")

	s.Empty(s.store.Bag(), "removal is never rolled back")
}

func (s *StoreSuite) TestRemoveFromBag_SkipsRemoteWhileOtherVariantRemains() {
	ctx := context.Background()
	s.authenticate("u-1")
	s.seedBag(line("p1", "M", "Black"), line("p1", "L", "Black"))

	// No remote expectation: the product id must stay remotely while the
	// L/Black line still references it.
	s.store.RemoveFromBag(ctx, "p1", "M", "Black")

	s.Len(s.store.Bag(), 1)
}

func (s *StoreSuite) TestRemoveFromBag_MissingLineIsNoop() {
	s.store.RemoveFromBag(context.Background(), "ghost", "M", "Black")
	s.Empty(s.store.Bag())
}

func (s *StoreSuite) TestUpdateBagQuantity_SetsDirectlyWithoutRemote() {
	s.authenticate("u-1")
	s.seedBag(line("p1", "M", "Black"))

	s.store.UpdateBagQuantity("p1", "M", "Black", 5)

	bag := s.store.Bag()
	s.Require().Len(bag, 1)
	s.Equal(5, bag[0].Quantity)
}

func (s *StoreSuite) TestUpdateBagQuantity_ZeroRemovesLineWithoutRemote() {
	s.authenticate("u-1")
	s.seedBag(line("p1", "M", "Black"))

	s.store.UpdateBagQuantity("p1", "M", "Black", 0)

	s.Empty(s.store.Bag())
}

func (s *StoreSuite) TestBagChanges_MirrorToSnapshot() {
	ctx := context.Background()

	s.Require().NoError(s.store.AddToBag(ctx, line("p1", "M", "Black")))

	var persisted []models.BagLine
	ok, err := snapshot.Load(s.snapshots, snapshot.KeyBag, &persisted)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Len(persisted, 1)
}
