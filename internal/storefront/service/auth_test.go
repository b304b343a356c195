package service

import (
	"context"
	"fmt"

	"go.uber.org/mock/gomock"

	"atelier/internal/sentinel"
	"atelier/internal/storefront/models"
	dErrors "atelier/pkg/domain-errors"
)

func (s *StoreSuite) TestLogin_SuccessHydratesBagAndFavorites() {
	ctx := context.Background()

	gomock.InOrder(
		s.remote.EXPECT().Login(gomock.Any(), "ada@example.com", "secret").Return(authUser("u-1"), nil),
		s.remote.EXPECT().GetBag(gomock.Any(), "u-1").Return([]string{"p1"}, nil),
	)
	s.remote.EXPECT().FetchProduct(gomock.Any(), "p1").
		Return(&models.Product{ID: "p1", Name: "Wool Coat", Price: 240, Image: "/img/p1.jpg"}, nil)
	s.remote.EXPECT().GetFavorites(gomock.Any(), "u-1").Return([]string{"p4"}, nil)

	s.Require().NoError(s.store.Login(ctx, "Ada@Example.com ", "secret"))

	sess := s.store.Session()
	s.True(sess.IsAuthenticated())
	s.Equal("u-1", sess.UserID)

	bag := s.store.Bag()
	s.Require().Len(bag, 1)
	s.Equal("Wool Coat", bag[0].Name)
	s.Equal(1, bag[0].Quantity)
	s.Equal("One Size", bag[0].Size)

	s.Equal([]string{"p4"}, s.store.Favorites())
}

func (s *StoreSuite) TestLogin_PartialHydrationSkipsFailedProducts() {
	ctx := context.Background()

	s.remote.EXPECT().Login(gomock.Any(), "ada@example.com", "secret").Return(authUser("u-1"), nil)
	s.remote.EXPECT().GetBag(gomock.Any(), "u-1").Return([]string{"p1", "p2", "p3"}, nil)
	s.remote.EXPECT().FetchProduct(gomock.Any(), "p1").
		Return(&models.Product{ID: "p1", Name: "Coat", Price: 240}, nil)
	s.remote.EXPECT().FetchProduct(gomock.Any(), "p2").
		Return(nil, fmt.Errorf("status 404: %w", sentinel.ErrNotFound))
	s.remote.EXPECT().FetchProduct(gomock.Any(), "p3").
		Return(&models.Product{ID: "p3", Name: "Scarf", Price: 35}, nil)
	s.remote.EXPECT().GetFavorites(gomock.Any(), "u-1").Return(nil, nil)

	s.Require().NoError(s.store.Login(ctx, "ada@example.com", "secret"))

	bag := s.store.Bag()
	s.Require().Len(bag, 2)
	s.Equal("p1", bag[0].ProductID)
	s.Equal("p3", bag[1].ProductID, "order follows the id set, failed ids are skipped")
}

func (s *StoreSuite) TestLogin_BadCredentialsMutatesNothing() {
	ctx := context.Background()

	s.remote.EXPECT().Login(gomock.Any(), "ada@example.com", "wrong").
		Return(nil, fmt.Errorf("status 401: %w", sentinel.ErrUnauthorized))

	err := s.store.Login(ctx, "ada@example.com", "wrong")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.False(s.store.Session().IsAuthenticated())
	s.Empty(s.snapshots.Contents())
}

func (s *StoreSuite) TestLogin_ValidatesInput() {
	err := s.store.Login(context.Background(), "", "secret")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *StoreSuite) TestLogin_HydrationFailuresAreNonFatal() {
	ctx := context.Background()

	s.remote.EXPECT().Login(gomock.Any(), "ada@example.com", "secret").Return(authUser("u-1"), nil)
	s.remote.EXPECT().GetBag(gomock.Any(), "u-1").
		Return(nil, fmt.Errorf("status 500: %w", sentinel.ErrRemote))
	s.remote.EXPECT().GetFavorites(gomock.Any(), "u-1").
		Return(nil, fmt.Errorf("status 500: %w", sentinel.ErrRemote))

	s.Require().NoError(s.store.Login(ctx, "ada@example.com", "secret"))
	s.True(s.store.Session().IsAuthenticated())
	s.Empty(s.store.Bag())
}

func (s *StoreSuite) TestRegister_PushesLocalBagAndFavorites() {
	ctx := context.Background()
	s.seedBag(line("p1", "M", "Black"), line("p1", "L", "Black"), line("p2", "S", "Red"))
	s.seedFavorites("p8", "p9")

	s.remote.EXPECT().Register(gomock.Any(), "Ada", "ada@example.com", "secret").Return(authUser("u-1"), nil)
	// Unique ids, full replace: the remote bag becomes exactly the local set.
	s.remote.EXPECT().ReplaceBag(gomock.Any(), "u-1", []string{"p1", "p2"}).Return([]string{"p1", "p2"}, nil)
	s.remote.EXPECT().AddFavorite(gomock.Any(), "u-1", "p8").
		Return(fmt.Errorf("status 500: %w", sentinel.ErrRemote))
	// The loop continues past the failed item.
	s.remote.EXPECT().AddFavorite(gomock.Any(), "u-1", "p9").Return(nil)

	s.remote.EXPECT().GetBag(gomock.Any(), "u-1").Return([]string{"p1", "p2"}, nil)
	s.remote.EXPECT().FetchProduct(gomock.Any(), "p1").Return(&models.Product{ID: "p1", Name: "Coat"}, nil)
	s.remote.EXPECT().FetchProduct(gomock.Any(), "p2").Return(&models.Product{ID: "p2", Name: "Hat"}, nil)
	s.remote.EXPECT().GetFavorites(gomock.Any(), "u-1").Return([]string{"p9"}, nil)

	s.Require().NoError(s.store.Register(ctx, " Ada ", "ada@example.com", "secret"))

	s.Equal("u-1", s.store.Session().UserID)
	s.Equal([]string{"p9"}, s.store.Favorites())
}

func (s *StoreSuite) TestRegister_DuplicateEmailIsConflict() {
	s.remote.EXPECT().Register(gomock.Any(), "Ada", "ada@example.com", "secret").
		Return(nil, fmt.Errorf("status 409: %w", sentinel.ErrAlreadyUsed))

	err := s.store.Register(context.Background(), "Ada", "ada@example.com", "secret")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.False(s.store.Session().IsAuthenticated())
}

func (s *StoreSuite) TestLogout_PushesBagThenClearsEverything() {
	ctx := context.Background()
	s.authenticate("u-1")
	s.seedBag(line("p1", "M", "Black"), line("p2", "S", "Red"))
	s.seedFavorites("p9")

	gomock.InOrder(
		s.remote.EXPECT().ReplaceBag(gomock.Any(), "u-1", []string{"p1", "p2"}).Return([]string{"p1", "p2"}, nil),
		s.remote.EXPECT().Logout(gomock.Any(), "tok").Return(nil),
	)

	s.store.Logout(ctx)

	s.False(s.store.Session().IsAuthenticated())
	s.Empty(s.store.Bag())
	s.Empty(s.store.Favorites())
	s.Empty(s.store.Orders())
	s.Empty(s.snapshots.Contents(), "all persisted snapshots are cleared")
}

func (s *StoreSuite) TestLogout_RemoteFailuresDoNotBlock() {
	ctx := context.Background()
	s.authenticate("u-1")
	s.seedBag(line("p1", "M", "Black"))

	s.remote.EXPECT().ReplaceBag(gomock.Any(), "u-1", []string{"p1"}).
		Return(nil, fmt.Errorf("status 500: %w", sentinel.ErrRemote))
	s.remote.EXPECT().Logout(gomock.Any(), "tok").
		Return(fmt.Errorf("status 500: %w", sentinel.ErrRemote))

	s.store.Logout(ctx)

	s.False(s.store.Session().IsAuthenticated())
	s.Empty(s.store.Bag())
}

func (s *StoreSuite) TestLogout_AnonymousSkipsRemoteEntirely() {
	s.seedBag(line("p1", "M", "Black"))

	s.store.Logout(context.Background())

	s.Empty(s.store.Bag())
}
