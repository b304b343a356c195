package service

import (
	"context"
	"fmt"

	"go.uber.org/mock/gomock"

	"atelier/internal/sentinel"
	"atelier/internal/snapshot"
	dErrors "atelier/pkg/domain-errors"
)

func (s *StoreSuite) TestToggleFavorite_AnonymousIsLocalAndFinal() {
	ctx := context.Background()

	s.Require().NoError(s.store.ToggleFavorite(ctx, "p1"))
	s.True(s.store.IsFavorite("p1"))

	s.Require().NoError(s.store.ToggleFavorite(ctx, "p1"))
	s.False(s.store.IsFavorite("p1"))
}

func (s *StoreSuite) TestToggleFavorite_ValidatesInput() {
	err := s.store.ToggleFavorite(context.Background(), "  ")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *StoreSuite) TestToggleFavorite_AddThenRefetchReplacesLocal() {
	ctx := context.Background()
	s.authenticate("u-1")

	gomock.InOrder(
		s.remote.EXPECT().AddFavorite(gomock.Any(), "u-1", "p1").Return(nil),
		// Server answer wins, including favorites added from another device.
		s.remote.EXPECT().GetFavorites(gomock.Any(), "u-1").Return([]string{"p1", "p7"}, nil),
	)

	s.Require().NoError(s.store.ToggleFavorite(ctx, "p1"))
	s.Equal([]string{"p1", "p7"}, s.store.Favorites())
}

func (s *StoreSuite) TestToggleFavorite_RemoveMatchesPreToggleState() {
	ctx := context.Background()
	s.authenticate("u-1")
	s.seedFavorites("p1", "p2")

	gomock.InOrder(
		s.remote.EXPECT().RemoveFavorite(gomock.Any(), "u-1", "p1").Return(nil),
		s.remote.EXPECT().GetFavorites(gomock.Any(), "u-1").Return([]string{"p2"}, nil),
	)

	s.Require().NoError(s.store.ToggleFavorite(ctx, "p1"))
	s.Equal([]string{"p2"}, s.store.Favorites())
}

func (s *StoreSuite) TestToggleFavorite_TwiceUnderSuccessRestoresOriginalSet() {
	ctx := context.Background()
	s.authenticate("u-1")
	s.seedFavorites("p9")

	gomock.InOrder(
		s.remote.EXPECT().AddFavorite(gomock.Any(), "u-1", "p1").Return(nil),
		s.remote.EXPECT().GetFavorites(gomock.Any(), "u-1").Return([]string{"p9", "p1"}, nil),
		s.remote.EXPECT().RemoveFavorite(gomock.Any(), "u-1", "p1").Return(nil),
		s.remote.EXPECT().GetFavorites(gomock.Any(), "u-1").Return([]string{"p9"}, nil),
	)

	s.Require().NoError(s.store.ToggleFavorite(ctx, "p1"))
	s.Require().NoError(s.store.ToggleFavorite(ctx, "p1"))

	s.Equal([]string{"p9"}, s.store.Favorites())
}

func (s *StoreSuite) TestToggleFavorite_RemoteFailureRevertsFlip() {
	ctx := context.Background()
	s.authenticate("u-1")
	s.seedFavorites("p9")

	s.remote.EXPECT().AddFavorite(gomock.Any(), "u-1", "p1").
		Return(fmt.Errorf("status 500: %w", sentinel.ErrRemote))

	err := s.store.ToggleFavorite(ctx, "p1")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeRemoteUnavailable))
	s.Equal([]string{"p9"}, s.store.Favorites(), "set must match pre-toggle state")
}

func (s *StoreSuite) TestToggleFavorite_UnknownProductSurfacesNotFound() {
	ctx := context.Background()
	s.authenticate("u-1")

	s.remote.EXPECT().AddFavorite(gomock.Any(), "u-1", "ghost").
		Return(fmt.Errorf("status 404: %w", sentinel.ErrNotFound))

	err := s.store.ToggleFavorite(ctx, "ghost")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.False(s.store.IsFavorite("ghost"))
}

func (s *StoreSuite) TestToggleFavorite_RefetchFailureAlsoReverts() {
	ctx := context.Background()
	s.authenticate("u-1")

	gomock.InOrder(
		s.remote.EXPECT().AddFavorite(gomock.Any(), "u-1", "p1").Return(nil),
		s.remote.EXPECT().GetFavorites(gomock.Any(), "u-1").
			Return(nil, fmt.Errorf("status 500: %w", sentinel.ErrRemote)),
	)

	err := s.store.ToggleFavorite(ctx, "p1")
	s.Require().Error(err)
	s.False(s.store.IsFavorite("p1"))
}

func (s *StoreSuite) TestToggleFavorite_AnonymousPersistsToSnapshot() {
	s.Require().NoError(s.store.ToggleFavorite(context.Background(), "p1"))

	var persisted []string
	ok, err := snapshot.Load(s.snapshots, snapshot.KeyFavorites, &persisted)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal([]string{"p1"}, persisted)
}
