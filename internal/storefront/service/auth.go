package service

import (
	"context"
	"errors"
	"strings"

	"atelier/internal/remote"
	"atelier/internal/sentinel"
	"atelier/internal/storefront/models"
	dErrors "atelier/pkg/domain-errors"
)

// Login authenticates existing credentials. On failure nothing is mutated;
// the error propagates for the initiating form to render. On success the
// session is set and the post-authentication hydration runs: remote bag
// ids are loaded, bag lines are hydrated from product records, and local
// favorites are replaced by the remote set.
func (s *Store) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return dErrors.New(dErrors.CodeValidation, "email and password are required")
	}

	user, err := s.remote.Login(ctx, email, password)
	if err != nil {
		s.countRemoteFailure("login")
		return translateAuthErr(err, "login failed")
	}

	s.setSession(user)
	if s.metrics != nil {
		s.metrics.Logins.Inc()
	}
	s.logInfo(ctx, "user logged in", "user_id", user.ID)

	s.hydrateAfterAuth(ctx)
	return nil
}

// Register creates an account. When the anonymous shopper already has
// local state, it is pushed up before hydration: the bag's unique product
// ids as one bulk replace (the remote bag becomes exactly the local set),
// and favorites one by one, logging and skipping per-item failures.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return dErrors.New(dErrors.CodeValidation, "name, email and password are required")
	}

	user, err := s.remote.Register(ctx, name, email, password)
	if err != nil {
		s.countRemoteFailure("register")
		return translateAuthErr(err, "registration failed")
	}

	s.mu.Lock()
	localBagIDs := s.uniqueBagIDsLocked()
	localFavorites := make([]string, len(s.favorites))
	copy(localFavorites, s.favorites)
	s.mu.Unlock()

	s.setSession(user)
	if s.metrics != nil {
		s.metrics.Registrations.Inc()
	}
	s.logInfo(ctx, "user registered", "user_id", user.ID)

	if len(localBagIDs) > 0 {
		ids, err := s.remote.ReplaceBag(ctx, user.ID, localBagIDs)
		if err != nil {
			s.countRemoteFailure("replace_bag")
			s.logWarn(ctx, "failed to push local bag after registration", err, "user_id", user.ID)
		} else {
			s.mu.Lock()
			s.bagIDs = ids
			s.mu.Unlock()
		}
	}

	for _, productID := range localFavorites {
		if err := s.remote.AddFavorite(ctx, user.ID, productID); err != nil {
			s.countRemoteFailure("add_favorite")
			s.logWarn(ctx, "failed to push local favorite after registration", err,
				"user_id", user.ID,
				"product_id", productID,
			)
		}
	}

	s.hydrateAfterAuth(ctx)
	return nil
}

// Logout tears the session down. A non-empty bag is pushed to the remote
// first, best-effort — failure never blocks logout — then all local state
// and every persisted snapshot is cleared.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	sess := s.session
	localBagIDs := s.uniqueBagIDsLocked()
	s.mu.Unlock()

	if sess.IsAuthenticated() {
		if len(localBagIDs) > 0 {
			if _, err := s.remote.ReplaceBag(ctx, sess.UserID, localBagIDs); err != nil {
				s.countRemoteFailure("replace_bag")
				s.logWarn(ctx, "failed to push bag before logout", err, "user_id", sess.UserID)
			}
		}
		if err := s.remote.Logout(ctx, sess.Token); err != nil {
			s.countRemoteFailure("logout")
			s.logWarn(ctx, "remote logout failed", err, "user_id", sess.UserID)
		}
	}

	s.mu.Lock()
	s.session = models.Session{}
	s.bag = nil
	s.bagIDs = nil
	s.favorites = nil
	s.orders = nil
	s.mu.Unlock()

	s.clearSnapshots()
	s.logInfo(ctx, "user logged out", "user_id", sess.UserID)
}

func (s *Store) setSession(user *remote.AuthResponse) {
	s.mu.Lock()
	s.session = models.Session{
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Avatar:  user.Avatar,
		Phone:   user.Phone,
		Address: user.Address,
		Token:   user.Token,
	}
	s.mu.Unlock()

	s.persistSession()
}

// translateAuthErr maps sentinel errors from the auth calls onto domain
// errors exactly once.
func translateAuthErr(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrUnauthorized):
		return dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "email is already registered")
	case errors.Is(err, sentinel.ErrInvalidInput):
		return dErrors.Wrap(err, dErrors.CodeValidation, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeRemoteUnavailable, msg)
	}
}
