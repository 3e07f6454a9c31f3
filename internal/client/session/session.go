package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/finmate/internal/client/api"
	"github.com/dmitrijs2005/finmate/internal/client/models"
	"github.com/dmitrijs2005/finmate/internal/client/notify"
	"github.com/dmitrijs2005/finmate/internal/client/storage"
	"github.com/dmitrijs2005/finmate/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Navigator performs a full navigation that leaves no history behind.
type Navigator interface {
	Reset(path string)
}

// Deps are the collaborators of a Session. Notifier, Navigator and Logger
// may be nil.
type Deps struct {
	Client    api.Client
	Repo      storage.Repository
	Notifier  notify.Notifier
	Navigator Navigator
	Logger    logging.Logger
}

type Session struct {
	client api.Client
	repo   storage.Repository
	notify notify.Notifier
	log    logging.Logger

	mu    sync.RWMutex
	nav   Navigator
	user  *models.UserProfile
	token string
}

func New(d Deps) *Session {
	s := &Session{
		client: d.Client,
		repo:   d.Repo,
		notify: d.Notifier,
		nav:    d.Navigator,
		log:    d.Logger,
	}
	if s.notify == nil {
		s.notify = notify.Func(func(context.Context, string) {})
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	s.log = s.log.With("component", "session")
	return s
}

// SetNavigator replaces the navigator used by Logout. The router depends on
// the session for its guard, so it is usually attached after construction.
func (s *Session) SetNavigator(n Navigator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav = n
}

// Hydrate restores user and token from the store without a network call.
// A corrupt user record is dropped; the token is kept.
func (s *Session) Hydrate(ctx context.Context) error {
	token, err := s.repo.Get(ctx, storage.KeyToken)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	rawUser, err := s.repo.Get(ctx, storage.KeyUser)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	var user *models.UserProfile
	if len(rawUser) > 0 {
		var u models.UserProfile
		if err := json.Unmarshal(rawUser, &u); err != nil {
			s.log.Error(ctx, "stored user is corrupt, ignoring", "err", err)
		} else {
			user = &u
		}
	}

	s.mu.Lock()
	s.token = string(token)
	s.user = user
	s.mu.Unlock()

	s.log.Debug(ctx, "session hydrated", "authenticated", token != nil, "user", user != nil)
	return nil
}

// IsAuthenticated reports whether a token is held.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the access token, or "" when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the cached profile.
func (s *Session) User() (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.UserProfile{}, false
	}
	u := *s.user
	u.JoinedProducts = append([]models.JoinedProduct(nil), s.user.JoinedProducts...)
	u.Raw = append(json.RawMessage(nil), s.user.Raw...)
	return u, true
}

// TokenExpiry reports the exp claim when the token is a JWT. The claim is
// informational only: the signature is not checked and an expired token
// still counts as authenticated until the backend rejects it.
func (s *Session) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Login authenticates, persists the token and loads the profile.
//
// A rejection by the backend is returned as *AuthError. A transport failure
// is returned as is and matches api.ErrUnavailable. Both are notified.
func (s *Session) Login(ctx context.Context, creds models.Credentials) error {
	token, err := s.client.Login(ctx, creds)
	if err != nil {
		s.log.Error(ctx, "login failed", "username", creds.Username, "err", err)
		if errors.Is(err, api.ErrUnavailable) || errors.Is(err, context.Canceled) {
			s.notify.Notify(ctx, notify.ServerUnreachable)
			return err
		}
		s.notify.Notify(ctx, notify.LoginFailed)
		return &AuthError{Op: "login", Err: err}
	}

	// the stored token must always match the one in memory
	if err := s.repo.Set(ctx, storage.KeyToken, []byte(token)); err != nil {
		s.log.Error(ctx, "persist token", "err", err)
		s.notify.Notify(ctx, notify.SessionSaveFailed)
		return fmt.Errorf("persist token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.log.Info(ctx, "logged in", "username", creds.Username)
	s.FetchProfile(ctx)
	return nil
}

// FetchProfile replaces the cached user with the server's profile. It is a
// no-op without a token. Failures are logged and otherwise ignored.
func (s *Session) FetchProfile(ctx context.Context) {
	token := s.Token()
	if token == "" {
		return
	}

	u, err := s.client.GetProfile(ctx, token)
	if err != nil {
		s.log.Error(ctx, "profile fetch failed", "err", err)
		return
	}
	s.replaceUser(ctx, u)
}

func (s *Session) replaceUser(ctx context.Context, u *models.UserProfile) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()

	b, err := json.Marshal(u)
	if err != nil {
		s.log.Error(ctx, "encode user", "err", err)
		return
	}
	if err := s.repo.Set(ctx, storage.KeyUser, b); err != nil {
		s.log.Error(ctx, "persist user", "err", err)
	}
}

// Logout invalidates the token on the server when possible, then always
// clears the session and the store and navigates to the root.
func (s *Session) Logout(ctx context.Context) {
	if token := s.Token(); token != "" {
		if err := s.client.Logout(ctx, token); err != nil {
			s.log.Warn(ctx, "server logout failed", "err", err)
		}
	}

	s.mu.Lock()
	s.user = nil
	s.token = ""
	nav := s.nav
	s.mu.Unlock()

	// the caller's context may already be done (timeout, Ctrl-C)
	if err := s.repo.Delete(context.WithoutCancel(ctx), storage.KeyUser, storage.KeyToken); err != nil {
		s.log.Error(ctx, "clear stored session", "err", err)
	}

	s.log.Info(ctx, "logged out")
	if nav != nil {
		nav.Reset("/")
	}
}

// Signup registers an account. It does not log in.
func (s *Session) Signup(ctx context.Context, req models.SignupRequest) error {
	err := s.client.Register(ctx, req)
	if err == nil {
		s.notify.Notify(ctx, notify.SignupSucceeded)
		return nil
	}

	s.log.Error(ctx, "signup failed", "username", req.Username, "err", err)

	var re *api.ResponseError
	if !errors.As(err, &re) {
		s.notify.Notify(ctx, notify.SignupUnreachable)
		return err
	}

	lines := re.FieldMessages()
	if len(lines) == 0 && re.Message != "" {
		lines = []string{re.Message}
	}
	s.notify.Notify(ctx, strings.Join(append([]string{notify.SignupFailed}, lines...), "\n"))
	return &AuthError{Op: "signup", Err: err}
}

// UpdateProfile submits fields and, on success, replaces the user with the
// server's answer. It reports success instead of returning an error.
func (s *Session) UpdateProfile(ctx context.Context, fields models.ProfileUpdate) bool {
	token := s.Token()
	if token == "" {
		s.notify.Notify(ctx, notify.LoginRequired)
		return false
	}

	u, err := s.client.UpdateProfile(ctx, token, fields)
	if err != nil {
		s.log.Error(ctx, "profile update failed", "err", err)
		s.fail(ctx, err, notify.ProfileUpdateFailed)
		return false
	}
	s.replaceUser(ctx, u)
	return true
}

// JoinProduct enrols the user in the product with the given code and
// refreshes the profile.
func (s *Session) JoinProduct(ctx context.Context, productCode string) error {
	token, ok := s.requireUser(ctx)
	if !ok {
		return ErrNotAuthenticated
	}

	msg, err := s.client.JoinProduct(ctx, token, productCode)
	if err != nil {
		s.log.Error(ctx, "join failed", "product", productCode, "err", err)
		s.fail(ctx, err, notify.JoinFailed)
		return err
	}

	s.FetchProfile(ctx)
	if msg == "" {
		msg = notify.JoinSucceeded
	}
	s.notify.Notify(ctx, msg)
	return nil
}

// UpdateJoinedProduct changes term or amount of the relation joinedID.
func (s *Session) UpdateJoinedProduct(ctx context.Context, joinedID models.ID, upd models.JoinedProductUpdate) error {
	token, ok := s.requireUser(ctx)
	if !ok {
		return ErrNotAuthenticated
	}

	if err := s.client.UpdateJoinedProduct(ctx, token, joinedID, upd); err != nil {
		s.log.Error(ctx, "joined product update failed", "joined_id", joinedID, "err", err)
		s.fail(ctx, err, notify.JoinedUpdateFailed)
		return err
	}

	s.FetchProfile(ctx)
	s.notify.Notify(ctx, notify.JoinedUpdated)
	return nil
}

// TerminateProduct removes the relation joinedID.
func (s *Session) TerminateProduct(ctx context.Context, joinedID models.ID) error {
	token, ok := s.requireUser(ctx)
	if !ok {
		return ErrNotAuthenticated
	}

	if err := s.client.DeleteJoinedProduct(ctx, token, joinedID); err != nil {
		s.log.Error(ctx, "terminate failed", "joined_id", joinedID, "err", err)
		s.fail(ctx, err, notify.TerminateFailed)
		return err
	}

	s.FetchProfile(ctx)
	s.notify.Notify(ctx, notify.Terminated)
	return nil
}

func (s *Session) requireUser(ctx context.Context) (string, bool) {
	s.mu.RLock()
	token, hasUser := s.token, s.user != nil
	s.mu.RUnlock()

	if token == "" || !hasUser {
		s.notify.Notify(ctx, notify.LoginRequired)
		return "", false
	}
	return token, true
}

// fail notifies the server's message when the backend answered, fallback
// when it answered without one, and the unreachable message otherwise.
func (s *Session) fail(ctx context.Context, err error, fallback string) {
	var re *api.ResponseError
	switch {
	case !errors.As(err, &re):
		s.notify.Notify(ctx, notify.ServerUnreachable)
	case re.Message != "":
		s.notify.Notify(ctx, re.Message)
	default:
		s.notify.Notify(ctx, fallback)
	}
}
