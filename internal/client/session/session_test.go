package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/finmate/internal/client/api"
	"github.com/dmitrijs2005/finmate/internal/client/api/apitest"
	"github.com/dmitrijs2005/finmate/internal/client/models"
	"github.com/dmitrijs2005/finmate/internal/client/notify"
	"github.com/dmitrijs2005/finmate/internal/client/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNav struct{ resets []string }

func (f *fakeNav) Reset(path string) { f.resets = append(f.resets, path) }

type fixture struct {
	backend *apitest.Backend
	repo    *storage.MemoryRepository
	notes   *notify.Queue
	nav     *fakeNav
	s       *Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		backend: apitest.New(t),
		repo:    storage.NewMemoryRepository(),
		notes:   &notify.Queue{},
		nav:     &fakeNav{},
	}
	f.backend.AddAccount(apitest.Account{
		Username: "u1", Password: "p1", Token: "abc123",
		Age: models.Int64(34), Salary: models.Int64(45000000), Assets: models.Int64(12000000),
	})
	f.backend.SetProducts("deposit", apitest.Product{
		Code: "WR0001B", Name: "WON플러스예금", Company: "우리은행", Rate: decimal.RequireFromString("3.5"), Term: 12,
	})
	f.s = New(Deps{
		Client:    f.backend.Client(t),
		Repo:      f.repo,
		Notifier:  f.notes,
		Navigator: f.nav,
	})
	return f
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	require.NoError(t, f.s.Login(context.Background(), models.Credentials{Username: "u1", Password: "p1"}))
	f.notes.Drain()
	f.backend.ResetRequests()
}

func stored(t *testing.T, repo storage.Repository, key string) []byte {
	t.Helper()
	v, err := repo.Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

func TestLogin_StoresTokenAndProfile(t *testing.T) {
	f := newFixture(t)

	err := f.s.Login(context.Background(), models.Credentials{Username: "u1", Password: "p1"})
	require.NoError(t, err)

	assert.True(t, f.s.IsAuthenticated())
	assert.Equal(t, "abc123", f.s.Token())
	assert.Equal(t, "abc123", string(stored(t, f.repo, storage.KeyToken)))

	u, ok := f.s.User()
	require.True(t, ok)
	want := struct {
		Age, Salary, Assets int64
		Joined              int
	}{34, 45000000, 12000000, 0}
	got := struct {
		Age, Salary, Assets int64
		Joined              int
	}{*u.Age, *u.Salary, *u.Assets, len(u.JoinedProducts)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}
	assert.NotNil(t, u.JoinedProducts)

	var persisted models.UserProfile
	require.NoError(t, json.Unmarshal(stored(t, f.repo, storage.KeyUser), &persisted))
	assert.Equal(t, "u1", persisted.Username)

	prof, ok := f.backend.Last(http.MethodGet, "/api/v1/profile/")
	require.True(t, ok)
	assert.Equal(t, "Token abc123", prof.Auth)
	assert.Empty(t, f.notes.Drain())
}

func TestLogin_TokenFieldVariant(t *testing.T) {
	f := newFixture(t)
	f.backend.SetTokenField("token")

	require.NoError(t, f.s.Login(context.Background(), models.Credentials{Username: "u1", Password: "p1"}))
	assert.Equal(t, "abc123", f.s.Token())
}

func TestLogin_RejectedIsAuthError(t *testing.T) {
	f := newFixture(t)

	err := f.s.Login(context.Background(), models.Credentials{Username: "u1", Password: "wrong"})

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "login", ae.Op)
	assert.ErrorIs(t, err, api.ErrBadRequest)
	assert.False(t, f.s.IsAuthenticated())
	assert.Nil(t, stored(t, f.repo, storage.KeyToken))
	assert.Equal(t, []string{notify.LoginFailed}, f.notes.Drain())
	assert.Zero(t, f.backend.Count(http.MethodGet, "/api/v1/profile/"))
}

func TestLogin_Unreachable(t *testing.T) {
	f := newFixture(t)
	f.backend.Close()

	err := f.s.Login(context.Background(), models.Credentials{Username: "u1", Password: "p1"})

	require.ErrorIs(t, err, api.ErrUnavailable)
	var ae *AuthError
	assert.False(t, errors.As(err, &ae))
	assert.Equal(t, []string{notify.ServerUnreachable}, f.notes.Drain())
}

type failingSetRepo struct {
	storage.Repository
}

func (failingSetRepo) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestLogin_PersistFailureKeepsSessionAnonymous(t *testing.T) {
	f := newFixture(t)
	repo := failingSetRepo{Repository: f.repo}
	s := New(Deps{Client: f.backend.Client(t), Repo: repo, Notifier: f.notes})

	err := s.Login(context.Background(), models.Credentials{Username: "u1", Password: "p1"})

	require.Error(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, stored(t, f.repo, storage.KeyToken))
	assert.Equal(t, []string{notify.SessionSaveFailed}, f.notes.Drain())
	assert.Zero(t, f.backend.Count(http.MethodGet, "/api/v1/profile/"))
}

func TestFetchProfile_NoTokenNoRequest(t *testing.T) {
	f := newFixture(t)

	f.s.FetchProfile(context.Background())

	assert.Empty(t, f.backend.Requests())
	_, ok := f.s.User()
	assert.False(t, ok)
}

func TestFetchProfile_ErrorKeepsUser(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	before, _ := f.s.User()

	f.backend.Fail(http.MethodGet, "/api/v1/profile/", http.StatusInternalServerError, `{}`)
	f.s.FetchProfile(context.Background())

	after, ok := f.s.User()
	require.True(t, ok)
	assert.Equal(t, before.Username, after.Username)
	assert.Empty(t, f.notes.Drain(), "profile errors are not user-facing")
}

func TestLogout_ClearsEverything(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"server ok", func(*fixture) {}},
		{"server error", func(f *fixture) {
			f.backend.Fail(http.MethodPost, "/dj-rest-auth/logout/", http.StatusInternalServerError, `{}`)
		}},
		{"server down", func(f *fixture) { f.backend.Close() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.login(t)
			tt.setup(f)

			f.s.Logout(context.Background())

			assert.False(t, f.s.IsAuthenticated())
			_, ok := f.s.User()
			assert.False(t, ok)
			assert.Nil(t, stored(t, f.repo, storage.KeyToken))
			assert.Nil(t, stored(t, f.repo, storage.KeyUser))
			assert.Equal(t, []string{"/"}, f.nav.resets)
		})
	}
}

func TestLogout_CanceledContextStillClears(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.s.Logout(ctx)

	assert.False(t, f.s.IsAuthenticated())
	assert.Nil(t, stored(t, f.repo, storage.KeyToken))
}

func TestLogout_AnonymousSkipsServer(t *testing.T) {
	f := newFixture(t)

	f.s.Logout(context.Background())

	assert.Zero(t, f.backend.Count(http.MethodPost, "/dj-rest-auth/logout/"))
	assert.Equal(t, []string{"/"}, f.nav.resets)
}

func TestHydrate_RestoresWithoutNetwork(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	restarted := New(Deps{Client: f.backend.Client(t), Repo: f.repo})
	require.NoError(t, restarted.Hydrate(context.Background()))

	assert.True(t, restarted.IsAuthenticated())
	u, ok := restarted.User()
	require.True(t, ok)
	assert.Equal(t, int64(34), *u.Age)
	assert.Empty(t, f.backend.Requests())
}

func TestHydrate_CorruptUserIsDropped(t *testing.T) {
	repo := storage.NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, storage.KeyToken, []byte("abc123")))
	require.NoError(t, repo.Set(ctx, storage.KeyUser, []byte("{not json")))

	s := New(Deps{Repo: repo})
	require.NoError(t, s.Hydrate(ctx))

	assert.True(t, s.IsAuthenticated())
	_, ok := s.User()
	assert.False(t, ok)
}

func TestSignup_DoesNotLogIn(t *testing.T) {
	f := newFixture(t)

	err := f.s.Signup(context.Background(), models.SignupRequest{
		Username: "newbie", Email: "n@example.org", Password1: "longenough1", Password2: "longenough1",
	})
	require.NoError(t, err)

	assert.False(t, f.s.IsAuthenticated())
	assert.Equal(t, []string{notify.SignupSucceeded}, f.notes.Drain())
	_, ok := f.backend.Account("newbie")
	assert.True(t, ok)
}

func TestSignup_FieldErrorsConcatenated(t *testing.T) {
	f := newFixture(t)

	err := f.s.Signup(context.Background(), models.SignupRequest{
		Username: "u1", Password1: "short", Password2: "other",
	})

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "signup", ae.Op)

	notes := f.notes.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.SignupFailed+"\n"+
		"non_field_errors: The two password fields didn't match.\n"+
		"password1: This password is too short. It must contain at least 8 characters.\n"+
		"username: A user with that username already exists.", notes[0])
}

func TestSignup_Unreachable(t *testing.T) {
	f := newFixture(t)
	f.backend.Close()

	err := f.s.Signup(context.Background(), models.SignupRequest{Username: "x"})
	require.ErrorIs(t, err, api.ErrUnavailable)
	assert.Equal(t, []string{notify.SignupUnreachable}, f.notes.Drain())
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	ok := f.s.UpdateProfile(context.Background(), models.ProfileUpdate{Salary: models.Int64(50000000)})
	require.True(t, ok)

	u, _ := f.s.User()
	assert.Equal(t, int64(50000000), *u.Salary)
	assert.Equal(t, int64(34), *u.Age)

	req, found := f.backend.Last(http.MethodPut, "/api/v1/profile/update/")
	require.True(t, found)
	assert.JSONEq(t, `{"salary":50000000}`, string(req.Body))

	var persisted models.UserProfile
	require.NoError(t, json.Unmarshal(stored(t, f.repo, storage.KeyUser), &persisted))
	assert.Equal(t, int64(50000000), *persisted.Salary)
}

func TestUpdateProfile_FailureReturnsFalse(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	ok := f.s.UpdateProfile(context.Background(), models.ProfileUpdate{Age: models.Int64(-1)})
	assert.False(t, ok)
	assert.Equal(t, []string{"음수는 입력할 수 없습니다."}, f.notes.Drain())

	u, _ := f.s.User()
	assert.Equal(t, int64(34), *u.Age)
}

func TestUpdateProfile_Anonymous(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.s.UpdateProfile(context.Background(), models.ProfileUpdate{Age: models.Int64(1)}))
	assert.Empty(t, f.backend.Requests())
}

func TestJoinProduct_RefreshesPortfolio(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	require.NoError(t, f.s.JoinProduct(context.Background(), "WR0001B"))

	u, _ := f.s.User()
	assert.True(t, u.HasJoined("WR0001B"))
	require.Len(t, u.JoinedProducts, 1)
	require.NotNil(t, u.JoinedProducts[0].MaturityAmount)
	assert.Equal(t, "1035000", u.JoinedProducts[0].MaturityAmount.String())
	assert.Equal(t, []string{"WON플러스예금 가입이 완료되었습니다."}, f.notes.Drain())
	assert.Equal(t, 1, f.backend.Count(http.MethodGet, "/api/v1/profile/"))
}

func TestJoinProduct_ServerMessageOnFailure(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	require.NoError(t, f.s.JoinProduct(context.Background(), "WR0001B"))
	f.notes.Drain()

	err := f.s.JoinProduct(context.Background(), "WR0001B")
	require.ErrorIs(t, err, api.ErrBadRequest)
	assert.Equal(t, []string{"이미 가입한 상품입니다."}, f.notes.Drain())
}

func TestJoinProduct_FallbackWithoutMessage(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.Fail(http.MethodPost, "/api/v1/products/deposit/WR0001B/join/", http.StatusInternalServerError, `{}`)

	require.Error(t, f.s.JoinProduct(context.Background(), "WR0001B"))
	assert.Equal(t, []string{notify.JoinFailed}, f.notes.Drain())
}

func TestJoinProduct_Unreachable(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.Close()

	require.ErrorIs(t, f.s.JoinProduct(context.Background(), "WR0001B"), api.ErrUnavailable)
	assert.Equal(t, []string{notify.ServerUnreachable}, f.notes.Drain())
}

func TestJoinProduct_AnonymousShortCircuits(t *testing.T) {
	f := newFixture(t)

	err := f.s.JoinProduct(context.Background(), "WR0001B")
	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, []string{notify.LoginRequired}, f.notes.Drain())
	assert.Empty(t, f.backend.Requests())
}

func TestJoinProduct_NoDeduplication(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	_ = f.s.JoinProduct(context.Background(), "WR0001B")
	_ = f.s.JoinProduct(context.Background(), "WR0001B")

	assert.Equal(t, 2, f.backend.Count(http.MethodPost, "/api/v1/products/deposit/WR0001B/join/"))
}

func TestUpdateJoinedProduct(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	require.NoError(t, f.s.JoinProduct(context.Background(), "WR0001B"))
	u, _ := f.s.User()
	joinedID := u.JoinedProducts[0].ID
	f.notes.Drain()

	term := 24
	amount := decimal.NewFromInt(2000000)
	require.NoError(t, f.s.UpdateJoinedProduct(context.Background(), joinedID, models.JoinedProductUpdate{Term: &term, Amount: &amount}))

	u, _ = f.s.User()
	jp, ok := u.FindJoined(joinedID)
	require.True(t, ok)
	assert.Equal(t, models.Term(24), jp.Term)
	assert.Equal(t, "2140000", jp.MaturityAmount.String())
	assert.Equal(t, []string{notify.JoinedUpdated}, f.notes.Drain())
}

func TestTerminateProduct(t *testing.T) {
	f := newFixture(t)
	acc, _ := f.backend.Account("u1")
	f.backend.AddAccount(apitest.Account{
		ID: acc.ID, Username: "u1", Password: "p1", Token: "abc123",
		Joined: []apitest.Joined{{ID: 42, Code: "WR0001B", Rate: decimal.NewFromInt(3), Term: 12, Amount: decimal.NewFromInt(100)}},
	})
	f.login(t)
	u, _ := f.s.User()
	_, ok := u.FindJoined("42")
	require.True(t, ok)

	require.NoError(t, f.s.TerminateProduct(context.Background(), "42"))
	f.s.FetchProfile(context.Background())

	u, _ = f.s.User()
	_, ok = u.FindJoined("42")
	assert.False(t, ok)
	assert.Equal(t, 1, f.backend.Count(http.MethodDelete, "/api/v1/products/joined/42/"))
}

func TestTerminateProduct_NotFound(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	err := f.s.TerminateProduct(context.Background(), "999")
	require.ErrorIs(t, err, api.ErrNotFound)
	assert.Equal(t, []string{"Not found."}, f.notes.Drain())
}

func jwtWithExp(exp time.Time) string {
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	claims, _ := json.Marshal(map[string]any{"exp": exp.Unix()})
	return header + "." + enc.EncodeToString(claims) + "." + enc.EncodeToString([]byte("sig"))
}

func TestTokenExpiry(t *testing.T) {
	repo := storage.NewMemoryRepository()
	ctx := context.Background()
	s := New(Deps{Repo: repo})

	_, ok := s.TokenExpiry()
	assert.False(t, ok, "anonymous")

	require.NoError(t, repo.Set(ctx, storage.KeyToken, []byte("abc123")))
	require.NoError(t, s.Hydrate(ctx))
	_, ok = s.TokenExpiry()
	assert.False(t, ok, "opaque token")

	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, repo.Set(ctx, storage.KeyToken, []byte(jwtWithExp(exp))))
	require.NoError(t, s.Hydrate(ctx))
	got, ok := s.TokenExpiry()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))
	assert.True(t, s.IsAuthenticated(), "an expired jwt still counts until the backend says otherwise")
}
