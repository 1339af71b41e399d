package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-gateway/internal/domain"
)

type memTokenStore struct {
	access  map[string]string
	refresh map[string]string
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{access: map[string]string{}, refresh: map[string]string{}}
}

func (s *memTokenStore) Tokens(_ context.Context, sid string) (string, string, error) {
	return s.access[sid], s.refresh[sid], nil
}

func (s *memTokenStore) SaveAccess(_ context.Context, sid, token string) error {
	s.access[sid] = token
	return nil
}

func (s *memTokenStore) SaveRefresh(_ context.Context, sid, token string) error {
	s.refresh[sid] = token
	return nil
}

func (s *memTokenStore) Clear(_ context.Context, sid string) error {
	delete(s.access, sid)
	delete(s.refresh, sid)
	return nil
}

type fakeAuth struct {
	verifyCalls  int
	refreshCalls int
	profileCalls int

	validAccess string
	refreshPair domain.TokenPair
	refreshErr  error
	profile     *domain.Profile
	profileErr  error
	loginPair   domain.TokenPair
	loginErr    error
}

func (f *fakeAuth) Verify(_ context.Context, accessToken string) error {
	f.verifyCalls++
	if accessToken == f.validAccess {
		return nil
	}
	return errors.New("token rejected")
}

func (f *fakeAuth) Refresh(_ context.Context, _ string) (domain.TokenPair, error) {
	f.refreshCalls++
	if f.refreshErr != nil {
		return domain.TokenPair{}, f.refreshErr
	}
	return f.refreshPair, nil
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (domain.TokenPair, error) {
	if f.loginErr != nil {
		return domain.TokenPair{}, f.loginErr
	}
	return f.loginPair, nil
}

func (f *fakeAuth) Register(_ context.Context, _, _ string) (domain.TokenPair, error) {
	return f.loginPair, f.loginErr
}

func (f *fakeAuth) Profile(_ context.Context, _ string) (*domain.Profile, error) {
	f.profileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func (f *fakeAuth) UpdateProfile(_ context.Context, _ string, patch domain.Profile) (*domain.Profile, error) {
	return &patch, nil
}

func newTestManager(store TokenStore, auth *fakeAuth) *Manager {
	return NewManager(store, auth, zap.NewNop())
}

func TestCheckAuthWithoutTokensMakesNoNetworkCalls(t *testing.T) {
	auth := &fakeAuth{}
	manager := newTestManager(newMemTokenStore(), auth)

	sess := manager.CheckAuth(context.Background(), "sid-1")

	assert.False(t, sess.Authenticated)
	assert.Nil(t, sess.Profile)
	assert.Zero(t, auth.verifyCalls)
	assert.Zero(t, auth.refreshCalls)
	assert.Zero(t, auth.profileCalls)
}

func TestCheckAuthWithValidAccessToken(t *testing.T) {
	store := newMemTokenStore()
	require.NoError(t, store.SaveAccess(context.Background(), "sid-1", "acc-1"))

	auth := &fakeAuth{validAccess: "acc-1", profile: &domain.Profile{Email: "a@b.c"}}
	manager := newTestManager(store, auth)

	sess := manager.CheckAuth(context.Background(), "sid-1")

	assert.True(t, sess.Authenticated)
	require.NotNil(t, sess.Profile)
	assert.Equal(t, "a@b.c", sess.Profile.Email)
	assert.Equal(t, 1, auth.verifyCalls)
	assert.Zero(t, auth.refreshCalls)
	assert.Equal(t, sess.Profile, manager.CachedProfile("sid-1"))
}

func TestEnsureTokenRefreshesExactlyOnce(t *testing.T) {
	ctx := context.Background()
	store := newMemTokenStore()
	require.NoError(t, store.SaveAccess(ctx, "sid-1", "stale"))
	require.NoError(t, store.SaveRefresh(ctx, "sid-1", "ref-1"))

	auth := &fakeAuth{
		validAccess: "acc-fresh",
		refreshPair: domain.TokenPair{AccessToken: "acc-fresh", RefreshToken: "ref-2"},
	}
	manager := newTestManager(store, auth)

	token, err := manager.ValidAccessToken(ctx, "sid-1")
	require.NoError(t, err)

	assert.Equal(t, "acc-fresh", token)
	assert.Equal(t, 1, auth.verifyCalls)
	assert.Equal(t, 1, auth.refreshCalls)
	assert.Equal(t, "acc-fresh", store.access["sid-1"])
	assert.Equal(t, "ref-2", store.refresh["sid-1"])
}

func TestEnsureTokenKeepsRefreshTokenWhenNotRotated(t *testing.T) {
	ctx := context.Background()
	store := newMemTokenStore()
	require.NoError(t, store.SaveAccess(ctx, "sid-1", "stale"))
	require.NoError(t, store.SaveRefresh(ctx, "sid-1", "ref-1"))

	auth := &fakeAuth{
		validAccess: "acc-fresh",
		refreshPair: domain.TokenPair{AccessToken: "acc-fresh"},
	}
	manager := newTestManager(store, auth)

	_, err := manager.ValidAccessToken(ctx, "sid-1")
	require.NoError(t, err)

	assert.Equal(t, "ref-1", store.refresh["sid-1"])
}

func TestEnsureTokenRefreshWithoutAccessToken(t *testing.T) {
	ctx := context.Background()
	store := newMemTokenStore()
	require.NoError(t, store.SaveRefresh(ctx, "sid-1", "ref-1"))

	auth := &fakeAuth{
		validAccess: "acc-fresh",
		refreshPair: domain.TokenPair{AccessToken: "acc-fresh"},
	}
	manager := newTestManager(store, auth)

	token, err := manager.ValidAccessToken(ctx, "sid-1")
	require.NoError(t, err)

	assert.Equal(t, "acc-fresh", token)
	assert.Zero(t, auth.verifyCalls)
	assert.Equal(t, 1, auth.refreshCalls)
}

func TestTerminalFailureClearsTokensAndProfile(t *testing.T) {
	ctx := context.Background()
	store := newMemTokenStore()
	require.NoError(t, store.SaveAccess(ctx, "sid-1", "stale"))
	require.NoError(t, store.SaveRefresh(ctx, "sid-1", "ref-1"))

	auth := &fakeAuth{refreshErr: errors.New("refresh rejected")}
	manager := newTestManager(store, auth)
	manager.UpdateProfile("sid-1", &domain.Profile{Email: "a@b.c"})

	_, err := manager.ValidAccessToken(ctx, "sid-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	assert.Empty(t, store.access["sid-1"])
	assert.Empty(t, store.refresh["sid-1"])
	assert.Nil(t, manager.CachedProfile("sid-1"))
}

func TestLoginEstablishesSession(t *testing.T) {
	ctx := context.Background()
	store := newMemTokenStore()
	auth := &fakeAuth{
		loginPair: domain.TokenPair{AccessToken: "acc-1", RefreshToken: "ref-1"},
		profile:   &domain.Profile{Email: "a@b.c"},
	}
	manager := newTestManager(store, auth)

	sess, err := manager.Login(ctx, "sid-1", "a@b.c", "secret")
	require.NoError(t, err)

	assert.True(t, sess.Authenticated)
	assert.Equal(t, "acc-1", store.access["sid-1"])
	assert.Equal(t, "ref-1", store.refresh["sid-1"])
	assert.NotNil(t, manager.CachedProfile("sid-1"))
}

func TestLoginFailureLeavesNoState(t *testing.T) {
	ctx := context.Background()
	store := newMemTokenStore()
	auth := &fakeAuth{loginErr: errors.New("bad credentials")}
	manager := newTestManager(store, auth)

	_, err := manager.Login(ctx, "sid-1", "a@b.c", "wrong")

	require.Error(t, err)
	assert.Empty(t, store.access["sid-1"])
	assert.Nil(t, manager.CachedProfile("sid-1"))
}

func TestLogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	store := newMemTokenStore()
	require.NoError(t, store.SaveAccess(ctx, "sid-1", "acc-1"))
	require.NoError(t, store.SaveRefresh(ctx, "sid-1", "ref-1"))

	auth := &fakeAuth{}
	manager := newTestManager(store, auth)
	manager.UpdateProfile("sid-1", &domain.Profile{Email: "a@b.c"})

	manager.Logout(ctx, "sid-1")

	assert.Empty(t, store.access["sid-1"])
	assert.Empty(t, store.refresh["sid-1"])
	assert.Nil(t, manager.CachedProfile("sid-1"))
	assert.Zero(t, auth.verifyCalls)
}
