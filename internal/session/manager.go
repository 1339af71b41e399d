package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/storefront-gateway/internal/domain"
	"github.com/spec-kit/storefront-gateway/internal/upstream"
)

// ErrAuthenticationRequired is returned when no valid access token can
// be produced for the session.
var ErrAuthenticationRequired = errors.New("authentication required")

var errNoTokens = errors.New("no tokens available")

// Manager owns the bearer-token lifecycle of browser sessions. It
// guarantees that a caller asking for a valid access token either gets
// one or a definitive failure, performing at most one refresh
// round-trip per request. Persisted tokens and the cached profile are
// only ever mutated here.
type Manager struct {
	store  TokenStore
	auth   upstream.AuthAPI
	logger *zap.Logger

	mu       sync.RWMutex
	profiles map[string]*domain.Profile
}

// NewManager builds the session manager.
func NewManager(store TokenStore, auth upstream.AuthAPI, logger *zap.Logger) *Manager {
	return &Manager{
		store:    store,
		auth:     auth,
		logger:   logger,
		profiles: make(map[string]*domain.Profile),
	}
}

// CheckAuth resolves the authentication state of the session. All
// failures are absorbed into the unauthenticated state; no error
// escapes to the caller. A terminal failure clears both persisted
// tokens and the cached profile.
func (m *Manager) CheckAuth(ctx context.Context, sid string) domain.Session {
	token, err := m.ensureToken(ctx, sid)
	if err != nil {
		return domain.Session{}
	}

	profile, err := m.auth.Profile(ctx, token)
	if err != nil {
		m.logger.Warn("profile fetch failed", zap.Error(err))
		m.reset(ctx, sid)
		return domain.Session{}
	}

	m.setProfile(sid, profile)
	return domain.Session{Authenticated: true, Profile: profile}
}

// ValidAccessToken returns a currently valid access token for the
// session, refreshing at most once. On failure it clears persisted
// tokens, resets session state and returns ErrAuthenticationRequired.
func (m *Manager) ValidAccessToken(ctx context.Context, sid string) (string, error) {
	token, err := m.ensureToken(ctx, sid)
	if err != nil {
		return "", errors.Join(ErrAuthenticationRequired, err)
	}
	return token, nil
}

// Login authenticates credentials with the remote authority, persists
// the issued token pair and caches the fetched profile.
func (m *Manager) Login(ctx context.Context, sid, email, password string) (domain.Session, error) {
	pair, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	return m.establish(ctx, sid, pair)
}

// Register creates an account upstream and establishes the session
// from the returned token pair.
func (m *Manager) Register(ctx context.Context, sid, email, password string) (domain.Session, error) {
	pair, err := m.auth.Register(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	return m.establish(ctx, sid, pair)
}

// Logout clears persisted tokens and cached state synchronously. No
// network call is made.
func (m *Manager) Logout(ctx context.Context, sid string) {
	m.reset(ctx, sid)
}

// UpdateProfile replaces the cached profile for the session. Tokens
// are untouched.
func (m *Manager) UpdateProfile(sid string, profile *domain.Profile) {
	m.setProfile(sid, profile)
}

// CachedProfile returns the profile from the last successful check,
// or nil when the session is unauthenticated.
func (m *Manager) CachedProfile(sid string) *domain.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profiles[sid]
}

// ensureToken implements the verify-then-refresh-once algorithm. With
// no tokens at all it fails without any network call. Any terminal
// failure clears both persisted tokens and the cached profile before
// returning.
func (m *Manager) ensureToken(ctx context.Context, sid string) (string, error) {
	access, refresh, err := m.store.Tokens(ctx, sid)
	if err != nil {
		m.logger.Warn("token store read failed", zap.Error(err))
		return "", err
	}
	if access == "" && refresh == "" {
		m.clearProfile(sid)
		return "", errNoTokens
	}

	if access != "" {
		verifyErr := m.auth.Verify(ctx, access)
		if verifyErr == nil {
			return access, nil
		}
		if refresh == "" {
			m.reset(ctx, sid)
			return "", verifyErr
		}
		m.logger.Debug("access token rejected, attempting refresh")
	}

	pair, err := m.auth.Refresh(ctx, refresh)
	if err != nil {
		m.reset(ctx, sid)
		return "", err
	}

	if err := m.store.SaveAccess(ctx, sid, pair.AccessToken); err != nil {
		m.reset(ctx, sid)
		return "", err
	}
	// The authority rotates refresh tokens at its own discretion; keep
	// the old one unless a replacement arrived.
	if pair.RefreshToken != "" {
		if err := m.store.SaveRefresh(ctx, sid, pair.RefreshToken); err != nil {
			m.reset(ctx, sid)
			return "", err
		}
	}
	return pair.AccessToken, nil
}

func (m *Manager) establish(ctx context.Context, sid string, pair domain.TokenPair) (domain.Session, error) {
	if err := m.store.SaveAccess(ctx, sid, pair.AccessToken); err != nil {
		return domain.Session{}, err
	}
	if pair.RefreshToken != "" {
		if err := m.store.SaveRefresh(ctx, sid, pair.RefreshToken); err != nil {
			return domain.Session{}, err
		}
	}

	profile, err := m.auth.Profile(ctx, pair.AccessToken)
	if err != nil {
		m.reset(ctx, sid)
		return domain.Session{}, err
	}

	m.setProfile(sid, profile)
	return domain.Session{Authenticated: true, Profile: profile}, nil
}

func (m *Manager) reset(ctx context.Context, sid string) {
	if err := m.store.Clear(ctx, sid); err != nil {
		m.logger.Warn("token store clear failed", zap.Error(err))
	}
	m.clearProfile(sid)
}

func (m *Manager) setProfile(sid string, profile *domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if profile == nil {
		delete(m.profiles, sid)
		return
	}
	m.profiles[sid] = profile
}

func (m *Manager) clearProfile(sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, sid)
}
