package upstream

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/storefront-gateway/internal/config"
	"github.com/spec-kit/storefront-gateway/internal/domain"
	"github.com/spec-kit/storefront-gateway/internal/observability"
)

// AuthAPI is the contract of the remote auth authority. Tokens are
// opaque strings; only the authority can judge their validity.
type AuthAPI interface {
	Verify(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)
	Login(ctx context.Context, email, password string) (domain.TokenPair, error)
	Register(ctx context.Context, email, password string) (domain.TokenPair, error)
	Profile(ctx context.Context, accessToken string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, accessToken string, patch domain.Profile) (*domain.Profile, error)
}

// AuthClient talks to the remote auth authority over HTTP.
type AuthClient struct {
	baseURL string
	client  httpDoer
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewAuthClient builds the gateway for the auth authority.
func NewAuthClient(cfg config.UpstreamConfig, logger *zap.Logger, metrics *observability.Metrics) *AuthClient {
	return &AuthClient{
		baseURL: cfg.AuthBaseURL,
		client:  newHTTPClient(cfg.Timeout()),
		logger:  logger,
		metrics: metrics,
	}
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Verify asks the authority whether the access token is still valid.
func (c *AuthClient) Verify(ctx context.Context, accessToken string) error {
	err := doJSON(ctx, c.client, http.MethodPost, c.baseURL+"/accounts/token/verify/", "", verifyRequest{Token: accessToken}, nil)
	c.metrics.RecordUpstream("auth", "verify", err != nil)
	return err
}

// Refresh exchanges the refresh token for a new access token. The
// authority may or may not rotate the refresh token; an empty
// RefreshToken in the result means it did not.
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	var resp tokenPairResponse
	err := doJSON(ctx, c.client, http.MethodPost, c.baseURL+"/accounts/token/refresh/", "", refreshRequest{Refresh: refreshToken}, &resp)
	c.metrics.RecordUpstream("auth", "refresh", err != nil)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

// Login authenticates credentials and returns a fresh token pair.
func (c *AuthClient) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	var resp tokenPairResponse
	err := doJSON(ctx, c.client, http.MethodPost, c.baseURL+"/accounts/user/login/", "", credentialsRequest{Email: email, Password: password}, &resp)
	c.metrics.RecordUpstream("auth", "login", err != nil)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

// Register creates an account and returns its first token pair.
func (c *AuthClient) Register(ctx context.Context, email, password string) (domain.TokenPair, error) {
	var resp tokenPairResponse
	err := doJSON(ctx, c.client, http.MethodPost, c.baseURL+"/accounts/user/register/", "", credentialsRequest{Email: email, Password: password}, &resp)
	c.metrics.RecordUpstream("auth", "register", err != nil)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

type profilePayload struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

func (p profilePayload) toDomain() *domain.Profile {
	return &domain.Profile{
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Address:   p.Address,
		City:      p.City,
		Country:   p.Country,
	}
}

// Profile fetches the profile bound to the access token.
func (c *AuthClient) Profile(ctx context.Context, accessToken string) (*domain.Profile, error) {
	var resp profilePayload
	err := doJSON(ctx, c.client, http.MethodGet, c.baseURL+"/accounts/user/profile/", accessToken, nil, &resp)
	c.metrics.RecordUpstream("auth", "profile", err != nil)
	if err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

// UpdateProfile patches the remote profile and returns the stored result.
func (c *AuthClient) UpdateProfile(ctx context.Context, accessToken string, patch domain.Profile) (*domain.Profile, error) {
	var resp profilePayload
	err := doJSON(ctx, c.client, http.MethodPut, c.baseURL+"/accounts/user/profile/", accessToken, profilePayload{
		Email:     patch.Email,
		FirstName: patch.FirstName,
		LastName:  patch.LastName,
		Phone:     patch.Phone,
		Address:   patch.Address,
		City:      patch.City,
		Country:   patch.Country,
	}, &resp)
	c.metrics.RecordUpstream("auth", "update_profile", err != nil)
	if err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}
