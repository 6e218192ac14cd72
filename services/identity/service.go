package identity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"cinetrackr/config"
	"cinetrackr/internal/database"
	"cinetrackr/models"
	"cinetrackr/utils"
)

// ErrAuthFailed covers every way a login attempt can be rejected: state/nonce
// mismatch, a failed code exchange, or a token without a usable email claim.
var ErrAuthFailed = errors.New("authentication failed")

// Provider abstracts the external OAuth identity provider. The production
// implementation wraps go-oidc; tests substitute a fake.
type Provider interface {
	// AuthCodeURL builds the provider redirect carrying the anti-forgery state.
	AuthCodeURL(state string) string
	// ExchangeCode trades an authorization code for a verified email address.
	ExchangeCode(ctx context.Context, code string) (string, error)
}

// Service resolves external logins to local users.
type Service struct {
	provider Provider
	users    *database.UserRepository
}

// NewService creates an identity service on top of the given provider.
func NewService(provider Provider, users *database.UserRepository) *Service {
	return &Service{provider: provider, users: users}
}

// NewOIDCService discovers the configured OIDC provider and returns a service
// backed by it.
func NewOIDCService(ctx context.Context, cfg config.OIDCConfig, users *database.UserRepository) (*Service, error) {
	provider, err := oidc.NewProvider(ctx, cfg.ProviderURL)
	if err != nil {
		return nil, fmt.Errorf("init OIDC provider: %w", err)
	}

	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})

	return NewService(&oidcProvider{conf: conf, verifier: verifier}, users), nil
}

// BeginLogin produces the provider redirect and the anti-forgery nonce that
// must round-trip through the provider and be checked on callback.
func (s *Service) BeginLogin() (redirectURL, nonce string, err error) {
	nonce, err = utils.GenerateToken()
	if err != nil {
		return "", "", fmt.Errorf("begin login: %w", err)
	}
	return s.provider.AuthCodeURL(nonce), nonce, nil
}

// CompleteLogin validates the provider callback and returns the verified
// email. Any mismatch or provider failure is reported as ErrAuthFailed; the
// underlying cause is logged, never surfaced to the client.
func (s *Service) CompleteLogin(ctx context.Context, code, state, expectedNonce string) (string, error) {
	if expectedNonce == "" || state != expectedNonce {
		return "", fmt.Errorf("%w: state mismatch", ErrAuthFailed)
	}
	if code == "" {
		return "", fmt.Errorf("%w: missing authorization code", ErrAuthFailed)
	}

	email, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		log.Printf("[identity] code exchange failed: %v", err)
		return "", fmt.Errorf("%w: code exchange rejected", ErrAuthFailed)
	}
	if email == "" {
		return "", fmt.Errorf("%w: provider returned no email", ErrAuthFailed)
	}
	return email, nil
}

// ResolveOrCreateUser returns the user registered under the verified email,
// creating one on first sight. Safe under concurrent first logins: the unique
// email index lets at most one insert win, and the loser re-reads that row.
func (s *Service) ResolveOrCreateUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	created := &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	err = s.users.Create(ctx, created)
	if err == nil {
		log.Printf("[identity] provisioned new user %s (%s)", created.ID, created.Email)
		return created, nil
	}
	if errors.Is(err, database.ErrEmailTaken) {
		// Lost the race to a concurrent first login with the same email.
		return s.users.GetByEmail(ctx, email)
	}
	return nil, fmt.Errorf("create user: %w", err)
}

// oidcProvider is the production Provider: oauth2 code exchange plus ID token
// verification through the provider's published keys.
type oidcProvider struct {
	conf     *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

func (p *oidcProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *oidcProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return "", errors.New("token response is missing id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", fmt.Errorf("verify id token: %w", err)
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", fmt.Errorf("decode claims: %w", err)
	}
	return claims.Email, nil
}
