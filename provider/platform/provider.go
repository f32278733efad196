// Package platform implements authclient.AuthProvider against the education
// platform's own auth endpoints: password sign-in, sign-out, and the
// current-identity probe backed by the cached user snapshot.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/goliatone/go-errors"

	authclient "github.com/goliatone/go-authclient"
)

const (
	defaultSignInPath  = "/auth/login"
	defaultSignOutPath = "/auth/logout"
)

// Config holds the platform auth endpoints.
type Config struct {
	BaseURL     string
	SignInPath  string
	SignOutPath string

	HTTPClient *http.Client
}

// Provider signs users in and out against the platform API and persists the
// issued credential triple through the shared session store.
type Provider struct {
	config     Config
	httpClient *http.Client
	store      *authclient.SessionStore
}

var _ authclient.AuthProvider = (*Provider)(nil)

// New creates a platform auth provider over the shared session store.
func New(cfg Config, store *authclient.SessionStore) *Provider {
	if cfg.SignInPath == "" {
		cfg.SignInPath = defaultSignInPath
	}
	if cfg.SignOutPath == "" {
		cfg.SignOutPath = defaultSignOutPath
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Provider{
		config:     cfg,
		httpClient: client,
		store:      store,
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionEnvelope struct {
	Data    *authclient.Session `json:"data"`
	Message string              `json:"message"`
}

// SignIn exchanges credentials for a {access, refresh, user} triple and
// persists it. The returned identity is the issued user snapshot.
func (p *Provider) SignIn(ctx context.Context, email, password string) (authclient.Identity, error) {
	payload, err := json.Marshal(signInRequest{Email: email, Password: password})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to encode sign-in request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+p.config.SignInPath, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build sign-in request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "sign-in network error")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read sign-in response")
	}

	var envelope sessionEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "malformed sign-in response")
	}

	if resp.StatusCode != http.StatusOK {
		message := envelope.Message
		if message == "" {
			message = "sign-in rejected"
		}
		return nil, errors.New(message, errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithMetadata(map[string]any{"status": resp.StatusCode})
	}

	session := envelope.Data
	if !session.Complete() || session.User == nil {
		return nil, errors.New("sign-in response missing session", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	p.store.SaveSession(ctx, session)

	return session.User, nil
}

// CurrentIdentity implements authclient.AuthProvider. It reads the cached
// snapshot; (nil, nil) means nobody is signed in.
func (p *Provider) CurrentIdentity(ctx context.Context) (authclient.Identity, error) {
	session := p.store.ReadSession(ctx)
	if !session.Complete() || session.User == nil {
		return nil, nil
	}
	return session.User, nil
}

// SignOut implements authclient.AuthProvider. It only notifies the remote
// endpoint; local state is the Coordinator's to clear, and it clears it
// before this call is made.
func (p *Provider) SignOut(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+p.config.SignOutPath, nil)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to build sign-out request")
	}

	if access := p.store.Read(ctx, authclient.StorageKeyAccessToken); access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "sign-out network error")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errors.New("sign-out rejected", errors.CategoryOperation).
			WithMetadata(map[string]any{"status": resp.StatusCode})
	}

	return nil
}
