package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
)

// pendingRefresh is the shared handle every caller of an in-flight refresh
// awaits. The outcome fields are written exactly once, before done closes.
type pendingRefresh struct {
	done    chan struct{}
	session *Session
	err     error
}

// TokenManager owns refresh-on-demand for the stored credential pair. At
// most one refresh exchange is in flight at any instant; callers arriving
// while one is pending await the same outcome rather than issuing a second
// exchange, which would race the already-rotated refresh credential.
type TokenManager struct {
	store      *SessionStore
	refreshURL string
	httpClient *http.Client
	logger     Logger
	activity   ActivitySink

	mu      sync.Mutex
	pending *pendingRefresh
}

// NewTokenManager builds a TokenManager that exchanges refresh credentials
// against refreshURL and persists results in store.
func NewTokenManager(store *SessionStore, refreshURL string) *TokenManager {
	return &TokenManager{
		store:      store,
		refreshURL: refreshURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     defLogger{},
		activity:   noopActivitySink{},
	}
}

func (t *TokenManager) WithLogger(logger Logger) *TokenManager {
	if logger != nil {
		t.logger = logger
	}
	return t
}

// WithHTTPClient overrides the HTTP client used for the refresh exchange.
func (t *TokenManager) WithHTTPClient(client *http.Client) *TokenManager {
	if client != nil {
		t.httpClient = client
	}
	return t
}

// WithActivitySink configures an ActivitySink for refresh events.
func (t *TokenManager) WithActivitySink(sink ActivitySink) *TokenManager {
	t.activity = normalizeActivitySink(sink)
	return t
}

// Store exposes the session store so collaborators share the same writer.
func (t *TokenManager) Store() *SessionStore {
	return t.store
}

// AccessCredential is a non-blocking read of the stored access credential,
// empty when absent.
func (t *TokenManager) AccessCredential(ctx context.Context) string {
	return t.store.Read(ctx, StorageKeyAccessToken)
}

// Clear unconditionally wipes the session. Idempotent.
func (t *TokenManager) Clear(ctx context.Context) {
	t.store.ClearSession(ctx)
}

// NeedsRefresh reports whether the stored access credential is absent or
// expires within skew. A credential without a readable expiry claim is
// assumed live.
func (t *TokenManager) NeedsRefresh(ctx context.Context, skew time.Duration) bool {
	token := t.AccessCredential(ctx)
	if token == "" {
		return true
	}
	expiry, err := CredentialExpiry(token)
	if err != nil || expiry.IsZero() {
		return false
	}
	return time.Now().Add(skew).After(expiry)
}

// Refresh performs exactly one network exchange of a refresh credential for
// a new {access, refresh, user} triple.
//
// If no refresh credential is resolvable (override argument or stored
// value) it returns (nil, nil) without touching the network or the session.
// If a refresh is already in flight the caller awaits that exchange's
// outcome. On success the new triple is persisted atomically; on failure
// the entire session is cleared and the error propagates to every waiter.
func (t *TokenManager) Refresh(ctx context.Context, override ...string) (*Session, error) {
	t.mu.Lock()
	if p := t.pending; p != nil {
		t.mu.Unlock()
		return t.await(ctx, p)
	}

	refreshToken := ""
	if len(override) > 0 {
		refreshToken = override[0]
	}
	if refreshToken == "" {
		refreshToken = t.store.Read(ctx, StorageKeyRefreshToken)
	}
	if refreshToken == "" {
		t.mu.Unlock()
		t.logger.Debug("refresh skipped: no refresh credential available")
		return nil, nil
	}

	p := &pendingRefresh{done: make(chan struct{})}
	t.pending = p
	t.mu.Unlock()

	session, err := t.exchange(ctx, refreshToken)
	if err != nil {
		t.store.ClearSession(ctx)
		t.logger.Error("refresh exchange failed, session cleared: %v", err)
		recordActivity(ctx, t.activity, t.logger, ActivityEvent{
			EventType: ActivityEventRefreshFailure,
			Metadata:  map[string]any{"error": err.Error()},
		})
	} else {
		t.store.SaveSession(ctx, session)
		recordActivity(ctx, t.activity, t.logger, ActivityEvent{
			EventType: ActivityEventRefreshSuccess,
			UserID:    session.User.ID(),
		})
	}

	p.session, p.err = session, err

	t.mu.Lock()
	t.pending = nil
	t.mu.Unlock()
	close(p.done)

	return session, err
}

func (t *TokenManager) await(ctx context.Context, p *pendingRefresh) (*Session, error) {
	select {
	case <-p.done:
		return p.session, p.err
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), errors.CategoryOperation, "context cancelled awaiting refresh")
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshEnvelope struct {
	Data *Session `json:"data"`
}

// exchange posts the refresh credential and decodes the issued triple.
func (t *TokenManager) exchange(ctx context.Context, refreshToken string) (*Session, error) {
	payload, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to encode refresh request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build refresh request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "refresh exchange network error")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read refresh response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, ErrRefreshFailed.WithMetadata(map[string]any{
			"status": resp.StatusCode,
		})
	}

	var envelope refreshEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "malformed refresh response")
	}

	session := envelope.Data
	if !session.Complete() {
		return nil, ErrSessionIncomplete
	}

	return session, nil
}
