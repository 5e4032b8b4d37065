// Package auth holds the shared bearer token for the upstream API.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/okian/healthfetch/internal/adapters/upstream/transport"
	"github.com/okian/healthfetch/pkg/logger"
	"github.com/okian/healthfetch/pkg/metrics"
)

// Reasons recorded for token exchanges.
const (
	ReasonInitial      = "initial"
	ReasonProactive    = "proactive"
	ReasonUnauthorized = "unauthorized"
)

const tokenPath = "/generateToken"

// Doer performs upstream calls.
type Doer interface {
	Do(ctx context.Context, req transport.RequestSpec, class transport.CallClass) (*transport.Response, error)
}

// Credentials is the key pair exchanged for a token.
type Credentials struct {
	SecretKey string `json:"secretKey"`
	ClientKey string `json:"clientKey"`
}

// Session is one mutable token cell shared by every concurrent fetch of a run.
// Reads take a read lock; exchanges are serialized by refreshMu so concurrent
// 401s collapse into a single refresh.
type Session struct {
	doer    Doer
	baseURL string
	creds   Credentials
	logger  logger.Logger

	mu    sync.RWMutex
	token string

	refreshMu sync.Mutex
}

// New creates a Session without a token.
func New(doer Doer, baseURL string, creds Credentials, opts ...Option) *Session {
	s := &Session{
		doer:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		logger:  logger.Get().Named("auth"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns the held token, possibly empty.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Invalidate clears the held token.
func (s *Session) Invalidate() {
	s.set("")
}

// Obtain exchanges the credentials for a new token and stores it.
// On failure the held token is left untouched.
func (s *Session) Obtain(ctx context.Context) (string, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.exchangeAndStore(ctx, ReasonInitial)
}

// Ensure returns the held token, obtaining one first if none is held.
func (s *Session) Ensure(ctx context.Context) (string, error) {
	if tok := s.Token(); tok != "" {
		return tok, nil
	}
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	if tok := s.Token(); tok != "" {
		return tok, nil
	}
	return s.exchangeAndStore(ctx, ReasonInitial)
}

// CompareAndRefresh replaces a token the upstream rejected. If the held token no
// longer equals old, another caller already refreshed it and that token is
// returned without a network call. Otherwise the token is cleared and a new one
// obtained; on failure it stays cleared.
func (s *Session) CompareAndRefresh(ctx context.Context, old string) (string, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if cur := s.Token(); cur != "" && cur != old {
		return cur, nil
	}
	s.Invalidate()
	return s.exchangeAndStore(ctx, ReasonUnauthorized)
}

// Refresh proactively replaces the token. On failure the previous token is kept.
func (s *Session) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	_, err := s.exchangeAndStore(ctx, ReasonProactive)
	return err
}

func (s *Session) set(tok string) {
	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
}

// exchangeAndStore must be called with refreshMu held.
func (s *Session) exchangeAndStore(ctx context.Context, reason string) (string, error) {
	tok, err := s.exchange(ctx)
	if err != nil {
		metrics.RecordTokenExchange(reason, "failure")
		s.logger.Warn(ctx, "token exchange failed", logger.String("reason", reason), logger.Error(err))
		return "", err
	}
	metrics.RecordTokenExchange(reason, "success")
	s.logger.Debug(ctx, "token obtained", logger.String("reason", reason))
	s.set(tok)
	return tok, nil
}

func (s *Session) exchange(ctx context.Context) (string, error) {
	body, err := json.Marshal(s.creds)
	if err != nil {
		return "", fmt.Errorf("%w: encode credentials: %w", ErrTokenExchange, err)
	}
	resp, err := s.doer.Do(ctx, transport.RequestSpec{
		Method: http.MethodPost,
		URL:    s.baseURL + tokenPath,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   body,
	}, transport.ClassToken)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}
	if resp.Status != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrTokenExchange, resp.Status)
	}
	tok, ok := ParseToken(resp.Body)
	if !ok {
		return "", fmt.Errorf("%w: no token in response", ErrTokenExchange)
	}
	return tok, nil
}

// ParseToken extracts a token from a bare JSON string or from the first non-empty
// of token, access_token and accessToken in a JSON object.
func ParseToken(body []byte) (string, bool) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, t != ""
	case map[string]any:
		for _, key := range []string{"token", "access_token", "accessToken"} {
			if s, ok := t[key].(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}
