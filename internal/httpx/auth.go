package httpx

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

// Auth decorates an outbound request with provider credentials.
type Auth interface {
	Apply(ctx context.Context, req *http.Request) error
}

// AuthNone sends no credentials.
type AuthNone struct{}

func (AuthNone) Apply(context.Context, *http.Request) error { return nil }

// AuthQueryParam appends the credential as a query parameter.
type AuthQueryParam struct {
	Param string
	Key   string
}

func (a AuthQueryParam) Apply(_ context.Context, req *http.Request) error {
	q := req.URL.Query()
	q.Set(a.Param, a.Key)
	req.URL.RawQuery = q.Encode()
	return nil
}

// AuthHeader sets the credential as a header, e.g. "X-Finnhub-Token" or
// "Authorization" with a "Bearer " prefix.
type AuthHeader struct {
	Header string
	Prefix string
	Key    string
}

func (a AuthHeader) Apply(_ context.Context, req *http.Request) error {
	req.Header.Set(a.Header, a.Prefix+a.Key)
	return nil
}

// ErrNoToken is returned when a token store has no usable token.
var ErrNoToken = errors.New("no valid token in store")

// TokenStore holds a short-lived credential with its expiry. It replaces
// ambient session storage for providers with expiring tokens: callers get
// an explicit store reference, never a global.
type TokenStore struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time

	// Refresh obtains a new token when the stored one is missing or
	// expired. Optional; without it Token fails once the token lapses.
	Refresh func(ctx context.Context) (token string, expiresAt time.Time, err error)
}

// Set stores a token with its expiry.
func (s *TokenStore) Set(token string, expiresAt time.Time) {
	s.mu.Lock()
	s.token = token
	s.expiresAt = expiresAt
	s.mu.Unlock()
}

// Token returns the stored token, refreshing it if expired.
func (s *TokenStore) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	tok, exp := s.token, s.expiresAt
	s.mu.RUnlock()
	if tok != "" && time.Now().Before(exp) {
		return tok, nil
	}
	if s.Refresh == nil {
		return "", ErrNoToken
	}
	tok, exp, err := s.Refresh(ctx)
	if err != nil {
		return "", err
	}
	s.Set(tok, exp)
	return tok, nil
}

// AuthToken reads a bearer token from a TokenStore on every request.
type AuthToken struct {
	Header string
	Prefix string
	Store  *TokenStore
}

func (a AuthToken) Apply(ctx context.Context, req *http.Request) error {
	tok, err := a.Store.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set(a.Header, a.Prefix+tok)
	return nil
}
