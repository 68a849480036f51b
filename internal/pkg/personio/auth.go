package personio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
	"golang.org/x/oauth2"
)

const (
	// The upstream does not report token lifetime, so a fixed one is assumed.
	tokenLifetime = 24 * time.Hour
	// Tokens this close to expiry are refreshed instead of used.
	refreshThreshold = 5 * time.Minute

	authResource = "v1/auth"
)

// TokenStore shares tokens between clients constructed with the same credentials.
type TokenStore interface {
	Get(creds personio.Credentials) (*oauth2.Token, bool)
	Put(creds personio.Credentials, tok *oauth2.Token)
	Delete(creds personio.Credentials)
}

// MemoryTokenStore is a process-local TokenStore.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]*oauth2.Token
}

var _ TokenStore = (*MemoryTokenStore)(nil)

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]*oauth2.Token)}
}

func (s *MemoryTokenStore) Get(creds personio.Credentials) (*oauth2.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tok, ok := s.tokens[creds.Key()]
	return tok, ok
}

func (s *MemoryTokenStore) Put(creds personio.Credentials, tok *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[creds.Key()] = tok
}

func (s *MemoryTokenStore) Delete(creds personio.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, creds.Key())
}

type authRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type authEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Token string `json:"token"`
	} `json:"data"`
	Error *envelopeError `json:"error"`
}

// Authenticate exchanges the client credentials for a fresh access token.
func (c *Client) Authenticate(ctx context.Context) (*oauth2.Token, error) {
	payload, err := json.Marshal(authRequest{
		ClientID:     c.creds.ClientID,
		ClientSecret: c.creds.ClientSecret,
	})
	if err != nil {
		return nil, &personio.AuthError{Message: "encoding credentials", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(authResource), bytes.NewReader(payload))
	if err != nil {
		return nil, &personio.AuthError{Message: "creating request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &personio.AuthError{Message: "request failed", Err: err}
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &personio.AuthError{Message: "reading response body", Err: err}
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return nil, &personio.AuthError{
			Message: fmt.Sprintf("unexpected content type %q (status %d)", resp.Header.Get("Content-Type"), resp.StatusCode),
		}
	}

	var env authEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &personio.AuthError{Message: "decoding response", Err: err}
	}
	if !env.Success {
		msg := "credentials rejected"
		if env.Error != nil && env.Error.Message != "" {
			msg = env.Error.Message
		}
		return nil, &personio.AuthError{Message: msg}
	}
	if env.Data.Token == "" {
		return nil, &personio.AuthError{Message: "response carries no token"}
	}

	tok := &oauth2.Token{
		AccessToken: env.Data.Token,
		TokenType:   "Bearer",
		Expiry:      c.now().Add(tokenLifetime),
	}
	c.setToken(tok)
	c.store.Put(c.creds, tok)

	slog.Debug("Personio token refreshed", "expires_at", tok.Expiry)
	return tok, nil
}

// EnsureValidToken returns a token that is not within the refresh threshold of
// its expiry, authenticating when neither the client nor the store holds one.
func (c *Client) EnsureValidToken(ctx context.Context) (*oauth2.Token, error) {
	now := c.now()
	if tok := c.currentToken(); isFresh(tok, now) {
		return tok, nil
	}
	if tok, ok := c.store.Get(c.creds); ok && isFresh(tok, now) {
		c.setToken(tok)
		return tok, nil
	}
	return c.Authenticate(ctx)
}

// Token returns the token currently held by the client, if any.
func (c *Client) Token() *oauth2.Token {
	return c.currentToken()
}

func (c *Client) currentToken() *oauth2.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(tok *oauth2.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = tok
}

func (c *Client) invalidateToken() {
	c.setToken(nil)
	c.store.Delete(c.creds)
}

func isFresh(tok *oauth2.Token, now time.Time) bool {
	return tok != nil && tok.AccessToken != "" && tok.Expiry.Sub(now) > refreshThreshold
}
