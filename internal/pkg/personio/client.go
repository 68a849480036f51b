package personio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL  = "https://api.personio.de"
	DefaultPageSize = 200

	// A call failing with INVALID_TOKEN is re-issued at most this many times.
	maxTokenRetries = 1
)

// Client talks to the Personio REST API with a short-lived bearer token.
type Client struct {
	creds      personio.Credentials
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	pageSize   int
	now        func() time.Time

	mu    sync.RWMutex
	token *oauth2.Token
}

var _ personio.Client = (*Client)(nil)

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTokenStore lets clients with identical credentials share a token.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.store = store }
}

func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithClock replaces time.Now, used for token expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a new Personio client
func NewClient(creds personio.Credentials, opts ...Option) (*Client, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, personio.ErrMissingCredentials
	}
	c := &Client{
		creds:      creds,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		pageSize:   DefaultPageSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = NewMemoryTokenStore()
	}
	return c, nil
}

// Metadata is the pagination block of list responses.
type Metadata struct {
	TotalElements int `json:"total_elements"`
	CurrentPage   int `json:"current_page"`
	TotalPages    int `json:"total_pages"`
}

// Response is a successful envelope with its data left undecoded.
type Response struct {
	Data     json.RawMessage
	Metadata *Metadata
}

type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Error    *envelopeError  `json:"error"`
	Metadata *Metadata       `json:"metadata"`
}

type envelopeError struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorCode accepts both string and numeric codes.
type errorCode string

func (c *errorCode) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = errorCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = errorCode(n.String())
	return nil
}

// Call issues one authenticated request and decodes the response envelope.
// An INVALID_TOKEN failure drops the token and re-issues the call once.
func (c *Client) Call(ctx context.Context, method, resource string, params url.Values, body any) (*Response, error) {
	for attempt := 0; ; attempt++ {
		tok, err := c.EnsureValidToken(ctx)
		if err != nil {
			return nil, err
		}

		statusCode, env, err := c.do(ctx, tok, method, resource, params, body)
		if err != nil {
			return nil, err
		}
		if env.Success {
			return &Response{Data: env.Data, Metadata: env.Metadata}, nil
		}

		apiErr := &personio.ApiError{StatusCode: statusCode, Message: "request failed"}
		if env.Error != nil {
			apiErr.Code = string(env.Error.Code)
			if env.Error.Message != "" {
				apiErr.Message = env.Error.Message
			}
		}
		if apiErr.IsInvalidToken() && attempt < maxTokenRetries {
			slog.Debug("Personio token rejected, re-authenticating", "resource", resource)
			c.invalidateToken()
			continue
		}
		return nil, apiErr
	}
}

func (c *Client) do(ctx context.Context, tok *oauth2.Token, method, resource string, params url.Values, body any) (int, *envelope, error) {
	endpoint := c.endpoint(resource)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	tok.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &personio.NetworkError{Method: method, Resource: resource, Err: err}
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return resp.StatusCode, nil, &personio.NetworkError{Method: method, Resource: resource, Err: err}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isJSON(contentType) {
		return resp.StatusCode, nil, &personio.ProtocolError{
			StatusCode:  resp.StatusCode,
			ContentType: contentType,
			Message:     "expected a JSON response",
		}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return resp.StatusCode, nil, &personio.ProtocolError{
			StatusCode:  resp.StatusCode,
			ContentType: contentType,
			Message:     "decoding response envelope: " + err.Error(),
		}
	}
	return resp.StatusCode, &env, nil
}

func (c *Client) endpoint(resource string) string {
	return c.baseURL + "/" + strings.TrimLeft(resource, "/")
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
