package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is used when no override is configured.
const DefaultBaseURL = "https://tlrfzzmcbmzm.sealoshzh.site/api/"

// DefaultTimeout is the fixed overall deadline for one call.
const DefaultTimeout = 15 * time.Second

// SuccessCode is the envelope code that unwraps to data.
const SuccessCode = 200

// maxBodySize caps how much of a response body is read.
const maxBodySize = 10 << 20

// Client is the booking API client. Every call issues exactly one HTTP
// request; there are no retries.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	cache          *cachingTransport
	tokenFn        func() string
	onUnauthorized func(token string)
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client, disabling the response cache.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
		c.cache = nil
	}
}

// WithToken sends a fixed bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.tokenFn = func() string { return token }
	}
}

// WithTokenSource reads the bearer token from fn before every request.
func WithTokenSource(fn func() string) Option {
	return func(c *Client) {
		c.tokenFn = fn
	}
}

// WithUnauthorizedHandler registers fn to run when a request sent with a
// non-empty token is answered with HTTP 401. fn receives the token that was
// rejected.
func WithUnauthorizedHandler(fn func(token string)) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// New creates a new API client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	cache := newCachingTransport(http.DefaultTransport)
	c := &Client{
		baseURL: baseURL,
		cache:   cache,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: cache,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalised base URL, always ending in "/".
func (c *Client) BaseURL() string {
	return c.baseURL
}

// InvalidateCache drops every cached GET response.
func (c *Client) InvalidateCache() {
	if c.cache != nil {
		c.cache.Reset()
	}
}

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any

	// token, when set, is sent instead of the token source. A 401 on such a
	// request does not fire the unauthorized handler.
	token *string
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query, out: out})
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, request{method: http.MethodPost, path: path, body: body, out: out})
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, request{method: http.MethodPut, path: path, body: body, out: out})
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path})
}

func (c *Client) do(ctx context.Context, r request) error {
	var reqBody io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	target := c.baseURL + strings.TrimPrefix(r.path, "/")
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	if r.token != nil {
		ctx = withoutCache(ctx)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, fromSource := c.tokenFor(r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger := log.With().
		Str("method", r.method).
		Str("path", r.path).
		Str("request_id", requestID).
		Logger()

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug().Err(err).Dur("duration", time.Since(started)).Msg("api request failed")
		return &Fault{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &Fault{Kind: KindNetwork, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Bool("revalidated", resp.Header.Get(httpcache.XFromCache) != "").
		Dur("duration", time.Since(started)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fault := faultForStatus(resp.StatusCode, errorMessage(body))
		if fault.Kind == KindUnauthorized && fromSource && token != "" && c.onUnauthorized != nil {
			c.onUnauthorized(token)
		}
		return fault
	}

	return decodeBody(resp.StatusCode, body, r.out)
}

func (c *Client) tokenFor(r request) (token string, fromSource bool) {
	if r.token != nil {
		return *r.token, false
	}
	if c.tokenFn == nil {
		return "", false
	}
	return c.tokenFn(), true
}

// envelope is the {code, message, data} wrapper shared by API responses.
type envelope struct {
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decodeBody unwraps an envelope when the body is an object carrying a code
// field and decodes the payload into out.
func decodeBody(status int, body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	payload := trimmed
	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return &Fault{Kind: KindDecode, StatusCode: status, Err: err}
		}
		if env.Code != nil {
			code, err := parseCode(env.Code)
			if err != nil {
				return &Fault{Kind: KindDecode, StatusCode: status, Err: err}
			}
			if code != SuccessCode {
				return &Fault{Kind: KindApplication, StatusCode: status, Code: code, Message: env.Message}
			}
			payload = env.Data
		}
	}

	if out == nil || len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &Fault{Kind: KindDecode, StatusCode: status, Err: err}
	}
	return nil
}

// parseCode accepts a numeric or quoted-numeric envelope code.
func parseCode(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("envelope code %s: %w", string(raw), err)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("envelope code %q: %w", s, err)
	}
	return n, nil
}

// errorMessage extracts a server message from an error body, trying the
// envelope message, then an {"error": ...} body, then plain text.
func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
		return ""
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func idPath(prefix string, id int64, suffix string) string {
	p := prefix + "/" + url.PathEscape(strconv.FormatInt(id, 10))
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}
