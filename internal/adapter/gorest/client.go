package gorest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	domain "gorest-users/internal/domain/user"
	apperrors "gorest-users/pkg/errors"
)

const (
	// DefaultBaseURL is the public GoREST v2 endpoint.
	DefaultBaseURL = "https://gorest.co.in/public/v2/"
	// DefaultTimeout is the total request timeout.
	DefaultTimeout = 30 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 15 * time.Second
)

// HeaderLink is the pagination header returned by list calls.
const HeaderLink = "Link"

// Response is the transport-level outcome of a call that reached the server.
type Response struct {
	StatusCode int
	Header     http.Header
}

// Successful reports whether the status is 2xx.
func (r *Response) Successful() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ListResponse is the outcome of a list call. Users is only populated on 2xx.
type ListResponse struct {
	Response
	Users []domain.Record
}

// CreateResponse is the outcome of a create call. User is only populated on 2xx.
type CreateResponse struct {
	Response
	User *domain.Record
}

// Client talks to the GoREST users resource.
type Client struct {
	baseURL *url.URL
	perPage int
	http    *http.Client
	log     *zap.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. Its transport is used as-is;
// authentication headers are only added by the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithPerPage sets the page size sent on list calls.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// New creates a new GoREST client for baseURL authenticated with the bearer token.
func New(baseURL, token string, timeout time.Duration, log *zap.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL: u,
		perPage: domain.DefaultPerPage,
		http:    NewHTTPClient(token, timeout),
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewHTTPClient creates an HTTP client that authenticates every request.
func NewHTTPClient(token string, timeout time.Duration) *http.Client {
	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: ResponseHeaderTimeout,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &authTransport{token: token, next: base},
	}
}

// authTransport sets the bearer token and JSON content negotiation headers.
type authTransport struct {
	token string
	next  http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+t.token)
	r.Header.Set("Accept", "application/json")
	r.Header.Set("Content-Type", "application/json")
	return t.next.RoundTrip(r)
}

// ListUsers fetches one page of the users listing.
func (c *Client) ListUsers(ctx context.Context, page int) (*ListResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.perPage))

	resp, err := c.do(ctx, http.MethodGet, "users", q, nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	out := &ListResponse{Response: Response{StatusCode: resp.StatusCode, Header: resp.Header}}
	if !out.Successful() {
		c.log.Debug("list users returned non-success status", zap.Int("page", page), zap.Int("status", resp.StatusCode))
		return out, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(&out.Users); err != nil {
		c.log.Error("failed to decode users page", zap.Int("page", page), zap.Error(err))
		return nil, apperrors.NewNetworkError(fmt.Errorf("decode users page %d: %w", page, err))
	}
	return out, nil
}

// CreateUser submits a new user record.
func (c *Client) CreateUser(ctx context.Context, rec domain.Record) (*CreateResponse, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, apperrors.NewNetworkError(fmt.Errorf("encode user: %w", err))
	}

	resp, err := c.do(ctx, http.MethodPost, "users", nil, body)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	out := &CreateResponse{Response: Response{StatusCode: resp.StatusCode, Header: resp.Header}}
	if !out.Successful() {
		c.log.Debug("create user returned non-success status", zap.Int("status", resp.StatusCode))
		return out, nil
	}

	var created domain.Record
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		if errors.Is(err, io.EOF) {
			// empty body: the caller decides whether that is acceptable
			return out, nil
		}
		c.log.Error("failed to decode created user", zap.Error(err))
		return nil, apperrors.NewNetworkError(fmt.Errorf("decode created user: %w", err))
	}
	out.User = &created
	return out, nil
}

// DeleteUser removes the user with the given id.
func (c *Client) DeleteUser(ctx context.Context, id int64) (*Response, error) {
	resp, err := c.do(ctx, http.MethodDelete, "users/"+strconv.FormatInt(id, 10), nil, nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header}, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, error) {
	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, apperrors.NewHTTPError(err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("gorest request failed",
			zap.String("method", method),
			zap.String("url", u.String()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, Classify(err)
	}

	c.log.Debug("gorest request",
		zap.String("method", method),
		zap.String("url", u.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

// drain discards the rest of the body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
