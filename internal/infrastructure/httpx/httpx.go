package httpx

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Doer executes HTTP requests.
//
//go:generate mockgen -package=httpx -destination=mock_doer_test.go -source=httpx.go Doer
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a small wrapper around http.Client with sane defaults.
type Client struct {
	doer      Doer
	UserAgent string
	Headers   map[string]string
}

// New creates a client with its own transport and an overall request timeout
func New(timeout time.Duration, userAgent string) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return NewWithDoer(&http.Client{Timeout: timeout, Transport: transport}, userAgent)
}

// NewWithDoer wraps an existing Doer, e.g. an *http.Client or a test double
func NewWithDoer(doer Doer, userAgent string) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{doer: doer, UserAgent: userAgent, Headers: map[string]string{}}
}

// Get issues a GET for rawURL with JSON accept and the default headers
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.Do(req)
}

// Do sends req after filling in User-Agent and default headers the caller left unset
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return c.doer.Do(req)
}
