// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package request is a small fluent HTTP request builder over net/http.
//
// Errors found while a request is being assembled (an invalid URL, a header
// that is not valid on the wire, a body that cannot be encoded) are kept in
// the Builder and returned by Build or Send.
package request

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const defaultUserAgent = "prettyjson-client"

// Client creates request builders sharing an *http.Client, a base URL and a
// set of default headers. A Client must not be modified after NewClient
// returns and is safe for concurrent use.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	defaultHeaders http.Header
	logger         *zap.Logger
}

type clientOptions struct {
	httpClient  *http.Client
	transport   http.RoundTripper
	tokenSource oauth2.TokenSource
	baseURL     string
	userAgent   string
	headers     http.Header
	logger      *zap.Logger
}

type Option func(*clientOptions)

// WithHTTPClient sets the *http.Client used to send requests. It is copied,
// so later changes to hc do not affect the Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(opts *clientOptions) {
		opts.httpClient = hc
	}
}

// WithTransport sets the RoundTripper of the Client's *http.Client.
func WithTransport(rt http.RoundTripper) Option {
	return func(opts *clientOptions) {
		opts.transport = rt
	}
}

// WithBaseURL sets the URL that relative request URLs are joined to.
func WithBaseURL(baseURL string) Option {
	return func(opts *clientOptions) {
		opts.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithUserAgent(userAgent string) Option {
	return func(opts *clientOptions) {
		opts.userAgent = userAgent
	}
}

// WithDefaultHeader adds a header sent with every request. Headers set on a
// Builder replace default headers with the same name.
func WithDefaultHeader(key, value string) Option {
	return func(opts *clientOptions) {
		if opts.headers == nil {
			opts.headers = make(http.Header)
		}
		opts.headers.Add(key, value)
	}
}

// WithTokenSource authenticates requests with a bearer token taken from ts.
// When a base URL is set, the token is only sent to its scheme and host;
// requests to other hosts, redirects included, go out without it.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(opts *clientOptions) {
		opts.tokenSource = ts
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

// NewClient returns a Client configured by options.
func NewClient(options ...Option) *Client {
	opts := &clientOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(opts)
	}

	hc := &http.Client{}
	if opts.httpClient != nil {
		clientCopy := *opts.httpClient
		hc = &clientCopy
	}
	if opts.transport != nil {
		hc.Transport = opts.transport
	}
	if opts.tokenSource != nil {
		base := hc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc.Transport = &oauth2.Transport{Source: opts.tokenSource, Base: base}
		if u, err := url.Parse(opts.baseURL); err == nil && u.Host != "" {
			hc.Transport = &hostScopedTransport{
				scheme: u.Scheme,
				host:   u.Host,
				authed: hc.Transport,
				base:   base,
			}
		}
	}

	c := &Client{
		httpClient:     hc,
		baseURL:        opts.baseURL,
		userAgent:      opts.userAgent,
		defaultHeaders: make(http.Header),
		logger:         opts.logger,
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.defaultHeaders.Set("User-Agent", c.userAgent)
	c.defaultHeaders.Set("Accept", "application/json")
	for k, v := range opts.headers {
		c.defaultHeaders[k] = append([]string(nil), v...)
	}
	return c
}

// BaseURL returns the URL relative request URLs are joined to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the *http.Client used to send requests.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *Client) Get(url string) *Builder {
	return c.Request(http.MethodGet, url)
}

func (c *Client) Post(url string) *Builder {
	return c.Request(http.MethodPost, url)
}

func (c *Client) Put(url string) *Builder {
	return c.Request(http.MethodPut, url)
}

func (c *Client) Patch(url string) *Builder {
	return c.Request(http.MethodPatch, url)
}

func (c *Client) Delete(url string) *Builder {
	return c.Request(http.MethodDelete, url)
}

func (c *Client) Head(url string) *Builder {
	return c.Request(http.MethodHead, url)
}

// Request starts building a request with the given method. url may be
// absolute or relative to the Client's base URL.
func (c *Client) Request(method, url string) *Builder {
	b := &Builder{
		client: c,
		method: strings.ToUpper(strings.TrimSpace(method)),
		header: c.defaultHeaders.Clone(),
	}
	b.url, b.err = c.resolveURL(url)
	if b.err == nil && !validMethod(b.method) {
		b.err = errInvalidMethod(method)
	}
	return b
}

// hostScopedTransport sends requests for scheme://host through authed and
// every other request through base.
type hostScopedTransport struct {
	scheme string
	host   string
	authed http.RoundTripper
	base   http.RoundTripper
}

func (t *hostScopedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if strings.EqualFold(req.URL.Scheme, t.scheme) && strings.EqualFold(req.URL.Host, t.host) {
		return t.authed.RoundTrip(req)
	}
	return t.base.RoundTrip(req)
}
