// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cezarsa/form"
	"github.com/pkg/errors"
	"github.com/tsuru/prettyjson/pkg/prettyjson"
	"go.uber.org/zap"
)

// Builder accumulates the pieces of a request until Build or Send.
//
// The first error found while building is kept and every later call
// becomes a no-op, so the error is the one returned by Build and Send.
// A Builder must not be used by more than one goroutine at a time.
type Builder struct {
	client  *Client
	method  string
	url     string
	header  http.Header
	query   url.Values
	body    []byte
	timeout time.Duration
	err     error
}

var _ prettyjson.Builder[*Builder] = (*Builder)(nil)

// Err returns the deferred error, if any.
func (b *Builder) Err() error {
	return b.err
}

// WithError stores err as the deferred error unless one is already set.
func (b *Builder) WithError(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Header sets a header, replacing any value with the same name.
func (b *Builder) Header(key, value string) *Builder {
	if b.err != nil {
		return b
	}
	if err := validHeader(key, value); err != nil {
		b.err = err
		return b
	}
	b.header.Set(key, value)
	return b
}

// Headers adds every value in h.
func (b *Builder) Headers(h http.Header) *Builder {
	for k, values := range h {
		for _, v := range values {
			if b.err != nil {
				return b
			}
			if err := validHeader(k, v); err != nil {
				b.err = err
				return b
			}
			b.header.Add(k, v)
		}
	}
	return b
}

// Query adds a query string parameter.
func (b *Builder) Query(key, value string) *Builder {
	if b.err != nil {
		return b
	}
	if b.query == nil {
		b.query = url.Values{}
	}
	b.query.Add(key, value)
	return b
}

func (b *Builder) BasicAuth(username, password string) *Builder {
	if b.err != nil {
		return b
	}
	req := http.Request{Header: make(http.Header)}
	req.SetBasicAuth(username, password)
	b.header.Set("Authorization", req.Header.Get("Authorization"))
	return b
}

func (b *Builder) BearerAuth(token string) *Builder {
	return b.Header("Authorization", "Bearer "+token)
}

// Timeout bounds the whole send, including reading the response headers.
func (b *Builder) Timeout(d time.Duration) *Builder {
	if b.err != nil {
		return b
	}
	b.timeout = d
	return b
}

// Body sets the raw request body.
func (b *Builder) Body(body []byte) *Builder {
	if b.err != nil {
		return b
	}
	b.body = body
	return b
}

// JSON sets the body to the compact JSON encoding of v and the Content-Type
// header to application/json.
func (b *Builder) JSON(v any) *Builder {
	if b.err != nil {
		return b
	}
	body, err := json.Marshal(v)
	if err != nil {
		return b.WithError(errors.Wrap(err, "error converting to json"))
	}
	return b.Body(body).Header("Content-Type", "application/json")
}

// PrettyJSON sets the body to the indented JSON encoding of v and the
// Content-Type header to application/json.
func (b *Builder) PrettyJSON(v any) *Builder {
	if b.err != nil {
		return b
	}
	return prettyjson.Attach(b, v)
}

// Form sets a application/x-www-form-urlencoded body. v is either
// url.Values or a struct encoded by github.com/cezarsa/form.
func (b *Builder) Form(v any) *Builder {
	if b.err != nil {
		return b
	}
	values, ok := v.(url.Values)
	if !ok {
		var err error
		values, err = form.EncodeToValues(v)
		if err != nil {
			return b.WithError(errors.Wrap(err, "error converting to form"))
		}
	}
	return b.Body([]byte(values.Encode())).Header("Content-Type", "application/x-www-form-urlencoded")
}

// Build returns the deferred error, if any, or the assembled *http.Request
// bound to ctx.
func (b *Builder) Build(ctx context.Context) (*http.Request, error) {
	if b.err != nil {
		return nil, b.err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	u := b.url
	if len(b.query) > 0 {
		parsed, err := url.Parse(u)
		if err != nil {
			return nil, errors.Wrap(err, "invalid url")
		}
		q := parsed.Query()
		for k, values := range b.query {
			for _, v := range values {
				q.Add(k, v)
			}
		}
		parsed.RawQuery = q.Encode()
		u = parsed.String()
	}

	var body io.Reader
	if b.body != nil {
		body = bytes.NewReader(b.body)
	}
	req, err := http.NewRequestWithContext(ctx, b.method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header = b.header.Clone()
	return req, nil
}

// Send builds the request and sends it with the Client. A response with an
// error status is not an error, see Response.ErrorForStatus.
func (b *Builder) Send(ctx context.Context) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cancel := context.CancelFunc(func() {})
	if b.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
	}
	req, err := b.Build(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	resp, err := b.client.do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.cancel = cancel
	return resp, nil
}

func (c *Client) do(req *http.Request) (*Response, error) {
	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		c.logger.Warn("request failed", append(fields, zap.Error(err))...)
		return nil, detectClientError(err, req.URL.Host)
	}
	c.logger.Debug("request sent", append(fields, zap.Int("status", httpResp.StatusCode))...)
	return &Response{Response: httpResp}, nil
}
