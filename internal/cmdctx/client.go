// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdctx

import (
	"crypto/tls"
	"net/http"

	"github.com/tsuru/prettyjson/pkg/request"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/oauth2"
)

// VerbosityDebugLog enables the client debug log on Stderr, in addition to
// the request/response dumps.
const VerbosityDebugLog = 3

// Client returns a request.Client targeting TargetURL, authenticated with
// Token on the target host only, and dumping traffic to Stdout according to
// Verbosity.
func (c *Context) Client() *request.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if c.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	opts := []request.Option{
		request.WithBaseURL(c.TargetURL()),
		request.WithUserAgent(c.UserAgent),
		request.WithTransport(&request.VerboseTransport{
			Transport: transport,
			Out:       c.Stdout,
			Verbosity: c.Verbosity(),
		}),
		request.WithLogger(c.Logger()),
	}
	// The token belongs to the target; request.Client keeps it off other hosts.
	if token := c.Token(); token != "" && c.TargetURL() != "" {
		opts = append(opts, request.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})))
	}
	return request.NewClient(opts...)
}

// Logger returns a development logger writing to Stderr when Verbosity is
// at least VerbosityDebugLog, and a no-op logger otherwise.
func (c *Context) Logger() *zap.Logger {
	if c.Verbosity() < VerbosityDebugLog || c.Stderr == nil {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(c.Stderr),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}
