// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package request

import (
	"crypto/x509"
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	tsuruerr "github.com/tsuru/tsuru/errors"
	"golang.org/x/net/http/httpguts"
)

var (
	errNoBaseURL  = errors.New("relative url used without a base url")
	schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
)

func errInvalidMethod(method string) error {
	return errors.Errorf("invalid method %q", method)
}

func validMethod(method string) bool {
	if method == "" {
		return false
	}
	for _, r := range method {
		if !httpguts.IsTokenRune(r) {
			return false
		}
	}
	return true
}

func validHeader(key, value string) error {
	if !httpguts.ValidHeaderFieldName(key) {
		return errors.Errorf("invalid header name %q", key)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return errors.Errorf("invalid value for header %q", key)
	}
	return nil
}

func (c *Client) resolveURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !schemePattern.MatchString(rawURL) {
		if c.baseURL == "" {
			return "", errors.Wrapf(errNoBaseURL, "invalid url %q", rawURL)
		}
		if !strings.HasPrefix(rawURL, "/") {
			rawURL = "/" + rawURL
		}
		rawURL = strings.TrimRight(c.baseURL, "/") + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(err, "invalid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.Errorf("invalid url %q: unsupported scheme %q", rawURL, u.Scheme)
	}
	if u.Host == "" {
		return "", errors.Errorf("invalid url %q: missing host", rawURL)
	}
	return u.String(), nil
}

type errWrapped interface {
	Unwrap() error
}

type errCauser interface {
	Cause() error
}

// UnwrapErr returns the innermost error of err, following pkg/errors causes,
// Unwrap chains and *url.Error.
func UnwrapErr(err error) error {
	for err != nil {
		var possibleErr error
		if cause, ok := err.(errCauser); ok {
			possibleErr = cause.Cause()
		} else if u, ok := err.(errWrapped); ok {
			possibleErr = u.Unwrap()
		} else if urlErr, ok := err.(*url.Error); ok {
			possibleErr = urlErr.Err
		} else {
			break
		}

		if possibleErr == nil {
			break
		}
		err = possibleErr
	}

	return err
}

// detectClientError annotates errors returned by the http.Client with the
// host the request was sent to.
func detectClientError(err error, host string) error {
	if err == nil {
		return nil
	}
	switch e := UnwrapErr(err).(type) {
	case *tsuruerr.HTTP:
		return errors.Wrapf(e, "error received from server (%s), %d", host, e.Code)
	case x509.UnknownAuthorityError:
		return errors.Wrapf(err, "failed to connect to server (%s), set PRETTYJSON_INSECURE_SKIP_VERIFY=true to skip certificate verification", host)
	}
	return errors.Wrapf(err, "failed to connect to server (%s)", host)
}
