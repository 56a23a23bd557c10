// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	tsuruerr "github.com/tsuru/tsuru/errors"
)

// Response wraps the *http.Response returned by Send. The body is read at
// most once; Bytes, Text and JSON all close it.
type Response struct {
	*http.Response

	cancel context.CancelFunc
	body   []byte
	read   bool
}

// Bytes reads and closes the response body.
func (r *Response) Bytes() ([]byte, error) {
	if r.read {
		return r.body, nil
	}
	defer r.Close()
	body, err := io.ReadAll(r.Response.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading response body")
	}
	r.body = body
	r.read = true
	return body, nil
}

func (r *Response) Text() (string, error) {
	body, err := r.Bytes()
	return string(body), err
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	body, err := r.Bytes()
	if err != nil {
		return err
	}
	if err = json.Unmarshal(body, v); err != nil {
		return errors.Wrap(err, "error decoding json response")
	}
	return nil
}

// ErrorForStatus returns a *tsuruerr.HTTP when the status code is 400 or
// greater. The body, when not empty, is used as the error message.
func (r *Response) ErrorForStatus() error {
	if r.StatusCode < 400 {
		return nil
	}
	httpErr := &tsuruerr.HTTP{
		Code:    r.StatusCode,
		Message: r.Status,
	}
	if body, _ := r.Bytes(); len(body) > 0 {
		httpErr.Message = string(body)
	}
	return httpErr
}

// Close closes the body and releases the Builder's timeout, if any.
func (r *Response) Close() error {
	if r.cancel != nil {
		defer r.cancel()
	}
	if r.Response == nil || r.Response.Body == nil {
		return nil
	}
	return r.Response.Body.Close()
}
