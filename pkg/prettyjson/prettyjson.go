// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package prettyjson sets the body of an outgoing HTTP request to the
// indented ("pretty") JSON representation of a value.
//
// Request builders usually ship a JSON helper that always emits compact
// JSON. Attach does the same job with human readable output, keeping the
// builder's error convention: a value that cannot be serialized does not
// fail at the call site, it is stored in the builder and reported when the
// request is built or sent.
//
//	resp, err := client.Post("/kv/settings").
//		PrettyJSON(map[string]string{"lang": "go"}).
//		Send(ctx)
package prettyjson

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ContentType is the value of the Content-Type header set by Attach.
const ContentType = "application/json"

const indent = "  "

// Builder is implemented by fluent request builders that carry a deferred
// error. Every method returns the builder itself.
type Builder[B any] interface {
	Body(body []byte) B
	Header(key, value string) B
	WithError(err error) B
}

// Marshal returns the indented JSON encoding of v.
func Marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", indent)
}

// Attach sets the body of b to the pretty JSON serialization of v and the
// Content-Type header to application/json.
//
// When v cannot be serialized the body and headers are left untouched and
// the error is stored in b, so it is returned when the request is sent.
func Attach[B Builder[B]](b B, v any) B {
	body, err := Marshal(v)
	if err != nil {
		return b.WithError(errors.Wrap(err, "error converting to json"))
	}
	return b.Body(body).Header("Content-Type", ContentType)
}
