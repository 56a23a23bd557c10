// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prettyjson

import (
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Resty is Attach for resty requests.
//
// resty requests have no deferred error, so a serialization failure becomes
// a body whose first read returns the error. The failure is then reported by
// Execute (or Post, Put...) instead of here.
func Resty(r *resty.Request, v any) *resty.Request {
	body, err := Marshal(v)
	if err != nil {
		return r.SetBody(&failedBody{err: errors.Wrap(err, "error converting to json")})
	}
	return r.SetHeader("Content-Type", ContentType).SetBody(body)
}

type failedBody struct {
	err error
}

func (b *failedBody) Read(p []byte) (int, error) {
	return 0, b.err
}
