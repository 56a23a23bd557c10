// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
)

var _ http.RoundTripper = &VerboseTransport{}

const (
	// VerbosityRequest dumps outgoing requests.
	VerbosityRequest = 1
	// VerbosityResponse dumps outgoing requests and their responses.
	VerbosityResponse = 2
)

// VerboseTransport is a RoundTripper that dumps request and response
// based on the Verbosity.
// Verbosity >= 1 --> Dumps request
// Verbosity >= 2 --> Dumps response
type VerboseTransport struct {
	Transport http.RoundTripper
	Out       io.Writer
	Verbosity int
}

func (t *VerboseTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	out := t.Out
	if out == nil {
		out = io.Discard
	}

	if t.Verbosity >= VerbosityRequest {
		requestDump, err := httputil.DumpRequest(req, true)
		if err != nil {
			return nil, err
		}
		writeDump(out, "Request", req.URL.RequestURI(), requestDump)
	}

	response, err := transport.RoundTrip(req)

	if t.Verbosity >= VerbosityResponse && response != nil {
		responseDump, errDump := httputil.DumpResponse(response, true)
		if errDump != nil {
			response.Body.Close()
			return nil, errDump
		}
		writeDump(out, "Response", req.URL.RequestURI(), responseDump)
	}

	return response, err
}

func writeDump(out io.Writer, kind, uri string, dump []byte) {
	fmt.Fprintf(out, "*************************** <%s uri=%q> **********************************\n", kind, uri)
	fmt.Fprint(out, string(dump))
	if len(dump) == 0 || dump[len(dump)-1] != '\n' {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "*************************** </%s uri=%q> **********************************\n", kind, uri)
}
