// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsuru/prettyjson/internal/cmdctx"
	"github.com/tsuru/prettyjson/internal/config"
	tsuruerr "github.com/tsuru/tsuru/errors"
)

type received struct {
	method      string
	path        string
	contentType string
	header      http.Header
	body        string
}

func newRecordingServer(t *testing.T, status int, response string) (*httptest.Server, *received) {
	rec := &received{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.contentType = r.Header.Get("Content-Type")
		rec.header = r.Header.Clone()
		rec.body = string(body)
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(server.Close)
	return server, rec
}

func runCmd(t *testing.T, cmdCtx *cmdctx.Context, args ...string) error {
	color.NoColor = true
	rootCmd := NewRootCmd(viper.New(), cmdCtx)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func stdout(cmdCtx *cmdctx.Context) string {
	return cmdCtx.Stdout.(*strings.Builder).String()
}

func stderr(cmdCtx *cmdctx.Context) string {
	return cmdCtx.Stderr.(*strings.Builder).String()
}

func TestNewSendCmds(t *testing.T) {
	cmdCtx := cmdctx.ContextWithConfig(nil)
	assert.NotNil(t, newSendCmd(cmdCtx))
	assert.Equal(t, "post", newPostCmd(cmdCtx).Name())
	assert.Equal(t, "put", newPutCmd(cmdCtx).Name())
	assert.Equal(t, "patch", newPatchCmd(cmdCtx).Name())
}

func TestSendCmdPrettyJSON(t *testing.T) {
	server, rec := newRecordingServer(t, http.StatusCreated, `{"ok":true,"id":1}`)
	cmdCtx := cmdctx.ContextWithConfig(nil)
	cmdCtx.SetTargetURL(server.URL)

	err := runCmd(t, cmdCtx, "send", "post", "/items", "-d", `{"b":1,"a":[true]}`)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/items", rec.path)
	assert.Equal(t, "application/json", rec.contentType)
	assert.Equal(t, "Bearer sometoken", rec.header.Get("Authorization"))
	assert.Equal(t, "prettyjson-client:testing", rec.header.Get("User-Agent"))
	assert.Equal(t, "{\n  \"a\": [\n    true\n  ],\n  \"b\": 1\n}", rec.body)

	assert.Equal(t, "{\n  \"id\": 1,\n  \"ok\": true\n}\n", stdout(cmdCtx))
	assert.Equal(t, "201 Created\n", stderr(cmdCtx))
}

func TestSendCmdShortcuts(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			server, rec := newRecordingServer(t, http.StatusOK, "")
			cmdCtx := cmdctx.ContextWithConfig(nil)
			cmdCtx.SetTargetURL(server.URL)

			err := runCmd(t, cmdCtx, strings.ToLower(method), "/items/1", "-d", `{"name":"item"}`)
			require.NoError(t, err)
			assert.Equal(t, method, rec.method)
			assert.Equal(t, "{\n  \"name\": \"item\"\n}", rec.body)
			assert.Equal(t, "", stdout(cmdCtx))
			assert.Equal(t, "200 OK\n", stderr(cmdCtx))
		})
	}
}

func TestSendCmdCompact(t *testing.T) {
	server, rec := newRecordingServer(t, http.StatusOK, "")
	cmdCtx := cmdctx.ContextWithConfig(nil)
	cmdCtx.SetTargetURL(server.URL)

	err := runCmd(t, cmdCtx, "put", "/items/1", "--compact", "-d", `{"b": 1, "a": [true]}`)
	require.NoError(t, err)
	assert.Equal(t, "application/json", rec.contentType)
	assert.Equal(t, `{"a":[true],"b":1}`, rec.body)
}

func TestSendCmdYAMLFile(t *testing.T) {
	server, rec := newRecordingServer(t, http.StatusOK, "")
	cmdCtx := cmdctx.ContextWithConfig(nil)
	cmdCtx.SetTargetURL(server.URL)
	require.NoError(t, afero.WriteFile(cmdCtx.Fs, "item.yaml", []byte("name: item\ntags:\n- a\n- b\n"), 0600))

	err := runCmd(t, cmdCtx, "post", "/items", "-f", "item.yaml")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"item\",\n  \"tags\": [\n    \"a\",\n    \"b\"\n  ]\n}", rec.body)
}

func TestSendCmdMissingFile(t *testing.T) {
	cmdCtx := cmdctx.ContextWithConfig(nil)
	err := runCmd(t, cmdCtx, "post", "/items", "-f", "missing.json")
	assert.ErrorContains(t, err, `error reading payload file "missing.json"`)
}

func TestSendCmdStdin(t *testing.T) {
	for _, args := range [][]string{
		{"post", "/items"},
		{"post", "/items", "-f", "-"},
	} {
		server, rec := newRecordingServer(t, http.StatusOK, "")
		cmdCtx := cmdctx.ContextWithConfig(nil)
		cmdCtx.SetTargetURL(server.URL)
		cmdCtx.Stdin = &cmdctx.FakeStdin{Reader: strings.NewReader("[1, 2]\n")}

		err := runCmd(t, cmdCtx, args...)
		require.NoError(t, err)
		assert.Equal(t, "[\n  1,\n  2\n]", rec.body, "args %v", args)
	}
}

func TestSendCmdWithoutPayload(t *testing.T) {
	server, rec := newRecordingServer(t, http.StatusNoContent, "")
	cmdCtx := cmdctx.ContextWithConfig(nil)
	cmdCtx.SetTargetURL(server.URL)

	err := runCmd(t, cmdCtx, "send", "DELETE", "/items/1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "", rec.contentType)
	assert.Equal(t, "", rec.body)
	assert.Equal(t, "204 No Content\n", stderr(cmdCtx))
}

func TestSendCmdHeaders(t *testing.T) {
	server, rec := newRecordingServer(t, http.StatusOK, "")
	cmdCtx := cmdctx.ContextWithConfig(nil)
	cmdCtx.SetTargetURL(server.URL)

	err := runCmd(t, cmdCtx, "post", "/items", "-d", "{}", "-H", "X-Request-Id: 42", "-H", "X-Empty:")
	require.NoError(t, err)
	assert.Equal(t, "42", rec.header.Get("X-Request-Id"))
	assert.Contains(t, rec.header, "X-Empty")
	assert.Equal(t, "{}", rec.body)
}

func TestSendCmdInvalidHeader(t *testing.T) {
	server, rec := newRecordingServer(t, http.StatusOK, "")
	cmdCtx := cmdctx.ContextWithConfig(nil)
	cmdCtx.SetTargetURL(server.URL)

	err := runCmd(t, cmdCtx, "post", "/items", "-H", "no-colon")
	assert.ErrorContains(t, err, `invalid header "no-colon", expected "Name: value"`)

	err = runCmd(t, cmdCtx, "post", "/items", "-H", "Bad Name: value")
	assert.ErrorContains(t, err, "invalid header name")
	assert.Equal(t, "", rec.method)
}

func TestSendCmdInvalidPayload(t *testing.T) {
	cmdCtx := cmdctx.ContextWithConfig(nil)
	err := runCmd(t, cmdCtx, "post", "/items", "-d", "{invalid")
	assert.ErrorContains(t, err, "payload is neither JSON nor YAML")
}

func TestSendCmdDataAndFileAreExclusive(t *testing.T) {
	cmdCtx := cmdctx.ContextWithConfig(nil)
	err := runCmd(t, cmdCtx, "post", "/items", "-d", "{}", "-f", "item.json")
	assert.ErrorContains(t, err, "none of the others can be")
}

func TestSendCmdOutputFormats(t *testing.T) {
	for _, test := range []struct {
		format   string
		expected string
	}{
		{"json", "{\n  \"id\": 1,\n  \"ok\": true\n}\n"},
		{"compact-json", `{"id":1,"ok":true}` + "\n"},
		{"yaml", "id: 1\nok: true\n"},
		{"raw", `{"ok":true,"id":1}` + "\n"},
	} {
		t.Run(test.format, func(t *testing.T) {
			server, _ := newRecordingServer(t, http.StatusOK, `{"ok":true,"id":1}`)
			cmdCtx := cmdctx.ContextWithConfig(nil)
			cmdCtx.SetTargetURL(server.URL)

			err := runCmd(t, cmdCtx, "post", "/items", "-o", test.format)
			require.NoError(t, err)
			assert.Equal(t, test.expected, stdout(cmdCtx))
		})
	}

	cmdCtx := cmdctx.ContextWithConfig(nil)
	err := runCmd(t, cmdCtx, "post", "/items", "-o", "xml")
	assert.ErrorContains(t, err, "must be one of: json, compact-json, yaml, raw")
}

func TestSendCmdFail(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusNotFound, "item not found")
	cmdCtx := cmdctx.ContextWithConfig(nil)
	cmdCtx.SetTargetURL(server.URL)

	err := runCmd(t, cmdCtx, "post", "/items/2", "-d", "{}")
	require.NoError(t, err)
	assert.Equal(t, "404 Not Found\n", stderr(cmdCtx))

	cmdCtx = cmdctx.ContextWithConfig(nil)
	cmdCtx.SetTargetURL(server.URL)
	err = runCmd(t, cmdCtx, "post", "/items/2", "-d", "{}", "--fail")
	require.Error(t, err)
	var httpErr *tsuruerr.HTTP
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	assert.Equal(t, "item not found", httpErr.Message)
	assert.Equal(t, "item not found\n", stdout(cmdCtx))
}

func TestSendCmdAbsoluteURLAndTargetFlag(t *testing.T) {
	server, rec := newRecordingServer(t, http.StatusOK, "")
	cmdCtx := cmdctx.ContextWithConfig(nil)

	err := runCmd(t, cmdCtx, "post", server.URL+"/absolute", "-d", "{}")
	require.NoError(t, err)
	assert.Equal(t, "/absolute", rec.path)

	require.NoError(t, runCmd(t, cmdCtx, "target", "add", "local", server.URL))
	err = runCmd(t, cmdCtx, "--target", "local", "post", "/relative", "-d", "{}")
	require.NoError(t, err)
	assert.Equal(t, "/relative", rec.path)
}

func TestSendCmdVerbose(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusOK, `{"ok":true}`)
	cmdCtx := cmdctx.ContextWithConfig(nil)
	cmdCtx.SetTargetURL(server.URL)

	err := runCmd(t, cmdCtx, "-v", "2", "post", "/items", "-d", `{"a":1}`)
	require.NoError(t, err)
	out := stdout(cmdCtx)
	assert.Contains(t, out, `<Request uri="/items">`)
	assert.Contains(t, out, "{\n  \"a\": 1\n}")
	assert.Contains(t, out, `<Response uri="/items">`)
}

func TestDecodePayload(t *testing.T) {
	for _, test := range []struct {
		raw        string
		hasPayload bool
		expected   string
	}{
		{"", false, "null"},
		{"  \n", false, "null"},
		{`{"n": 12345678901234567890}`, true, `{"n":12345678901234567890}`},
		{`"text"`, true, `"text"`},
		{"a: 1\nb: [x, y]\n", true, `{"a":1,"b":["x","y"]}`},
		{"- 1\n- 2.5\n", true, `[1,2.5]`},
	} {
		payload, hasPayload, err := decodePayload([]byte(test.raw))
		require.NoError(t, err, test.raw)
		assert.Equal(t, test.hasPayload, hasPayload, test.raw)
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		assert.Equal(t, test.expected, string(encoded), test.raw)
	}
}

func TestSendCmdTokenFollowsTarget(t *testing.T) {
	current, currentRec := newRecordingServer(t, http.StatusOK, "")
	other, otherRec := newRecordingServer(t, http.StatusOK, "")
	third, thirdRec := newRecordingServer(t, http.StatusOK, "")

	newCtx := func() *cmdctx.Context {
		cmdCtx := cmdctx.ContextWithConfig(nil)
		require.NoError(t, config.SaveTarget(cmdCtx.Fs, "current", current.URL))
		require.NoError(t, config.SaveTarget(cmdCtx.Fs, "other", other.URL))
		require.NoError(t, config.SaveTarget(cmdCtx.Fs, "third", third.URL))
		require.NoError(t, config.SaveTokenToFs(cmdCtx.Fs, "", "currenttoken"))
		require.NoError(t, config.SaveTokenToFs(cmdCtx.Fs, "current", "currenttoken"))
		require.NoError(t, config.SaveTokenToFs(cmdCtx.Fs, "other", "othertoken"))
		cmdCtx.SetTargetURL(current.URL)
		cmdCtx.SetToken("currenttoken")
		cmdCtx.TokenSetFromFS = true
		return cmdCtx
	}

	require.NoError(t, runCmd(t, newCtx(), "post", "/items", "-d", "{}"))
	assert.Equal(t, "Bearer currenttoken", currentRec.header.Get("Authorization"))

	require.NoError(t, runCmd(t, newCtx(), "--target", "other", "post", "/items", "-d", "{}"))
	assert.Equal(t, "Bearer othertoken", otherRec.header.Get("Authorization"))

	require.NoError(t, runCmd(t, newCtx(), "--target", "third", "post", "/items", "-d", "{}"))
	assert.Equal(t, "", thirdRec.header.Get("Authorization"))

	cmdCtx := newCtx()
	require.NoError(t, runCmd(t, cmdCtx, "post", third.URL+"/absolute", "-d", "{}"))
	assert.Equal(t, "/absolute", thirdRec.path)
	assert.Equal(t, "", thirdRec.header.Get("Authorization"))
}

func TestSendCmdTargetFlagKeepsExplicitToken(t *testing.T) {
	server, rec := newRecordingServer(t, http.StatusOK, "")
	cmdCtx := cmdctx.ContextWithConfig(nil)
	require.NoError(t, config.SaveTarget(cmdCtx.Fs, "other", server.URL))

	require.NoError(t, runCmd(t, cmdCtx, "--target", "other", "post", "/items", "-d", "{}"))
	assert.Equal(t, "Bearer sometoken", rec.header.Get("Authorization"))
}
