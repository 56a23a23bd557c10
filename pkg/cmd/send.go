// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fatih/color"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tsuru/prettyjson/internal/cmdctx"
	"github.com/tsuru/prettyjson/pkg/printer"
	"golang.org/x/term"
)

type sendOptions struct {
	data    string
	file    string
	headers []string
	compact bool
	fail    bool
	output  printer.OutputFormat
}

func newSendCmd(cmdCtx *cmdctx.Context) *cobra.Command {
	opts := &sendOptions{output: printer.PrettyJSON}
	sendCmd := &cobra.Command{
		Use:   "send METHOD URL",
		Short: "send a request with an indented JSON body",
		Long: `send serializes the payload as indented JSON, sets "Content-Type: application/json"
and sends it with the given method.

The payload is read from --data, from --file (use "-" for stdin) or from stdin
when it is not a terminal. YAML payloads are converted to JSON.
A request without payload is sent without body.
`,
		Example: `$ prettyjson send POST https://api.example.com/items -d '{"name": "item"}'
$ prettyjson send PUT /items/1 -f item.yaml -H 'X-Request-Id: 42'
$ echo '{"a": 1}' | prettyjson send PATCH /items/1 -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCmdRun(cmdCtx, cmd, strings.ToUpper(args[0]), args[1], opts)
		},
		Args: cobra.ExactArgs(2),
	}
	addSendFlags(sendCmd, opts)
	return sendCmd
}

func newPostCmd(cmdCtx *cmdctx.Context) *cobra.Command {
	return newMethodCmd(cmdCtx, http.MethodPost)
}

func newPutCmd(cmdCtx *cmdctx.Context) *cobra.Command {
	return newMethodCmd(cmdCtx, http.MethodPut)
}

func newPatchCmd(cmdCtx *cmdctx.Context) *cobra.Command {
	return newMethodCmd(cmdCtx, http.MethodPatch)
}

func newMethodCmd(cmdCtx *cmdctx.Context, method string) *cobra.Command {
	opts := &sendOptions{output: printer.PrettyJSON}
	name := strings.ToLower(method)
	methodCmd := &cobra.Command{
		Use:     name + " URL",
		Short:   fmt.Sprintf("shortcut for \"send %s URL\"", method),
		Example: fmt.Sprintf(`$ prettyjson %s /items -d '{"name": "item"}'`, name),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCmdRun(cmdCtx, cmd, method, args[0], opts)
		},
		Args: cobra.ExactArgs(1),
	}
	addSendFlags(methodCmd, opts)
	return methodCmd
}

func addSendFlags(cmd *cobra.Command, opts *sendOptions) {
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "JSON or YAML payload")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", `file with the JSON or YAML payload ("-" for stdin)`)
	cmd.Flags().StringArrayVarP(&opts.headers, "header", "H", nil, `extra request header as "Name: value" (repeatable)`)
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "send the payload as compact JSON")
	cmd.Flags().BoolVar(&opts.fail, "fail", false, "return an error when the response status is 400 or greater")
	cmd.Flags().VarP(&opts.output, "output", "o", "response output format: json, compact-json, yaml, raw")
	cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return printer.OutputFormatCompletionHelp(), cobra.ShellCompDirectiveNoFileComp
	})
	cmd.MarkFlagsMutuallyExclusive("data", "file")
}

func sendCmdRun(cmdCtx *cmdctx.Context, cmd *cobra.Command, method, url string, opts *sendOptions) error {
	cmd.SilenceUsage = true

	payload, hasPayload, err := readPayload(cmdCtx, opts)
	if err != nil {
		return err
	}

	b := cmdCtx.Client().Request(method, url)
	for _, h := range opts.headers {
		key, value, found := strings.Cut(h, ":")
		if !found || strings.TrimSpace(key) == "" {
			return fmt.Errorf("invalid header %q, expected \"Name: value\"", h)
		}
		b = b.Header(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	if hasPayload {
		if opts.compact {
			b = b.JSON(payload)
		} else {
			b = b.PrettyJSON(payload)
		}
	}

	resp, err := b.Send(commandContext(cmd))
	if err != nil {
		return err
	}
	defer resp.Close()

	body, err := resp.Bytes()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmdCtx.Stderr, statusColor(resp.StatusCode).Sprint(resp.Status))
	if err = printer.PrintBody(cmdCtx.Stdout, body, opts.output); err != nil {
		return err
	}
	if opts.fail {
		return resp.ErrorForStatus()
	}
	return nil
}

// readPayload returns the decoded payload and whether there is one at all.
func readPayload(cmdCtx *cmdctx.Context, opts *sendOptions) (any, bool, error) {
	var raw []byte
	switch {
	case opts.data != "":
		raw = []byte(opts.data)
	case opts.file == "-":
		return readPayloadFrom(cmdCtx.Stdin)
	case opts.file != "":
		data, err := afero.ReadFile(cmdCtx.Fs, opts.file)
		if err != nil {
			return nil, false, errors.Wrapf(err, "error reading payload file %q", opts.file)
		}
		raw = data
	case cmdCtx.Stdin != nil && !term.IsTerminal(int(cmdCtx.Stdin.Fd())):
		return readPayloadFrom(cmdCtx.Stdin)
	}
	return decodePayload(raw)
}

func readPayloadFrom(r io.Reader) (any, bool, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, false, errors.Wrap(err, "error reading payload from stdin")
	}
	return decodePayload(raw)
}

// decodePayload parses JSON, or YAML converted to JSON. Numbers are kept as
// json.Number so they are sent exactly as written.
func decodePayload(raw []byte) (any, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false, nil
	}
	if !json.Valid(raw) {
		converted, err := yaml.YAMLToJSON(raw)
		if err != nil {
			return nil, false, errors.Wrap(err, "payload is neither JSON nor YAML")
		}
		raw = converted
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, false, errors.Wrap(err, "error decoding payload")
	}
	return payload, true, nil
}

func statusColor(code int) *color.Color {
	switch {
	case code >= 500:
		return color.New(color.FgRed, color.Bold)
	case code >= 400:
		return color.New(color.FgYellow, color.Bold)
	case code >= 300:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgGreen)
	}
}
