// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package printer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tsuru/prettyjson/pkg/prettyjson"
	"gopkg.in/yaml.v3"
)

type OutputFormat string

const (
	// every OutputType should be mapped inside Print()
	CompactJSON OutputFormat = "compact-json"
	PrettyJSON  OutputFormat = "json"
	YAML        OutputFormat = "yaml"
	Raw         OutputFormat = "raw"
)

var _ pflag.Value = (*OutputFormat)(nil)

func OutputFormatCompletionHelp() []string {
	return []string{
		CompactJSON.ToString() + "\toutput as compact JSON format (no newlines)",
		PrettyJSON.ToString() + "\toutput as JSON (PrettyJSON)",
		YAML.ToString() + "\toutput as YAML",
		Raw.ToString() + "\toutput the response body as received",
	}
}

func (o OutputFormat) ToString() string {
	return string(o)
}
func (o *OutputFormat) String() string {
	return string(*o)
}
func (o *OutputFormat) Set(v string) error {
	var err error
	*o, err = FormatAs(v)
	return err
}
func (o *OutputFormat) Type() string {
	return "OutputFormat"
}

func FormatAs(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "compact-json", "compactjson":
		return CompactJSON, nil
	case "json", "pretty-json", "prettyjson":
		return PrettyJSON, nil
	case "yaml":
		return YAML, nil
	case "raw":
		return Raw, nil
	default:
		return Raw, fmt.Errorf("must be one of: json, compact-json, yaml, raw")
	}
}

// Print will print the data in the given format.
// If the format is not supported, it will return an error.
func Print(out io.Writer, data any, format OutputFormat) error {
	switch format {
	case CompactJSON:
		return PrintJSON(out, data)
	case PrettyJSON:
		return PrintPrettyJSON(out, data)
	case YAML:
		return PrintYAML(out, data)
	case Raw:
		if data == nil {
			return nil
		}
		_, err := fmt.Fprintln(out, data)
		return err
	default:
		return fmt.Errorf("unknown format: %q", format)
	}
}

// PrintBody prints a response body. JSON bodies are decoded and printed in
// format; anything else, or the Raw format, is written unchanged.
// Numbers keep the digits they were received with.
func PrintBody(out io.Writer, body []byte, format OutputFormat) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	data, ok := decodeJSON(body)
	if format == Raw || !ok {
		_, err := out.Write(body)
		if err == nil && body[len(body)-1] != '\n' {
			_, err = fmt.Fprintln(out)
		}
		return err
	}
	return Print(out, data, format)
}

// decodeJSON decodes a single JSON value, numbers as json.Number.
func decodeJSON(body []byte) (any, bool) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var data any
	if err := decoder.Decode(&data); err != nil {
		return nil, false
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, false
	}
	return data, true
}

func PrintJSON(out io.Writer, data any) error {
	if data == nil {
		return nil
	}
	dataByte, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error converting to json: %w", err)
	}
	fmt.Fprintln(out, string(dataByte))
	return nil
}

func PrintPrettyJSON(out io.Writer, data any) error {
	if data == nil {
		return nil
	}
	dataByte, err := prettyjson.Marshal(data)
	if err != nil {
		return fmt.Errorf("error converting to json: %w", err)
	}
	fmt.Fprintln(out, string(dataByte))
	return nil
}

func PrintYAML(out io.Writer, data any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			// yaml.v3 panics a lot: https://github.com/go-yaml/yaml/issues/954
			err = fmt.Errorf("error converting to yaml (panic): %v", r)
		}
	}()

	if data == nil {
		return nil
	}
	dataByte, err := yaml.Marshal(yamlNumbers(data))
	if err != nil {
		return fmt.Errorf("error converting to yaml: %w", err)
	}
	_, err = out.Write(dataByte)
	return err
}

// yamlNumbers replaces json.Number values with scalar nodes, so they are
// written as YAML numbers with their original digits instead of strings.
func yamlNumbers(data any) any {
	switch v := data.(type) {
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(string(v), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(v)}
	case map[string]any:
		converted := make(map[string]any, len(v))
		for k, item := range v {
			converted[k] = yamlNumbers(item)
		}
		return converted
	case []any:
		converted := make([]any, len(v))
		for i, item := range v {
			converted[i] = yamlNumbers(item)
		}
		return converted
	}
	return data
}
