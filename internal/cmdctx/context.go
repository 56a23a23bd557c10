// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdctx

import (
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

type Context struct {
	ContextOpts
	TokenSetFromFS bool
}

type ContextOpts struct {
	// InsecureSkipVerify will skip TLS verification
	InsecureSkipVerify bool
	// Fs is the filesystem used by the client
	Fs afero.Fs
	// Viper is an instance of the viper.Viper configuration
	Viper *viper.Viper

	UserAgent string

	Stdout io.Writer
	Stderr io.Writer
	Stdin  DescriptorReader
}

func (c *Context) Verbosity() int {
	return c.Viper.GetInt("verbosity")
}
func (c *Context) TargetURL() string {
	return c.Viper.GetString("target")
}
func (c *Context) Token() string {
	return c.Viper.GetString("token")
}
func (c *Context) SetVerbosity(value int) {
	c.Viper.Set("verbosity", value)
}
func (c *Context) SetTargetURL(value string) {
	c.Viper.Set("target", value)
}
func (c *Context) SetToken(value string) {
	c.Viper.Set("token", value)
}

type DescriptorReader interface {
	Read(p []byte) (n int, err error)
	Fd() uintptr
}

func DefaultTestingContextOptions(vip *viper.Viper) *ContextOpts {
	return &ContextOpts{
		InsecureSkipVerify: false,
		Fs:                 afero.NewMemMapFs(),
		Viper:              vip,

		UserAgent: "prettyjson-client:testing",

		Stdout: &strings.Builder{},
		Stderr: &strings.Builder{},
		Stdin:  &FakeStdin{strings.NewReader("")},
	}
}

// ContextWithConfig returns a new Context with the given configuration.
// A nil opts returns a Context suited for tests.
func ContextWithConfig(opts *ContextOpts) *Context {
	if opts == nil {
		// defaults for testing
		vip := viper.New()
		vip.Set("target", "http://example.local:8080")
		vip.Set("token", "sometoken")
		vip.Set("verbosity", 0)
		opts = DefaultTestingContextOptions(vip)
	}

	return &Context{
		ContextOpts: *opts,
	}
}

var _ DescriptorReader = &FakeStdin{}

type FakeStdin struct {
	Reader io.Reader
}

func (f *FakeStdin) Read(p []byte) (n int, err error) {
	return f.Reader.Read(p)
}
func (f *FakeStdin) Fd() uintptr {
	return ^uintptr(0)
}
