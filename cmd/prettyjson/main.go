// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "github.com/tsuru/prettyjson/pkg/cmd"

var (
	version = "dev"
	commit  = ""
	dateStr = ""
)

func main() {
	cmd.Execute(version, commit, dateStr)
}
