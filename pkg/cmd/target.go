// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tsuru/prettyjson/internal/cmdctx"
	"github.com/tsuru/prettyjson/internal/config"
	"github.com/tsuru/prettyjson/pkg/printer"
	"github.com/tsuru/tablecli"
)

func newTargetCmd(cmdCtx *cmdctx.Context) *cobra.Command {
	targetCmd := &cobra.Command{
		Use:   "target",
		Short: "manage the base URLs relative request URLs are resolved against",
		Long: `A target is a labeled base URL. Relative URLs given to "send" are resolved
against the current target. The --target flag overrides it for a single call.
`,
		Args: cobra.ExactArgs(0),
	}
	targetCmd.AddCommand(
		newTargetAddCmd(cmdCtx),
		newTargetListCmd(cmdCtx),
		newTargetSetCmd(cmdCtx),
	)
	return targetCmd
}

func newTargetAddCmd(cmdCtx *cmdctx.Context) *cobra.Command {
	var setCurrent bool
	var token string
	addCmd := &cobra.Command{
		Use:   "add LABEL URL",
		Short: "save a target under a label",
		Long: `add saves a target under a label. With --token, the bearer token is saved
for this target only and sent on requests to its host.
`,
		Example: `$ prettyjson target add local http://localhost:8080 --set-current
$ prettyjson target add prod https://api.example.com --token "$API_TOKEN"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return targetAddCmdRun(cmdCtx, args[0], args[1], token, setCurrent)
		},
		Args: cobra.ExactArgs(2),
	}
	addCmd.Flags().BoolVarP(&setCurrent, "set-current", "s", false, "also set it as the current target")
	addCmd.Flags().StringVar(&token, "token", "", "bearer token sent to this target")
	return addCmd
}

func targetAddCmdRun(cmdCtx *cmdctx.Context, label, url, token string, setCurrent bool) error {
	if err := config.SaveTarget(cmdCtx.Fs, label, url); err != nil {
		return err
	}
	if token != "" {
		if err := config.SaveTokenToFs(cmdCtx.Fs, label, token); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmdCtx.Stdout, "New target %s -> %s added to target list\n", label, url)
	if setCurrent {
		return targetSetCmdRun(cmdCtx, label)
	}
	return nil
}

func newTargetListCmd(cmdCtx *cmdctx.Context) *cobra.Command {
	output := printer.Raw
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list saved targets, the current one is marked with *",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return targetListCmdRun(cmdCtx, output)
		},
		Args: cobra.ExactArgs(0),
	}
	listCmd.Flags().VarP(&output, "output", "o", "output format: raw (table), json, compact-json, yaml")
	return listCmd
}

func targetListCmdRun(cmdCtx *cmdctx.Context, output printer.OutputFormat) error {
	targets, err := config.ListTargets(cmdCtx.Fs)
	if err != nil {
		return err
	}
	if output != printer.Raw {
		return printer.Print(cmdCtx.Stdout, targets, output)
	}

	tbl := tablecli.NewTable()
	tbl.Headers = tablecli.Row{"", "Label", "URL"}
	for _, t := range targets {
		mark := ""
		if t.Current {
			mark = "*"
		}
		tbl.AddRow(tablecli.Row{mark, t.Label, t.URL})
	}
	fmt.Fprint(cmdCtx.Stdout, tbl.String())
	return nil
}

func newTargetSetCmd(cmdCtx *cmdctx.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "set LABEL|URL",
		Short: "set the current target",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return targetSetCmdRun(cmdCtx, args[0])
		},
		Args: cobra.ExactArgs(1),
	}
}

func targetSetCmdRun(cmdCtx *cmdctx.Context, labelOrURL string) error {
	target, err := config.GetTargetURL(cmdCtx.Fs, labelOrURL)
	if err != nil {
		return err
	}
	if err = config.SaveTargetAsCurrent(cmdCtx.Fs, target); err != nil {
		return err
	}
	if err = switchTarget(cmdCtx, target); err != nil {
		return err
	}
	fmt.Fprintf(cmdCtx.Stdout, "New target is %s -> %s\n", labelOrURL, target)
	return nil
}
