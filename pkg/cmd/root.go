// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tsuru/prettyjson/internal/cmdctx"
	"github.com/tsuru/prettyjson/internal/config"
)

var (
	version  cmdVersion
	commands = []func(*cmdctx.Context) *cobra.Command{
		newSendCmd,
		newPostCmd,
		newPutCmd,
		newPatchCmd,
		newTargetCmd,
	}
)

type cmdVersion struct {
	Version string
	Commit  string
	Date    string
}

func (v *cmdVersion) String() string {
	if v.Version == "" {
		v.Version = "dev"
	}
	if v.Commit == "" && v.Date == "" {
		return v.Version
	}
	return fmt.Sprintf("%s (%s - %s)", v.Version, v.Commit, v.Date)
}

// Execute will create the cli with all subcommands and run it
func Execute(_version, _commit, _dateStr string) {
	version = cmdVersion{_version, _commit, _dateStr}
	rootCmd := NewRootCmd(viper.GetViper(), nil)
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func NewRootCmd(vip *viper.Viper, cmdCtx *cmdctx.Context) *cobra.Command {
	vip = preSetupViper(vip)
	if cmdCtx == nil {
		cmdCtx = NewProductionContext(vip, afero.NewOsFs())
	}
	rootCmd := newBareRootCmd(cmdCtx)
	setupPFlagsAndCommands(rootCmd, cmdCtx)
	return rootCmd
}

func newBareRootCmd(cmdCtx *cmdctx.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Version: version.String(),
		Use:     "prettyjson",
		Short:   "Send human-readable JSON payloads to HTTP APIs",
		Long: `prettyjson sends JSON (or YAML) payloads to HTTP endpoints as indented
JSON with "Content-Type: application/json", and prints the response.

Relative URLs are resolved against the current target (see "prettyjson target").
`,
		PersistentPreRunE: rootPersistentPreRun(cmdCtx),
	}

	rootCmd.SetVersionTemplate(`{{printf "prettyjson version: %s" .Version}}` + "\n")
	rootCmd.SetIn(cmdCtx.Stdin)
	rootCmd.SetOut(cmdCtx.Stdout)
	rootCmd.SetErr(cmdCtx.Stderr)

	return rootCmd
}

func rootPersistentPreRun(cmdCtx *cmdctx.Context) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if l := cmd.Flags().Lookup("target"); l != nil && l.Value.String() != "" {
			target, err := config.GetTargetURL(cmdCtx.Fs, l.Value.String())
			if err != nil {
				return err
			}
			if err = switchTarget(cmdCtx, target); err != nil {
				return err
			}
		}
		if l := cmd.Flags().Lookup("verbosity"); l != nil && l.Changed {
			if v, err := cmd.Flags().GetInt("verbosity"); err == nil {
				cmdCtx.SetVerbosity(v)
			}
		}
		return nil
	}
}

// switchTarget sets target as the target URL. A token read from the config
// files belongs to the previous target, so it is replaced by the token saved
// for the new target's label, or dropped.
func switchTarget(cmdCtx *cmdctx.Context, target string) error {
	if target == cmdCtx.TargetURL() {
		return nil
	}
	cmdCtx.SetTargetURL(target)
	if !cmdCtx.TokenSetFromFS {
		return nil
	}
	token := ""
	if label, err := config.GetLabelForTargetURL(cmdCtx.Fs, target); err == nil {
		if token, err = config.GetLabelTokenFromFs(cmdCtx.Fs, label); err != nil {
			return err
		}
	}
	cmdCtx.SetToken(token)
	return nil
}

// preSetupViper prepares viper for being used by NewProductionContext()
func preSetupViper(vip *viper.Viper) *viper.Viper {
	if vip == nil {
		vip = viper.New()
	}
	vip.SetEnvPrefix("prettyjson")
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv() // read in environment variables that match

	if colorDisabled(vip) {
		color.NoColor = true
	}
	return vip
}

func colorDisabled(vip *viper.Viper) bool {
	// https://no-color.org/
	if _, nocolor := os.LookupEnv("NO_COLOR"); nocolor {
		return true
	}
	if runtime.GOOS == "windows" && os.Getenv("WT_SESSION") == "" {
		return true
	}
	if os.Getenv("TERM") == "dumb" {
		return true
	}
	return vip.GetBool("disable-colors")
}

// setupPFlagsAndCommands reads in config file and ENV variables if set.
func setupPFlagsAndCommands(rootCmd *cobra.Command, cmdCtx *cmdctx.Context) {
	// Persistent Flags.
	// !!! Double bind them inside PersistentPreRun() !!!
	rootCmd.PersistentFlags().String("target", "", "Base URL or label of a saved target")
	cmdCtx.Viper.BindPFlag("target", rootCmd.PersistentFlags().Lookup("target"))
	rootCmd.PersistentFlags().IntP("verbosity", "v", 0, "Verbosity level: 1 => print HTTP requests; 2 => print HTTP requests/responses; 3 => debug log")
	cmdCtx.Viper.BindPFlag("verbosity", rootCmd.PersistentFlags().Lookup("verbosity"))

	for _, cmd := range commands {
		rootCmd.AddCommand(cmd(cmdCtx))
	}
}

// readConfigFile loads ~/.prettyjson/.prettyjson.yaml into vip, when present.
func readConfigFile(vip *viper.Viper, fs afero.Fs) {
	vip.SetFs(fs)
	vip.AddConfigPath(config.ConfigPath)
	vip.SetConfigType("yaml")
	vip.SetConfigName(".prettyjson")

	if err := vip.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Error using config file:", err)
		}
	}
}

// NewProductionContext builds the Context used by the prettyjson binary.
// A missing current target is not an error: absolute URLs still work.
func NewProductionContext(vip *viper.Viper, fs afero.Fs) *cmdctx.Context {
	var err error
	var tokenSetFromFS bool

	readConfigFile(vip, fs)

	// Get target
	target := vip.GetString("target")
	if target == "" {
		target, _ = config.GetCurrentTargetFromFs(fs)
	}
	if target != "" {
		target, err = config.GetTargetURL(fs, target)
		cobra.CheckErr(err)
	}
	vip.Set("target", target)

	// Get token. The default token file belongs to the current target only.
	token := vip.GetString("token")
	if token == "" {
		if target != "" {
			current, _ := config.GetCurrentTargetFromFs(fs)
			label, _ := config.GetLabelForTargetURL(fs, target)
			if target == current {
				token, err = config.GetTokenFromFs(fs, label)
			} else {
				token, err = config.GetLabelTokenFromFs(fs, label)
			}
			cobra.CheckErr(err)
		}
		tokenSetFromFS = true
		vip.Set("token", token)
	}

	cmdCtx := cmdctx.ContextWithConfig(productionOpts(fs, vip))
	cmdCtx.TokenSetFromFS = tokenSetFromFS
	return cmdCtx
}

func productionOpts(fs afero.Fs, vip *viper.Viper) *cmdctx.ContextOpts {
	return &cmdctx.ContextOpts{
		InsecureSkipVerify: vip.GetBool("insecure-skip-verify"),
		Fs:                 fs,
		Viper:              vip,

		UserAgent: "prettyjson-client:" + version.Version,

		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
