// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Alpha Stocks client.
// It implements sign-in, portfolio, stock and order subcommands plus an
// interactive shell using the Cobra CLI framework, and renders results with
// pterm tables and spinners.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"alphastocks/cli/internal/app"
	"alphastocks/cli/internal/auth"
	"alphastocks/cli/internal/logging"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	verbose     bool
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "alphastocks",
	Short:         "Alpha Stocks trading client",
	Long:          `Alpha Stocks is a command-line trading client. Sign in through your identity provider, search stocks, review your portfolio and place orders.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			_ = os.Setenv(logging.EnvVerbose, "1")
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "alphastocks %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError("", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default $XDG_CONFIG_HOME/alphastocks/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version")
}

// runFunc is the body of a command that needs the application.
type runFunc func(ctx context.Context, a *app.App, out io.Writer, args []string) error

// newApp builds the application for a command invocation.
func newApp(browser auth.Browser) (*app.App, error) {
	return app.New(app.Options{ConfigPath: configPath, Browser: browser})
}

// withApp adapts fn to cobra, building the application, printing modal
// notices while fn runs, and closing the application afterwards.
func withApp(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(auth.BrowserFunc(openBrowser))
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		defer watchNotices(a, out).Unsubscribe()
		return fn(cmd.Context(), a, out, args)
	}
}
