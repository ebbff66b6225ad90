// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"alphastocks/cli/internal/app"
	"alphastocks/cli/internal/auth"

	"github.com/spf13/cobra"
)

// logoutCmd ends the session on the gateway and removes it from this machine.
// The local session is removed even when the gateway cannot be reached.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and remove it from the keychain",
	Long: `The logout command asks the Alpha Stocks gateway to end the current session and
removes the session marker, cookie and username from the OS keychain.

If the gateway cannot be reached the local session is still removed and a
warning is printed.`,

	RunE: withApp(runLogout),
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(ctx context.Context, a *app.App, out io.Writer, _ []string) error {
	err := a.Auth.Logout(ctx)
	switch {
	case errors.Is(err, auth.ErrLogoutFailed):
		fmt.Fprintln(out, "⚠️  "+err.Error())
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintln(out, "✅ Logged out")
	return nil
}
