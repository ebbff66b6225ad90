package cmd

import (
	"context"
	"fmt"
	"io"

	"alphastocks/cli/internal/app"

	"github.com/spf13/cobra"
)

// whoamiCmd reports whether this machine holds a session.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show current authentication state",
	Long: `The whoami command reports whether a session is stored on this machine and,
for username logins, which user it belongs to. It does not contact the gateway;
an expired session is detected on the next call that needs it.`,

	RunE: withApp(runWhoAmI),
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoAmI(_ context.Context, a *app.App, out io.Writer, _ []string) error {
	if !a.Auth.IsLoggedIn() {
		fmt.Fprintln(out, "🔒 You're not logged in yet!")
		fmt.Fprintln(out, "   Run 'alphastocks login' to get started.")
		return nil
	}
	if name := a.Auth.Username(); name != "" {
		fmt.Fprintf(out, "👤 Current user: %s\n", name)
		return nil
	}
	fmt.Fprintln(out, "👤 Signed in through single sign-on")
	return nil
}
