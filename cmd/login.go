// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os/exec"
	"runtime"
	"time"

	"alphastocks/cli/internal/app"
	"alphastocks/cli/internal/auth"
	"alphastocks/cli/internal/callback"
	"alphastocks/cli/internal/nav"

	"atomicgo.dev/cursor"
	"github.com/spf13/cobra"
)

var (
	loginNoBrowser bool
	loginUsername  string
	loginTimeout   time.Duration
)

// loginCmd signs the user in. By default it sends the browser to the
// identity provider and waits for the redirect on the local callback
// address; --username uses the gateway's direct login instead.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in through your identity provider",
	Long: `The login command opens your browser at the identity provider's sign-in page
and waits for it to redirect back to this machine. The authorization code from
the redirect is exchanged with the Alpha Stocks gateway for a session, which is
kept in the OS keychain until you log out or the gateway ends it.

Use --no-browser to only print the sign-in link, or --username for gateways
that accept username login. If already logged in, nothing happens.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		var browser auth.Browser = auth.BrowserFunc(openBrowser)
		if loginNoBrowser {
			browser = nil
		}
		a, err := newApp(browser)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
		defer cancel()
		return runLogin(ctx, a, cmd.OutOrStdout(), loginUsername)
	},
}

func init() {
	loginCmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false, "Print the sign-in link instead of opening a browser")
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "Sign in with a username instead of the identity provider")
	loginCmd.Flags().DurationVar(&loginTimeout, "timeout", 5*time.Minute, "How long to wait for the sign-in to complete")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(ctx context.Context, a *app.App, out io.Writer, username string) error {
	defer a.Nav.Navigate(nav.Landing)

	if a.Auth.Authenticated() {
		fmt.Fprintln(out, "Already logged in")
		return nil
	}

	if username != "" {
		err := spin("Signing in", func() error { return a.Auth.LoginWithUsername(ctx, username) })
		if err != nil {
			return failure(a, err, "signing in")
		}
		fmt.Fprintln(out, getRandomLoginGreeting(username))
		return nil
	}

	recv, err := callback.Listen(a.Config.Dex.CallbackOrigin, a.Log)
	if err != nil {
		return err
	}
	defer recv.Close()

	authURL, err := a.Auth.LoginWithDex()
	fmt.Fprintln(out, "Open this link to complete login:")
	fmt.Fprintf(out, "%s\n\n", authURL)
	if err != nil {
		a.Log.Warn("Could not open a browser", a.Log.Args("error", err.Error()))
	}

	a.Nav.Navigate(nav.Callback)
	cursor.Hide()
	stop := startInlineSpinner(out, "Waiting for sign-in", []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
	code, err := recv.Wait(ctx)
	stop()
	cursor.Show()

	var pe *callback.ProviderError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errors.New("login timed out")
	case errors.As(err, &pe):
		return fmt.Errorf("sign-in was not completed: %s", pe.Code)
	case err != nil:
		return err
	}

	if err := a.Auth.ExchangeCode(ctx, code); err != nil {
		return failure(a, err, "completing sign-in")
	}
	fmt.Fprintln(out, "✅ Login successful!")
	return nil
}

// openBrowser attempts to open the provided URL in the user's default browser.
// It starts the platform's opener and does not wait for it:
//   - Windows: rundll32 url.dll,FileProtocolHandler
//   - macOS: open
//   - Linux: xdg-open
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// getRandomLoginGreeting returns a random greeting phrase with the user's identifier
func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🚀 You're all set, %s!",
		"👋 Hello %s! Ready to trade?",
		"💫 Successfully authenticated as %s",
		"⚡ Logged in as %s, let's go!",
		"🎯 You're in, %s!",
	}

	idx := rand.Intn(len(greetings))
	return fmt.Sprintf(greetings[idx], identifier)
}
