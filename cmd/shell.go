package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"alphastocks/cli/internal/app"
	"alphastocks/cli/internal/auth"
	"alphastocks/cli/internal/backend"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// shellCmd runs an interactive session against one application instance, so
// the authentication stream and route are shared across commands.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive trading shell",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(auth.BrowserFunc(openBrowser))
		if err != nil {
			return err
		}
		defer a.Close()
		return runShell(cmd.Context(), a, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

type verb struct {
	usage   string
	minArgs int
	maxArgs int
	run     runFunc
}

func approve(string) bool { return true }

func shellVerbs() map[string]verb {
	return map[string]verb{
		"login": {"login [username]", 0, 1, func(ctx context.Context, a *app.App, out io.Writer, args []string) error {
			ctx, cancel := context.WithTimeout(ctx, loginTimeout)
			defer cancel()
			return runLogin(ctx, a, out, strings.Join(args, ""))
		}},
		"logout":    {"logout", 0, 0, runLogout},
		"whoami":    {"whoami", 0, 0, runWhoAmI},
		"search":    {"search <query>", 1, -1, runSearch},
		"stock":     {"stock <stockId>", 1, 1, runStock},
		"portfolio": {"portfolio", 0, 0, runPortfolio},
		"buy":       {"buy <stockId> <quantity>", 2, 2, placeOrder(backend.Buy, approve)},
		"sell":      {"sell <stockId> <quantity>", 2, 2, placeOrder(backend.Sell, approve)},
		"show":      {"show <transactionId>", 1, 1, runShowTransaction},
	}
}

func printShellHelp(out io.Writer, verbs map[string]verb) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range []string{"login", "logout", "whoami", "search", "stock", "portfolio", "buy", "sell", "show"} {
		fmt.Fprintf(tw, "  %s\t\n", verbs[name].usage)
	}
	fmt.Fprintln(tw, "  help\t")
	fmt.Fprintln(tw, "  exit\t")
	_ = tw.Flush()
}

func runShell(ctx context.Context, a *app.App, in io.Reader, out io.Writer) error {
	verbs := shellVerbs()

	var mu sync.Mutex
	loggedIn, primed := false, false
	authSub := a.Auth.AuthState(func(ok bool) {
		mu.Lock()
		defer mu.Unlock()
		if primed && !ok && loggedIn {
			fmt.Fprint(out, pterm.Info.Sprintln("Signed out"))
		}
		loggedIn, primed = ok, true
	})
	defer authSub.Unsubscribe()
	defer watchNotices(a, out).Unsubscribe()

	prompt := func() string {
		mu.Lock()
		defer mu.Unlock()
		mark := "🔒"
		if loggedIn {
			mark = "●"
		}
		return fmt.Sprintf("%s alphastocks:%s> ", mark, a.Nav.Current())
	}

	fmt.Fprintln(out, "Alpha Stocks shell. Type 'help' for commands.")
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt())
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		name, args := strings.ToLower(fields[0]), fields[1:]
		switch name {
		case "exit", "quit":
			return nil
		case "help", "?":
			printShellHelp(out, verbs)
			continue
		}

		v, ok := verbs[name]
		if !ok {
			fmt.Fprint(out, pterm.Error.Sprintf("unknown command %q, type 'help'\n", name))
			continue
		}
		if len(args) < v.minArgs || v.maxArgs >= 0 && len(args) > v.maxArgs {
			fmt.Fprintln(out, "usage: "+v.usage)
			continue
		}
		if err := v.run(ctx, a, out, args); err != nil {
			fmt.Fprint(out, pterm.Error.Sprintln(err.Error()))
		}
		if a.Modal.Current() != "" {
			a.Modal.Close()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
