package cmd

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"alphastocks/cli/internal/app"
	"alphastocks/cli/internal/auth"
	apperrors "alphastocks/cli/internal/errors"
	"alphastocks/cli/internal/httperrors"
	"alphastocks/cli/internal/nav"
	"alphastocks/cli/internal/observe"
	"alphastocks/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

// errNotLoggedIn is returned by commands that need a session.
var errNotLoggedIn = errors.New("you're not logged in, run 'alphastocks login' first")

// startInlineSpinner starts a stick-style spinner on a single line of w and
// returns a function that stops it and clears the line.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
			select {
			case <-stop:
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()
	return func() {
		close(stop)
		wg.Wait()
	}
}

// spin runs fn behind a pterm spinner when attached to a terminal.
func spin(text string, fn func() error) error {
	if !terminal.IsInteractive() {
		return fn()
	}
	cursor.Hide()
	defer cursor.Show()
	sp, err := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(text)
	if err != nil {
		return fn()
	}
	err = fn()
	_ = sp.Stop()
	return err
}

// watchNotices prints every modal notice to out.
func watchNotices(a *app.App, out io.Writer) *observe.Subscription {
	return a.Modal.Message(func(msg string) {
		if msg == "" {
			return
		}
		fmt.Fprint(out, pterm.Warning.Sprintln(msg))
	})
}

// enter navigates to route and fails when the route guard refuses it.
func enter(a *app.App, route string) error {
	a.Nav.Navigate(route)
	if a.Nav.Current() != nav.Resolve(route) {
		return errNotLoggedIn
	}
	return nil
}

// failure turns err into the error a command returns. Session and access
// failures were already handled by the interceptor and are summarized;
// everything else is explained through httperrors.
func failure(a *app.App, err error, action string) error {
	switch {
	case err == nil:
		return nil
	case apperrors.Is(err, apperrors.Unauthorized):
		return errors.New("your session has ended, run 'alphastocks login' to sign in again")
	case apperrors.Is(err, apperrors.Forbidden):
		return fmt.Errorf("%s: access forbidden", action)
	case errors.Is(err, auth.ErrExchangeFailed), errors.Is(err, auth.ErrLoginFailed), errors.Is(err, auth.ErrLogoutFailed):
		return err
	}
	return httperrors.Report(err, action, a.Config.API.BaseURL)
}
