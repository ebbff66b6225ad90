package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"alphastocks/cli/internal/app"
	"alphastocks/cli/internal/backend"
	"alphastocks/cli/internal/nav"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stocks by symbol or name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withApp(runSearch),
}

var stockCmd = &cobra.Command{
	Use:   "stock <stockId>",
	Short: "Show a stock and your holdings in it",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runStock),
}

var portfolioCmd = &cobra.Command{
	Use:     "portfolio",
	Aliases: []string{"holdings"},
	Short:   "Show your holdings",
	Args:    cobra.NoArgs,
	RunE:    withApp(runPortfolio),
}

func init() {
	rootCmd.AddCommand(searchCmd, stockCmd, portfolioCmd)
}

func runSearch(ctx context.Context, a *app.App, out io.Writer, args []string) error {
	if err := enter(a, nav.Search); err != nil {
		return err
	}
	var items []backend.SearchItem
	err := spin("Searching", func() (err error) {
		items, err = a.API.SearchStocks(ctx, strings.Join(args, " "))
		return err
	})
	if err != nil {
		return failure(a, err, "searching stocks")
	}
	fmt.Fprint(out, renderSearch(items))
	return nil
}

func runStock(ctx context.Context, a *app.App, out io.Writer, args []string) error {
	if err := enter(a, nav.Order); err != nil {
		return err
	}
	var s *backend.Stock
	err := spin("Loading stock", func() (err error) {
		s, err = a.API.GetStockDetails(ctx, args[0])
		return err
	})
	if err != nil {
		return failure(a, err, "loading the stock")
	}
	fmt.Fprint(out, renderStock(s))
	return nil
}

func runPortfolio(ctx context.Context, a *app.App, out io.Writer, _ []string) error {
	if err := enter(a, nav.Portfolio); err != nil {
		return err
	}
	var h *backend.HoldingsResponse
	err := spin("Loading portfolio", func() (err error) {
		h, err = a.API.GetHoldings(ctx)
		return err
	})
	if err != nil {
		return failure(a, err, "loading holdings")
	}
	fmt.Fprint(out, renderHoldings(h))
	return nil
}
