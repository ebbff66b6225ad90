// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"alphastocks/cli/internal/app"
	"alphastocks/cli/internal/backend"
	"alphastocks/cli/internal/nav"
	"alphastocks/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var orderYes bool

// orderCmd groups order placement and lookup.
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place orders and look up transactions",
}

var orderBuyCmd = &cobra.Command{
	Use:   "buy <stockId> <quantity>",
	Short: "Buy shares",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(placeOrder(backend.Buy, confirm)),
}

var orderSellCmd = &cobra.Command{
	Use:   "sell <stockId> <quantity>",
	Short: "Sell shares",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(placeOrder(backend.Sell, confirm)),
}

var orderShowCmd = &cobra.Command{
	Use:   "show <transactionId>",
	Short: "Show an executed order",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runShowTransaction),
}

func init() {
	orderCmd.PersistentFlags().BoolVarP(&orderYes, "yes", "y", false, "Place the order without asking for confirmation")
	orderCmd.AddCommand(orderBuyCmd, orderSellCmd, orderShowCmd)
	rootCmd.AddCommand(orderCmd)
}

func parseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("quantity must be a positive whole number, got %q", s)
	}
	return n, nil
}

// confirm asks the user to approve the order on an interactive terminal and
// erases the prompt afterwards.
func confirm(prompt string) bool {
	if orderYes || !terminal.IsInteractive() {
		return true
	}
	promptText := prompt + " [y/N]: "
	pterm.Print(promptText)
	ans, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	ans = strings.TrimSpace(ans)
	terminal.ClearPreviousLines(len(promptText) + len(ans))
	return strings.EqualFold(ans, "y") || strings.EqualFold(ans, "yes")
}

// placeOrder returns the body of buy and sell. ask approves the order.
func placeOrder(side backend.OrderType, ask func(prompt string) bool) runFunc {
	return func(ctx context.Context, a *app.App, out io.Writer, args []string) error {
		if err := enter(a, nav.Order); err != nil {
			return err
		}
		qty, err := parseQuantity(args[1])
		if err != nil {
			return err
		}
		if !ask(fmt.Sprintf("%s %d shares of stock %s?", side, qty, args[0])) {
			fmt.Fprintln(out, "Order cancelled")
			return nil
		}

		var tx *backend.TransactionDetails
		err = spin("Placing order", func() (err error) {
			tx, err = a.API.PlaceOrder(ctx, args[0], side, qty)
			return err
		})
		if err != nil {
			return failure(a, err, "placing the order")
		}
		a.Nav.Navigate(nav.Transaction)
		fmt.Fprint(out, pterm.Success.Sprintln("Order executed"))
		fmt.Fprint(out, renderTransaction(tx))
		return nil
	}
}

func runShowTransaction(ctx context.Context, a *app.App, out io.Writer, args []string) error {
	if err := enter(a, nav.Transaction); err != nil {
		return err
	}
	var tx *backend.TransactionDetails
	err := spin("Loading transaction", func() (err error) {
		tx, err = a.API.GetTransactionDetails(ctx, args[0])
		return err
	})
	if err != nil {
		return failure(a, err, "loading the transaction")
	}
	fmt.Fprint(out, renderTransaction(tx))
	return nil
}
