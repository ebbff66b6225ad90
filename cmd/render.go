package cmd

import (
	"fmt"
	"strconv"

	"alphastocks/cli/internal/backend"

	"github.com/pterm/pterm"
)

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func table(data pterm.TableData) string {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Sprint(data)
	}
	return s + "\n"
}

func renderSearch(items []backend.SearchItem) string {
	if len(items) == 0 {
		return pterm.Info.Sprintln("No stocks found")
	}
	data := pterm.TableData{{"ID", "Symbol", "Name"}}
	for _, it := range items {
		data = append(data, []string{string(it.ID), it.Symbol, it.Name})
	}
	return table(data)
}

func renderStock(s *backend.Stock) string {
	return table(pterm.TableData{
		{"Field", "Value"},
		{"ID", string(s.ID)},
		{"Symbol", s.Symbol},
		{"Name", s.Name},
		{"Exchange", s.Exchange},
		{"Price", money(s.CurrentPrice)},
		{"Available shares", strconv.Itoa(s.TotalAvailableShares)},
		{"Your holdings", strconv.Itoa(s.Holdings)},
	})
}

func renderHoldings(h *backend.HoldingsResponse) string {
	if len(h.Holdings) == 0 {
		return pterm.Info.Sprintln("Your portfolio is empty")
	}
	data := pterm.TableData{{"Symbol", "Name", "Exchange", "Quantity", "Price", "Value"}}
	for _, p := range h.Holdings {
		data = append(data, []string{
			p.StockSymbol, p.StockName, p.StockExchange,
			strconv.Itoa(p.Quantity), money(p.CurrentPrice), money(p.TotalValue),
		})
	}
	return table(data) + fmt.Sprintf("%d positions, total value %s\n", h.TotalHoldings, money(h.TotalValue))
}

func renderTransaction(t *backend.TransactionDetails) string {
	return table(pterm.TableData{
		{"Field", "Value"},
		{"Transaction", t.TransactionID},
		{"Operation", string(t.Operation)},
		{"Stock", fmt.Sprintf("%s (%s)", t.StockName, t.StockSymbol)},
		{"Exchange", t.StockExchange},
		{"Price", money(t.StockPrice)},
		{"Quantity", strconv.Itoa(t.Quantity)},
		{"Total", money(t.TotalValue)},
	})
}
