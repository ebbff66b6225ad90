package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is a stock or transaction identifier. The gateway has served both JSON
// numbers and strings for the same field, so both decode.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits a number when the ID is all digits, the form the order
// service expects, and a string otherwise.
func (id ID) MarshalJSON() ([]byte, error) {
	s := string(id)
	if s != "" && strings.Trim(s, "0123456789") == "" {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

// SearchItem is one row of a stock search.
type SearchItem struct {
	ID     ID     `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Stock is the detail view of a single stock, including the caller's holdings.
type Stock struct {
	ID                   ID      `json:"id"`
	Symbol               string  `json:"symbol"`
	Name                 string  `json:"name"`
	Exchange             string  `json:"exchange"`
	CurrentPrice         float64 `json:"currentPrice"`
	TotalAvailableShares int     `json:"totalAvailableShares"`
	Holdings             int     `json:"holdings"`
}

// Holding is one position in the portfolio.
type Holding struct {
	StockID              ID      `json:"stockID"`
	StockSymbol          string  `json:"stockSymbol"`
	StockName            string  `json:"stockName"`
	StockExchange        string  `json:"stockExchange"`
	Quantity             int     `json:"quantity"`
	TotalAvailableShares int     `json:"totalAvailableShares"`
	CurrentPrice         float64 `json:"currentPrice"`
	TotalValue           float64 `json:"totalValue"`
}

// HoldingsResponse is the portfolio summary.
type HoldingsResponse struct {
	TotalHoldings int       `json:"totalHoldings"`
	TotalValue    float64   `json:"totalValue"`
	Holdings      []Holding `json:"holdings"`
}

// OrderType is the side of an order.
type OrderType string

const (
	Buy  OrderType = "Buy"
	Sell OrderType = "Sell"
)

// ParseOrderType accepts "buy"/"sell" in any case.
func ParseOrderType(s string) (OrderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return "", fmt.Errorf("invalid order type %q: want buy or sell", s)
}

// TransactionDetails describes an executed order.
type TransactionDetails struct {
	TransactionID string    `json:"transactionID"`
	Operation     OrderType `json:"operation"`
	StockName     string    `json:"stockName"`
	StockSymbol   string    `json:"stockSymbol"`
	StockID       ID        `json:"stockID"`
	StockExchange string    `json:"stockExchange"`
	StockPrice    float64   `json:"stockPrice"`
	Quantity      int       `json:"quantity"`
	TotalValue    float64   `json:"totalValue"`
}

// orderRequest is the body of a place-order call.
type orderRequest struct {
	StockID   ID        `json:"stockId"`
	OrderType OrderType `json:"orderType"`
	Quantity  int       `json:"quantity"`
}

// searchResponse is the body of a stock search. Older gateways omit Success.
type searchResponse struct {
	Success *bool        `json:"success"`
	Results []SearchItem `json:"results"`
}
