package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// SearchStocks calls GET {stocks}/search?query=.
// An empty or whitespace-only query returns no results without a request.
// A response with success=false also yields no results.
func (h *HTTP) SearchStocks(ctx context.Context, query string) ([]SearchItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchItem{}, nil
	}

	u := h.endpoint(h.api.Endpoints.Stocks, "search") + "?" + url.Values{"query": {query}}.Encode()
	var out searchResponse
	if err := h.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	if out.Success != nil && !*out.Success || out.Results == nil {
		return []SearchItem{}, nil
	}
	return out.Results, nil
}

// GetStockDetails calls GET {stocks}/{stockID}.
func (h *HTTP) GetStockDetails(ctx context.Context, stockID string) (*Stock, error) {
	var out Stock
	if err := h.do(ctx, http.MethodGet, h.endpoint(h.api.Endpoints.Stocks, stockID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetHoldings calls GET {stocks}/holdings.
func (h *HTTP) GetHoldings(ctx context.Context) (*HoldingsResponse, error) {
	var out HoldingsResponse
	if err := h.do(ctx, http.MethodGet, h.endpoint(h.api.Endpoints.Stocks, "holdings"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
