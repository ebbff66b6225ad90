package backend

import (
	"context"
	"fmt"
	"net/http"
)

// PlaceOrder posts { stockId, orderType, quantity } to the order endpoint.
func (h *HTTP) PlaceOrder(ctx context.Context, stockID string, orderType OrderType, quantity int) (*TransactionDetails, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}
	body := orderRequest{StockID: ID(stockID), OrderType: orderType, Quantity: quantity}

	var out TransactionDetails
	if err := h.do(ctx, http.MethodPost, h.endpoint(h.api.Endpoints.Order), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTransactionDetails calls GET {order}/{transactionID}.
func (h *HTTP) GetTransactionDetails(ctx context.Context, transactionID string) (*TransactionDetails, error) {
	var out TransactionDetails
	if err := h.do(ctx, http.MethodGet, h.endpoint(h.api.Endpoints.Order, transactionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
