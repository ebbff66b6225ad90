// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the client for the Alpha Stocks gateway.
// It defines the API contract for session, stock and order operations, the
// HTTP implementation, and the failure interceptor every request passes through.
package backend

import "context"

// API defines backend operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide fakes for tests.
type API interface {
	// ExchangeCode trades an identity-provider authorization code for a
	// gateway session. The session arrives as a cookie.
	ExchangeCode(ctx context.Context, code string) error
	// Logout invalidates the current session on the gateway.
	Logout(ctx context.Context) error
	// Login opens a session for username without the identity provider.
	Login(ctx context.Context, username string) error

	SearchStocks(ctx context.Context, query string) ([]SearchItem, error)
	GetStockDetails(ctx context.Context, stockID string) (*Stock, error)
	GetHoldings(ctx context.Context) (*HoldingsResponse, error)

	PlaceOrder(ctx context.Context, stockID string, orderType OrderType, quantity int) (*TransactionDetails, error)
	GetTransactionDetails(ctx context.Context, transactionID string) (*TransactionDetails, error)
}
