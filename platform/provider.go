package platform

import (
	"context"

	"github.com/WinPooh32/fixed"
)

type Fixed = fixed.Fixed

// Public is the unauthenticated half of an exchange.
// FetchTrades returns recent trades ordered by time, oldest first.
type Public interface {
	FetchTicker(ctx context.Context, symbol string) (ticker Ticker, err error)
	FetchTrades(ctx context.Context, symbol string) (trades []Trade, err error)
}

type Account interface {
	FetchBalance(ctx context.Context) (balances Balances, err error)
}

type Spot interface {
	CreateLimitOrder(ctx context.Context, req OrderRequest) (order Order, err error)
	FetchOrder(ctx context.Context, symbol string, orderID string) (order Order, err error)
	CancelOrder(ctx context.Context, symbol string, orderID string) (err error)
}

// Private is the authenticated half of an exchange.
type Private interface {
	Account
	Spot
}

type Exchange interface {
	Public
	Private
}
