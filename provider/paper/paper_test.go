package paper

import (
	"context"
	"testing"

	"github.com/WinPooh32/fixed"
	"github.com/WinPooh32/tradeadapter/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticMarket struct {
	ticker platform.Ticker
}

func (m *staticMarket) FetchTicker(ctx context.Context, symbol string) (platform.Ticker, error) {
	return m.ticker, nil
}

func (m *staticMarket) FetchTrades(ctx context.Context, symbol string) ([]platform.Trade, error) {
	return nil, nil
}

func newPaper() (*Exchange, *staticMarket) {
	market := &staticMarket{ticker: platform.Ticker{Bid: fixed.NewS("0.9"), Ask: fixed.NewS("1.1")}}
	ex := New(market, map[string]platform.Fixed{
		"BTC": fixed.NewS("10"),
		"ETN": fixed.NewS("5"),
	})
	return ex, market
}

func request(side platform.Side, amount, price string) platform.OrderRequest {
	return platform.OrderRequest{
		Symbol:   "ETN/BTC",
		Side:     side,
		Amount:   fixed.NewS(amount),
		Price:    fixed.NewS(price),
		PostOnly: true,
	}
}

func balance(t *testing.T, ex *Exchange, asset string) platform.BalanceAmount {
	t.Helper()
	b, err := ex.FetchBalance(context.Background())
	require.NoError(t, err)
	return b[asset]
}

func TestBuyFillsWhenAskCrosses(t *testing.T) {
	ex, market := newPaper()
	ctx := context.Background()

	order, err := ex.CreateLimitOrder(ctx, request(platform.SideBuy, "4", "1"))
	require.NoError(t, err)
	assert.Equal(t, platform.StatusOpen, order.Status)
	assert.Equal(t, "6", balance(t, ex, "BTC").Free.String())
	assert.Equal(t, "4", balance(t, ex, "BTC").Used.String())

	order, err = ex.FetchOrder(ctx, "ETN/BTC", order.ID)
	require.NoError(t, err)
	assert.False(t, order.Done())

	market.ticker.Ask = fixed.NewS("0.95")
	order, err = ex.FetchOrder(ctx, "ETN/BTC", order.ID)
	require.NoError(t, err)
	assert.True(t, order.Done())
	assert.Equal(t, "4", order.Filled.String())

	assert.Equal(t, "6", balance(t, ex, "BTC").Total.String())
	assert.Equal(t, "9", balance(t, ex, "ETN").Total.String())
}

func TestSellFillsWhenBidCrosses(t *testing.T) {
	ex, market := newPaper()
	ctx := context.Background()

	order, err := ex.CreateLimitOrder(ctx, request(platform.SideSell, "5", "1"))
	require.NoError(t, err)

	market.ticker.Bid = fixed.NewS("1.05")
	order, err = ex.FetchOrder(ctx, "ETN/BTC", order.ID)
	require.NoError(t, err)
	assert.True(t, order.Done())

	assert.True(t, balance(t, ex, "ETN").Total.IsZero())
	assert.Equal(t, "15", balance(t, ex, "BTC").Total.String())
}

func TestPostOnlyRejectsTaker(t *testing.T) {
	ex, _ := newPaper()

	_, err := ex.CreateLimitOrder(context.Background(), request(platform.SideBuy, "1", "1.2"))
	assert.ErrorIs(t, err, platform.ErrWouldTake)

	req := request(platform.SideBuy, "1", "1.2")
	req.PostOnly = false
	order, err := ex.CreateLimitOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, platform.StatusOpen, order.Status)
}

func TestInsufficientFunds(t *testing.T) {
	ex, _ := newPaper()

	_, err := ex.CreateLimitOrder(context.Background(), request(platform.SideSell, "6", "1"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestClientOrderIDDeduplicates(t *testing.T) {
	ex, _ := newPaper()
	req := request(platform.SideBuy, "1", "1")
	req.ClientOrderID = "cid-1"

	first, err := ex.CreateLimitOrder(context.Background(), req)
	require.NoError(t, err)
	second, err := ex.CreateLimitOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "1", balance(t, ex, "BTC").Used.String())

	byClient, err := ex.FetchOrder(context.Background(), "ETN/BTC", "cid-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, byClient.ID)
}

func TestCancelReleasesFunds(t *testing.T) {
	ex, _ := newPaper()
	ctx := context.Background()

	order, err := ex.CreateLimitOrder(ctx, request(platform.SideBuy, "2", "1"))
	require.NoError(t, err)
	require.NoError(t, ex.CancelOrder(ctx, "ETN/BTC", order.ID))

	assert.Equal(t, "10", balance(t, ex, "BTC").Free.String())
	assert.True(t, balance(t, ex, "BTC").Used.IsZero())

	order, err = ex.FetchOrder(ctx, "ETN/BTC", order.ID)
	require.NoError(t, err)
	assert.Equal(t, platform.StatusCanceled, order.Status)

	assert.ErrorIs(t, ex.CancelOrder(ctx, "ETN/BTC", order.ID), ErrOrderClosed)
	assert.ErrorIs(t, ex.CancelOrder(ctx, "ETN/BTC", "404"), platform.ErrOrderNotFound)
}
