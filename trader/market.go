package trader

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/WinPooh32/tradeadapter/platform"
)

// SortOrder is the chronological order of a trade history result.
type SortOrder int

const (
	// Ascending is the exchange's native order, oldest first.
	Ascending SortOrder = iota
	Descending
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return 0, fmt.Errorf("unknown trade order %q", s)
	}
}

type Quote struct {
	Bid platform.Fixed
	Ask platform.Fixed
}

type Trade struct {
	Date   int64
	Price  platform.Fixed
	Amount platform.Fixed
	TID    string
}

func (t *Trader) Ticker(ctx context.Context) (Quote, error) {
	ticker, err := read(ctx, t, "getTicker", func(ctx context.Context) (platform.Ticker, error) {
		return t.public.FetchTicker(ctx, t.pair.Symbol())
	})
	if err != nil {
		return Quote{}, fmt.Errorf("fetch ticker: %w", err)
	}
	return Quote{Bid: ticker.Bid, Ask: ticker.Ask}, nil
}

// Trades returns recent trades not older than since, a zero since keeps them
// all.
func (t *Trader) Trades(ctx context.Context, since time.Time, order SortOrder) ([]Trade, error) {
	raw, err := read(ctx, t, "getTrades", func(ctx context.Context) ([]platform.Trade, error) {
		return t.public.FetchTrades(ctx, t.pair.Symbol())
	})
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}

	trades := make([]Trade, 0, len(raw))
	for _, r := range raw {
		if !since.IsZero() && r.Time < since.UnixMilli() {
			continue
		}
		trades = append(trades, Trade{
			Date:   r.Time / 1000,
			Price:  r.Price,
			Amount: r.Quantity,
			TID:    TradeID(r),
		})
	}

	newestFirst := order == Descending
	if newestFirst {
		slices.Reverse(trades)
	}
	return trades, nil
}

// TradeID derives an id from the trade's own fields. Exchanges without stable
// trade ids leave nothing better; two trades sharing time, price and amount
// collide.
func TradeID(r platform.Trade) string {
	return strconv.FormatInt(r.Time, 10) + "-" + r.Price.String() + "-" + r.Quantity.String()
}
