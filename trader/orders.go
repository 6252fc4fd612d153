package trader

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/WinPooh32/tradeadapter/platform"
	"github.com/WinPooh32/tradeadapter/retry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Balance struct {
	Name   string
	Amount platform.Fixed
}

type OrderDetail struct {
	Price  platform.Fixed
	Amount platform.Fixed
	Date   time.Time
}

// Portfolio lists the total amount held per asset, sorted by asset name.
func (t *Trader) Portfolio(ctx context.Context) ([]Balance, error) {
	if err := t.requirePrivate(); err != nil {
		return nil, err
	}

	balances, err := read(ctx, t, "getPortfolio", func(ctx context.Context) (platform.Balances, error) {
		return t.private.FetchBalance(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}

	portfolio := make([]Balance, 0, len(balances))
	for name, b := range balances {
		portfolio = append(portfolio, Balance{Name: name, Amount: b.Total})
	}
	sort.Slice(portfolio, func(i, j int) bool {
		return portfolio[i].Name < portfolio[j].Name
	})

	return portfolio, nil
}

func (t *Trader) Buy(ctx context.Context, amount, price platform.Fixed) (platform.Order, error) {
	return t.submit(ctx, "buy", platform.SideBuy, amount, price)
}

func (t *Trader) Sell(ctx context.Context, amount, price platform.Fixed) (platform.Order, error) {
	return t.submit(ctx, "sell", platform.SideSell, amount, price)
}

func (t *Trader) submit(ctx context.Context, op string, side platform.Side, amount, price platform.Fixed) (platform.Order, error) {
	if err := t.requirePrivate(); err != nil {
		return platform.Order{}, err
	}

	// One client id for every attempt lets the exchange drop duplicates when
	// an earlier attempt was accepted but its response got lost.
	req := platform.OrderRequest{
		Symbol:        t.pair.Symbol(),
		Side:          side,
		Amount:        amount,
		Price:         price,
		PostOnly:      t.postOnly,
		ClientOrderID: uuid.NewString(),
	}

	order, err := retry.Do(ctx, t.retrier, op, t.orderPolicy, func(ctx context.Context) (platform.Order, error) {
		return t.private.CreateLimitOrder(ctx, req)
	})
	if err != nil {
		return platform.Order{}, fmt.Errorf("%s %s %s at %s: %w", op, amount, t.pair.Asset, price, err)
	}

	t.log.Info("order placed",
		zap.String("side", string(side)),
		zap.String("id", order.ID),
		zap.String("amount", amount.String()),
		zap.String("price", price.String()),
	)

	return order, nil
}

// CheckOrder reports whether the order is completely filled.
func (t *Trader) CheckOrder(ctx context.Context, orderID string) (bool, error) {
	order, err := t.fetchOrder(ctx, "checkOrder", orderID)
	if err != nil {
		return false, err
	}
	return order.Done(), nil
}

func (t *Trader) GetOrder(ctx context.Context, orderID string) (OrderDetail, error) {
	order, err := t.fetchOrder(ctx, "getOrder", orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	return OrderDetail{
		Price:  order.Price,
		Amount: order.Amount,
		Date:   time.UnixMilli(order.Time).UTC(),
	}, nil
}

func (t *Trader) CancelOrder(ctx context.Context, orderID string) error {
	if err := t.requirePrivate(); err != nil {
		return err
	}

	err := retry.Run(ctx, t.retrier, "cancelOrder", t.orderPolicy, func(ctx context.Context) error {
		return t.private.CancelOrder(ctx, t.pair.Symbol(), orderID)
	})
	if err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}

	t.log.Info("order canceled", zap.String("id", orderID))
	return nil
}

func (t *Trader) fetchOrder(ctx context.Context, op, orderID string) (platform.Order, error) {
	if err := t.requirePrivate(); err != nil {
		return platform.Order{}, err
	}

	order, err := retry.Do(ctx, t.retrier, op, t.orderPolicy, func(ctx context.Context) (platform.Order, error) {
		return t.private.FetchOrder(ctx, t.pair.Symbol(), orderID)
	})
	if err != nil {
		return platform.Order{}, fmt.Errorf("fetch order %s: %w", orderID, err)
	}
	return order, nil
}
