package binance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/WinPooh32/fixed"
	"github.com/WinPooh32/tradeadapter/platform"
	"github.com/adshao/go-binance/v2"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	recentTradesLimit = 500

	defaultBreakerFailures = 5
	defaultBreakerCooldown = 30 * time.Second
)

type Options struct {
	Key     string
	Secret  string
	Testnet bool
	// BaseURL overrides the REST endpoint.
	BaseURL string
	// RequestsPerSecond paces REST calls client side, zero disables pacing.
	RequestsPerSecond float64
	// BreakerFailures consecutive server side failures open the circuit for
	// BreakerCooldown. Zero values use 5 failures and 30 seconds.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

type Binance struct {
	client  *binance.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[any]
}

var _ platform.Exchange = (*Binance)(nil)

// New returns a REST handle. Without Key and Secret only the public calls
// succeed.
func New(opt Options) *Binance {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opt.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opt.RequestsPerSecond), 1)
	}

	client := binance.NewClient(opt.Key, opt.Secret)
	client.BaseURL = baseURL(opt)

	failures := opt.BreakerFailures
	if failures == 0 {
		failures = defaultBreakerFailures
	}
	cooldown := opt.BreakerCooldown
	if cooldown <= 0 {
		cooldown = defaultBreakerCooldown
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "binance",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		// Only an unhealthy exchange counts, rejected orders do not.
		IsSuccessful: func(err error) bool {
			return !errors.Is(err, platform.ErrUnavailable) && !errors.Is(err, platform.ErrRateLimited)
		},
	})

	return &Binance{
		client:  client,
		limiter: limiter,
		breaker: breaker,
	}
}

// baseURL picks the endpoint per handle, binance.UseTestnet is left alone.
func baseURL(opt Options) string {
	switch {
	case opt.BaseURL != "":
		return opt.BaseURL
	case opt.Testnet:
		return binance.BaseAPITestnetURL
	default:
		return binance.BaseAPIMainURL
	}
}

// call paces fn and runs it behind the circuit breaker. An open circuit
// reports platform.ErrUnavailable without touching the network.
func call[T any](ctx context.Context, b *Binance, fn func() (T, error)) (T, error) {
	var zero T

	if err := b.limiter.Wait(ctx); err != nil {
		return zero, err
	}

	res, err := b.breaker.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, fmt.Errorf("binance: %w: %w", platform.ErrUnavailable, err)
	}
	if err != nil {
		return zero, err
	}
	return res.(T), nil
}

func (b *Binance) FetchTicker(ctx context.Context, symbol string) (platform.Ticker, error) {
	return call(ctx, b, func() (platform.Ticker, error) {
		res, err := b.client.NewListBookTickersService().Symbol(toSymbol(symbol)).Do(ctx)
		if err != nil {
			return platform.Ticker{}, wrapErr("book ticker", err)
		}
		if len(res) == 0 {
			return platform.Ticker{}, fmt.Errorf("binance: book ticker: no data for %s", symbol)
		}

		return platform.Ticker{
			Symbol: symbol,
			Bid:    fixed.NewS(res[0].BidPrice),
			Ask:    fixed.NewS(res[0].AskPrice),
		}, nil
	})
}

func (b *Binance) FetchTrades(ctx context.Context, symbol string) ([]platform.Trade, error) {
	return call(ctx, b, func() ([]platform.Trade, error) {
		res, err := b.client.NewRecentTradesService().Symbol(toSymbol(symbol)).Limit(recentTradesLimit).Do(ctx)
		if err != nil {
			return nil, wrapErr("recent trades", err)
		}

		trades := make([]platform.Trade, 0, len(res))
		for _, t := range res {
			trades = append(trades, platform.Trade{
				TradeID:      t.ID,
				Time:         t.Time,
				Symbol:       symbol,
				Price:        fixed.NewS(t.Price),
				Quantity:     fixed.NewS(t.Quantity),
				IsBuyerMaker: t.IsBuyerMaker,
			})
		}
		return trades, nil
	})
}

func (b *Binance) FetchBalance(ctx context.Context) (platform.Balances, error) {
	return call(ctx, b, func() (platform.Balances, error) {
		acc, err := b.client.NewGetAccountService().Do(ctx)
		if err != nil {
			return nil, wrapErr("account", err)
		}

		balances := make(platform.Balances, len(acc.Balances))
		for _, bal := range acc.Balances {
			free := fixed.NewS(bal.Free)
			locked := fixed.NewS(bal.Locked)
			balances[bal.Asset] = platform.BalanceAmount{
				Free:  free,
				Used:  locked,
				Total: free.Add(locked),
			}
		}
		return balances, nil
	})
}

func (b *Binance) CreateLimitOrder(ctx context.Context, req platform.OrderRequest) (platform.Order, error) {
	return call(ctx, b, func() (platform.Order, error) {
		svc := b.client.NewCreateOrderService().
			Symbol(toSymbol(req.Symbol)).
			Side(toSide(req.Side)).
			Quantity(req.Amount.String()).
			Price(req.Price.String())

		if req.PostOnly {
			svc = svc.Type(binance.OrderTypeLimitMaker)
		} else {
			svc = svc.Type(binance.OrderTypeLimit).TimeInForce(binance.TimeInForceTypeGTC)
		}
		if req.ClientOrderID != "" {
			svc = svc.NewClientOrderID(req.ClientOrderID)
		}

		res, err := svc.Do(ctx)
		if isDuplicate(err) {
			// An earlier attempt went through; report that order.
			return b.fetchOrder(ctx, req.Symbol, b.client.NewGetOrderService().OrigClientOrderID(req.ClientOrderID))
		}
		if err != nil {
			return platform.Order{}, wrapErr("create order", err)
		}

		return makeOrder(req.Symbol, orderFields{
			OrderID:          res.OrderID,
			ClientOrderID:    res.ClientOrderID,
			Side:             res.Side,
			Price:            res.Price,
			OrigQuantity:     res.OrigQuantity,
			ExecutedQuantity: res.ExecutedQuantity,
			Status:           res.Status,
			Time:             res.TransactTime,
		}), nil
	})
}

// FetchOrder accepts either the exchange order id or the client order id.
func (b *Binance) FetchOrder(ctx context.Context, symbol string, orderID string) (platform.Order, error) {
	return call(ctx, b, func() (platform.Order, error) {
		svc := b.client.NewGetOrderService()
		if id, err := strconv.ParseInt(orderID, 10, 64); err == nil {
			svc = svc.OrderID(id)
		} else {
			svc = svc.OrigClientOrderID(orderID)
		}
		return b.fetchOrder(ctx, symbol, svc)
	})
}

func (b *Binance) fetchOrder(ctx context.Context, symbol string, svc *binance.GetOrderService) (platform.Order, error) {
	res, err := svc.Symbol(toSymbol(symbol)).Do(ctx)
	if err != nil {
		return platform.Order{}, wrapErr("get order", err)
	}

	return makeOrder(symbol, orderFields{
		OrderID:          res.OrderID,
		ClientOrderID:    res.ClientOrderID,
		Side:             res.Side,
		Price:            res.Price,
		OrigQuantity:     res.OrigQuantity,
		ExecutedQuantity: res.ExecutedQuantity,
		Status:           res.Status,
		Time:             res.Time,
	}), nil
}

func (b *Binance) CancelOrder(ctx context.Context, symbol string, orderID string) error {
	_, err := call(ctx, b, func() (struct{}, error) {
		svc := b.client.NewCancelOrderService().Symbol(toSymbol(symbol))
		if id, err := strconv.ParseInt(orderID, 10, 64); err == nil {
			svc = svc.OrderID(id)
		} else {
			svc = svc.OrigClientOrderID(orderID)
		}

		if _, err := svc.Do(ctx); err != nil {
			return struct{}{}, wrapErr("cancel order", err)
		}
		return struct{}{}, nil
	})
	return err
}
