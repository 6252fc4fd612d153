// Package paper simulates the private half of an exchange in memory on top of
// a real or recorded market data source.
package paper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/WinPooh32/fixed"
	"github.com/WinPooh32/tradeadapter/platform"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOrderClosed       = errors.New("order is not open")
)

type wallet struct {
	free   platform.Fixed
	locked platform.Fixed
}

// Exchange fills a limit order when it is re-read and the ticker has crossed
// its price. Post-only orders that would cross on arrival are rejected.
type Exchange struct {
	platform.Public

	mu       sync.Mutex
	seq      int64
	wallets  map[string]*wallet
	orders   map[string]*platform.Order
	byClient map[string]string
	now      func() time.Time
}

var _ platform.Exchange = (*Exchange)(nil)

func New(public platform.Public, balances map[string]platform.Fixed) *Exchange {
	ex := &Exchange{
		Public:   public,
		wallets:  make(map[string]*wallet, len(balances)),
		orders:   map[string]*platform.Order{},
		byClient: map[string]string{},
		now:      time.Now,
	}
	for asset, amount := range balances {
		ex.wallets[asset] = &wallet{free: amount}
	}
	return ex
}

func (ex *Exchange) FetchBalance(ctx context.Context) (platform.Balances, error) {
	ex.mu.Lock()
	defer ex.mu.Unlock()

	balances := make(platform.Balances, len(ex.wallets))
	for asset, w := range ex.wallets {
		balances[asset] = platform.BalanceAmount{
			Free:  w.free,
			Used:  w.locked,
			Total: w.free.Add(w.locked),
		}
	}
	return balances, nil
}

func (ex *Exchange) CreateLimitOrder(ctx context.Context, req platform.OrderRequest) (platform.Order, error) {
	pair, err := platform.ParsePair(req.Symbol)
	if err != nil {
		return platform.Order{}, err
	}
	if !req.Amount.GreaterThan(fixed.ZERO) || !req.Price.GreaterThan(fixed.ZERO) {
		return platform.Order{}, fmt.Errorf("paper: amount and price must be positive")
	}

	var ticker platform.Ticker
	if req.PostOnly {
		if ticker, err = ex.FetchTicker(ctx, req.Symbol); err != nil {
			return platform.Order{}, err
		}
	}

	ex.mu.Lock()
	defer ex.mu.Unlock()

	if id, ok := ex.byClient[req.ClientOrderID]; ok && req.ClientOrderID != "" {
		return *ex.orders[id], nil
	}

	if req.PostOnly && crosses(req.Side, req.Price, ticker) {
		return platform.Order{}, platform.ErrWouldTake
	}

	asset, amount := lockFor(pair, req)
	w := ex.wallet(asset)
	if w.free.LessThan(amount) {
		return platform.Order{}, fmt.Errorf("paper: %w: need %s %s, have %s", ErrInsufficientFunds, amount, asset, w.free)
	}
	w.free = w.free.Sub(amount)
	w.locked = w.locked.Add(amount)

	ex.seq++
	order := &platform.Order{
		ID:            strconv.FormatInt(ex.seq, 10),
		ClientOrderID: req.ClientOrderID,
		Symbol:        req.Symbol,
		Side:          req.Side,
		Amount:        req.Amount,
		Price:         req.Price,
		Filled:        fixed.ZERO,
		Remaining:     req.Amount,
		Status:        platform.StatusOpen,
		Time:          ex.now().UnixMilli(),
	}
	ex.orders[order.ID] = order
	if req.ClientOrderID != "" {
		ex.byClient[req.ClientOrderID] = order.ID
	}

	return *order, nil
}

func (ex *Exchange) FetchOrder(ctx context.Context, symbol string, orderID string) (platform.Order, error) {
	ticker, err := ex.FetchTicker(ctx, symbol)
	if err != nil {
		return platform.Order{}, err
	}

	ex.mu.Lock()
	defer ex.mu.Unlock()

	order, err := ex.lookup(orderID)
	if err != nil {
		return platform.Order{}, err
	}
	if order.Status == platform.StatusOpen && crosses(order.Side, order.Price, ticker) {
		ex.fill(order)
	}
	return *order, nil
}

func (ex *Exchange) CancelOrder(ctx context.Context, symbol string, orderID string) error {
	ex.mu.Lock()
	defer ex.mu.Unlock()

	order, err := ex.lookup(orderID)
	if err != nil {
		return err
	}
	if order.Status != platform.StatusOpen {
		return fmt.Errorf("paper: cancel %s: %w", orderID, ErrOrderClosed)
	}

	pair, _ := platform.ParsePair(order.Symbol)
	asset, amount := lockFor(pair, platform.OrderRequest{Side: order.Side, Amount: order.Remaining, Price: order.Price})
	w := ex.wallet(asset)
	w.locked = w.locked.Sub(amount)
	w.free = w.free.Add(amount)

	order.Status = platform.StatusCanceled
	return nil
}

func (ex *Exchange) lookup(orderID string) (*platform.Order, error) {
	if id, ok := ex.byClient[orderID]; ok {
		orderID = id
	}
	order, ok := ex.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("paper: %s: %w", orderID, platform.ErrOrderNotFound)
	}
	return order, nil
}

// fill settles the whole order at its limit price.
func (ex *Exchange) fill(order *platform.Order) {
	pair, _ := platform.ParsePair(order.Symbol)
	cost := order.Remaining.Mul(order.Price)

	switch order.Side {
	case platform.SideBuy:
		quote := ex.wallet(pair.Currency)
		quote.locked = quote.locked.Sub(cost)
		base := ex.wallet(pair.Asset)
		base.free = base.free.Add(order.Remaining)
	case platform.SideSell:
		base := ex.wallet(pair.Asset)
		base.locked = base.locked.Sub(order.Remaining)
		quote := ex.wallet(pair.Currency)
		quote.free = quote.free.Add(cost)
	}

	order.Filled = order.Filled.Add(order.Remaining)
	order.Remaining = fixed.ZERO
	order.Status = platform.StatusClosed
}

func (ex *Exchange) wallet(asset string) *wallet {
	w, ok := ex.wallets[asset]
	if !ok {
		w = &wallet{free: fixed.ZERO, locked: fixed.ZERO}
		ex.wallets[asset] = w
	}
	return w
}

// lockFor returns the asset and amount an open order reserves.
func lockFor(pair platform.Pair, req platform.OrderRequest) (string, platform.Fixed) {
	if req.Side == platform.SideBuy {
		return pair.Currency, req.Amount.Mul(req.Price)
	}
	return pair.Asset, req.Amount
}

// crosses reports whether a limit price is marketable against the ticker.
func crosses(side platform.Side, price platform.Fixed, t platform.Ticker) bool {
	if side == platform.SideBuy {
		return !t.Ask.IsZero() && price.GreaterThanOrEqual(t.Ask)
	}
	return !t.Bid.IsZero() && price.LessThanOrEqual(t.Bid)
}
