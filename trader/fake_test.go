package trader

import (
	"context"
	"sync"
	"time"

	"github.com/WinPooh32/tradeadapter/platform"
)

// fakeExchange is a scripted collaborator. Queued errors for a method are
// returned one per call before the method starts succeeding.
type fakeExchange struct {
	mu sync.Mutex

	balances platform.Balances
	ticker   platform.Ticker
	trades   []platform.Trade
	orders   map[string]platform.Order

	failures map[string][]error
	calls    map[string]int

	requests []platform.OrderRequest
	canceled []string
}

func newFakeExchange() *fakeExchange {
	return &fakeExchange{
		orders:   map[string]platform.Order{},
		failures: map[string][]error{},
		calls:    map[string]int{},
	}
}

func (f *fakeExchange) failWith(method string, err error, times int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i < times; i++ {
		f.failures[method] = append(f.failures[method], err)
	}
}

func (f *fakeExchange) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeExchange) enter(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	if q := f.failures[method]; len(q) > 0 {
		f.failures[method] = q[1:]
		return q[0]
	}
	return nil
}

func (f *fakeExchange) FetchTicker(ctx context.Context, symbol string) (platform.Ticker, error) {
	if err := f.enter("FetchTicker"); err != nil {
		return platform.Ticker{}, err
	}
	return f.ticker, nil
}

func (f *fakeExchange) FetchTrades(ctx context.Context, symbol string) ([]platform.Trade, error) {
	if err := f.enter("FetchTrades"); err != nil {
		return nil, err
	}
	out := make([]platform.Trade, len(f.trades))
	copy(out, f.trades)
	return out, nil
}

func (f *fakeExchange) FetchBalance(ctx context.Context) (platform.Balances, error) {
	if err := f.enter("FetchBalance"); err != nil {
		return nil, err
	}
	return f.balances, nil
}

func (f *fakeExchange) CreateLimitOrder(ctx context.Context, req platform.OrderRequest) (platform.Order, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if err := f.enter("CreateLimitOrder"); err != nil {
		return platform.Order{}, err
	}
	return platform.Order{
		ID:            "order-1",
		ClientOrderID: req.ClientOrderID,
		Symbol:        req.Symbol,
		Side:          req.Side,
		Amount:        req.Amount,
		Price:         req.Price,
		Remaining:     req.Amount,
		Status:        platform.StatusOpen,
		Time:          time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).UnixMilli(),
	}, nil
}

func (f *fakeExchange) FetchOrder(ctx context.Context, symbol string, orderID string) (platform.Order, error) {
	if err := f.enter("FetchOrder"); err != nil {
		return platform.Order{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return platform.Order{}, platform.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeExchange) CancelOrder(ctx context.Context, symbol string, orderID string) error {
	if err := f.enter("CancelOrder"); err != nil {
		return err
	}
	f.mu.Lock()
	f.canceled = append(f.canceled, orderID)
	f.mu.Unlock()
	return nil
}

var _ platform.Exchange = (*fakeExchange)(nil)
