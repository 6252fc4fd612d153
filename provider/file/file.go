package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/WinPooh32/tradeadapter/history"
	"github.com/WinPooh32/tradeadapter/platform"
)

var ErrEmpty = errors.New("history file has no trades")

// File replays trades recorded by the history writer. It holds a single
// instrument, the symbol argument is only copied into the results.
type File struct {
	mu   sync.Mutex
	file *os.File
}

var _ platform.Public = (*File)(nil)

func Open(name string) (f *File, err error) {
	f = &File{}
	f.file, err = os.OpenFile(name, os.O_CREATE|os.O_RDONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open: %w", err)
	}
	return f, nil
}

func (f *File) Close() error {
	return f.file.Close()
}

func (f *File) FetchTrades(ctx context.Context, symbol string) ([]platform.Trade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind: %w", err)
	}

	r, err := history.NewReader(f.file)
	if err != nil {
		return nil, fmt.Errorf("history new reader: %w", err)
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read trades: %w", err)
	}

	trades := make([]platform.Trade, 0, len(records))
	for _, rec := range records {
		trades = append(trades, platform.Trade{
			Time:     rec.Time,
			Symbol:   symbol,
			Price:    rec.Price,
			Quantity: rec.Quantity,
		})
	}
	return trades, nil
}

// FetchTicker quotes the last recorded price on both sides.
func (f *File) FetchTicker(ctx context.Context, symbol string) (platform.Ticker, error) {
	trades, err := f.FetchTrades(ctx, symbol)
	if err != nil {
		return platform.Ticker{}, err
	}
	if len(trades) == 0 {
		return platform.Ticker{}, ErrEmpty
	}

	last := trades[len(trades)-1]
	return platform.Ticker{
		Symbol: symbol,
		Time:   last.Time,
		Bid:    last.Price,
		Ask:    last.Price,
	}, nil
}
