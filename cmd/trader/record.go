package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/WinPooh32/tradeadapter/config"
	"github.com/WinPooh32/tradeadapter/history"
	"github.com/WinPooh32/tradeadapter/platform"
	"github.com/WinPooh32/tradeadapter/provider/file"
	"github.com/WinPooh32/tradeadapter/retry"
	"github.com/WinPooh32/tradeadapter/trader"
	"go.uber.org/zap"
)

// recorder appends trades newer than the last recorded one.
// Trades sharing the last recorded millisecond are skipped.
type recorder struct {
	public  platform.Public
	symbol  string
	w       history.Writer
	last    int64
	retrier *retry.Retrier
	policy  retry.Policy
}

func (r *recorder) poll(ctx context.Context) (int, error) {
	trades, err := retry.Do(ctx, r.retrier, "getTrades", r.policy, func(ctx context.Context) ([]platform.Trade, error) {
		return r.public.FetchTrades(ctx, r.symbol)
	})
	if err != nil {
		return 0, err
	}

	n := 0
	for _, tr := range trades {
		if tr.Time <= r.last {
			continue
		}
		err := r.w.Write(history.Record{
			Time:     tr.Time,
			Price:    tr.Price,
			Quantity: tr.Quantity,
		})
		if err != nil {
			return n, fmt.Errorf("write record: %w", err)
		}
		r.last = tr.Time
		n++
	}
	return n, nil
}

func (r *recorder) run(ctx context.Context, interval time.Duration, log *zap.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		n, err := r.poll(ctx)
		if err != nil {
			return err
		}
		log.Info("recorded trades", zap.Int("count", n), zap.Int64("last", r.last))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func lastRecorded(ctx context.Context, name string) (int64, error) {
	f, err := file.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	ticker, err := f.FetchTicker(ctx, "")
	if errors.Is(err, file.ErrEmpty) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return ticker.Time, nil
}

func record(ctx context.Context, cfg config.Config, public platform.Public, log *zap.Logger, interval time.Duration) error {
	if cfg.HistoryFile == "" {
		return fmt.Errorf("record: history_file is not set: %w", errUsage)
	}

	last, err := lastRecorded(ctx, cfg.HistoryFile)
	if err != nil {
		return fmt.Errorf("read history file: %w", err)
	}

	out, err := os.OpenFile(cfg.HistoryFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer out.Close()

	w, err := history.NewWriter(out)
	if err != nil {
		return fmt.Errorf("history new writer: %w", err)
	}

	r := &recorder{
		public: public,
		symbol: cfg.Pair().Symbol(),
		w:      w,
		last:   last,
		retrier: retry.New(
			retry.WithNotify(trader.Observer(log)),
			retry.WithRetryUnclassified(cfg.RetryUnclassified),
		),
		policy: retry.Forever,
	}
	return r.run(ctx, interval, log)
}
