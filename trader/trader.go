// Package trader adapts one exchange to the uniform trader interface used by
// the trading engine: portfolio, ticker and trade history reads, and the
// order lifecycle from submission to fill or cancel.
package trader

import (
	"context"

	"github.com/WinPooh32/fixed"
	"github.com/WinPooh32/tradeadapter/metrics"
	"github.com/WinPooh32/tradeadapter/platform"
	"github.com/WinPooh32/tradeadapter/retry"
	"go.uber.org/zap"
)

var fee = fixed.NewS("0.0002")

type Config struct {
	Asset    string
	Currency string
	Key      string
	Secret   string
	PostOnly bool
}

// Trader is immutable after New; it is safe to share, but callers must not
// run overlapping operations on the same order id.
type Trader struct {
	pair     platform.Pair
	postOnly bool

	public  platform.Public
	private platform.Private

	retrier     *retry.Retrier
	retryOpts   []retry.Option
	orderPolicy retry.Policy
	readPolicy  *retry.Policy

	log *zap.Logger
}

type Option func(t *Trader)

func WithLogger(log *zap.Logger) Option {
	return func(t *Trader) { t.log = log }
}

// WithSleep replaces the backoff timer.
func WithSleep(s retry.Sleep) Option {
	return func(t *Trader) { t.retryOpts = append(t.retryOpts, retry.WithSleep(s)) }
}

// WithRetryUnclassified retries every failed order call, not only the ones
// classified as transient.
func WithRetryUnclassified(on bool) Option {
	return func(t *Trader) { t.retryOpts = append(t.retryOpts, retry.WithRetryUnclassified(on)) }
}

func WithOrderPolicy(p retry.Policy) Option {
	return func(t *Trader) { t.orderPolicy = p }
}

// WithReadPolicy retries ticker, trades and portfolio reads too.
// By default reads fail on the first error.
func WithReadPolicy(p retry.Policy) Option {
	return func(t *Trader) { t.readPolicy = &p }
}

// New builds a trader for cfg's pair. private may be nil when no credentials
// are configured; order and portfolio calls then fail with
// platform.ErrNoCredentials.
func New(cfg Config, public platform.Public, private platform.Private, opts ...Option) (*Trader, error) {
	pair := platform.NewPair(cfg.Asset, cfg.Currency)
	if err := pair.Validate(); err != nil {
		return nil, err
	}

	t := &Trader{
		pair:        pair,
		postOnly:    cfg.PostOnly,
		public:      public,
		private:     private,
		orderPolicy: retry.Critical,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.log = t.log.With(zap.String("pair", pair.String()))
	t.retrier = retry.New(append(t.retryOpts, retry.WithNotify(t.observe))...)

	return t, nil
}

func (t *Trader) Pair() platform.Pair {
	return t.pair
}

// Fee is the maker fee rate as a fraction.
func (t *Trader) Fee() platform.Fixed {
	return fee
}

func (t *Trader) observe(e retry.Event) {
	Observer(t.log)(e)
}

// Observer counts and logs failed attempts. It is the notify hook of every
// retrier built by New.
func Observer(log *zap.Logger) func(retry.Event) {
	return func(e retry.Event) {
		metrics.ObserveAttempt(e.Op, string(e.Class), e.Final)

		fields := []zap.Field{
			zap.String("op", e.Op),
			zap.Uint("attempt", e.Attempt),
			zap.String("class", string(e.Class)),
			zap.Error(e.Err),
		}
		if e.Final {
			log.Error("giving up", fields...)
			return
		}
		log.Warn("retrying", append(fields, zap.Duration("wait", e.Wait))...)
	}
}

func (t *Trader) requirePrivate() error {
	if t.private == nil {
		return platform.ErrNoCredentials
	}
	return nil
}

// read runs a market data call, retried only when a read policy is set.
func read[T any](ctx context.Context, t *Trader, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	if t.readPolicy == nil {
		return fn(ctx)
	}
	return retry.Do(ctx, t.retrier, op, *t.readPolicy, fn)
}
