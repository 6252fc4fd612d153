package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WinPooh32/fixed"
	"github.com/WinPooh32/tradeadapter/capability"
	"github.com/WinPooh32/tradeadapter/config"
	"github.com/WinPooh32/tradeadapter/logger"
	"github.com/WinPooh32/tradeadapter/metrics"
	"github.com/WinPooh32/tradeadapter/platform"
	"github.com/WinPooh32/tradeadapter/provider/binance"
	"github.com/WinPooh32/tradeadapter/provider/file"
	"github.com/WinPooh32/tradeadapter/provider/paper"
	"github.com/WinPooh32/tradeadapter/retry"
	"github.com/WinPooh32/tradeadapter/trader"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const usage = `usage: trader [-config path] <command> [args]

commands:
  capabilities [slug]
  fee
  portfolio
  ticker
  trades [asc|desc]
  buy <amount> <price>
  sell <amount> <price>
  check <id>
  order <id>
  cancel <id>
  record
`

var errUsage = errors.New("bad arguments")

func main() {
	configPath := flag.String("config", "", "YAML config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, *configPath, flag.Args())
	if errors.Is(err, context.Canceled) {
		fmt.Println("interrupted.")
		return
	}
	if errors.Is(err, errUsage) {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "trader:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New("trader", cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if cfg.MetricsAddr != "" {
		metrics.MustRegister()
		go serveMetrics(cfg.MetricsAddr, log)
	}

	caps, ok := capability.Get(capabilitySlug(cfg))
	if !ok {
		return fmt.Errorf("no capabilities for exchange %q", cfg.Exchange)
	}

	public, private, closer, err := connect(cfg)
	if err != nil {
		return err
	}
	defer closer()

	opts := []trader.Option{
		trader.WithLogger(log),
		trader.WithRetryUnclassified(cfg.RetryUnclassified),
	}
	if cfg.RetryReads {
		opts = append(opts, trader.WithReadPolicy(retry.Critical))
	}

	t, err := trader.New(trader.Config{
		Asset:    cfg.Asset,
		Currency: cfg.Currency,
		Key:      cfg.Key,
		Secret:   cfg.Secret,
		PostOnly: cfg.PostOnly,
	}, public, private, opts...)
	if err != nil {
		return fmt.Errorf("new trader: %w", err)
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "capabilities":
		return printCapabilities(caps, args)
	case "fee":
		fmt.Println("fee:", t.Fee())
		return nil
	case "portfolio":
		portfolio, err := t.Portfolio(ctx)
		if err != nil {
			return err
		}
		for _, b := range portfolio {
			fmt.Println(b.Name, b.Amount)
		}
		return nil
	case "ticker":
		quote, err := t.Ticker(ctx)
		if err != nil {
			return err
		}
		fmt.Println("bid:", quote.Bid, "ask:", quote.Ask)
		return nil
	case "trades":
		return printTrades(ctx, t, args)
	case "buy", "sell":
		return placeOrder(ctx, t, cmd, args)
	case "check", "order", "cancel":
		if len(args) != 1 {
			return fmt.Errorf("%s: order id required: %w", cmd, errUsage)
		}
		return orderCommand(ctx, t, cmd, args[0])
	case "record":
		if cfg.Exchange != config.ExchangeBinance {
			return fmt.Errorf("record needs exchange %q: %w", config.ExchangeBinance, errUsage)
		}
		interval := time.Duration(caps.FetchTimespan) * time.Second
		return record(ctx, cfg, public, log, interval)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func capabilitySlug(cfg config.Config) string {
	if cfg.Exchange == config.ExchangePaper {
		return config.ExchangeBinance
	}
	return cfg.Exchange
}

// connect builds the public and private handles. Paper trading quotes from
// the history file when one is configured, from live binance otherwise.
func connect(cfg config.Config) (platform.Public, platform.Private, func(), error) {
	live := binance.New(binance.Options{
		Testnet:           cfg.Testnet,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})

	switch cfg.Exchange {
	case config.ExchangePaper:
		balances, err := cfg.Balances()
		if err != nil {
			return nil, nil, nil, err
		}

		var market platform.Public = live
		closer := func() {}
		if cfg.HistoryFile != "" {
			f, err := file.Open(cfg.HistoryFile)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("open history file: %w", err)
			}
			market, closer = f, func() { _ = f.Close() }
		}

		ex := paper.New(market, balances)
		return ex, ex, closer, nil

	default:
		if cfg.Key == "" {
			return live, nil, func() {}, nil
		}
		private := binance.New(binance.Options{
			Key:               cfg.Key,
			Secret:            cfg.Secret,
			Testnet:           cfg.Testnet,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})
		return live, private, func() {}, nil
	}
}

func serveMetrics(addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("metrics server", zap.Error(err))
	}
}

func printCapabilities(caps capability.Capabilities, args []string) error {
	if len(args) == 1 {
		var ok bool
		if caps, ok = capability.Get(args[0]); !ok {
			return fmt.Errorf("unknown exchange %q, known: %v", args[0], capability.Slugs())
		}
	}

	fmt.Printf("%s (%s)\n", caps.Name, caps.Slug)
	fmt.Println("currencies:", caps.Currencies)
	fmt.Println("assets:", caps.Assets)
	for _, m := range caps.Markets {
		fmt.Printf("market: %s-%s minimal order %g %s\n", m.Pair[1], m.Pair[0], m.MinimalOrder.Amount, m.MinimalOrder.Unit)
	}
	fmt.Println("requires:", caps.Requires)
	fmt.Println("tid:", caps.TID, "tradable:", caps.Tradable)
	fmt.Println("fetch timespan:", caps.FetchTimespan, "provides history:", caps.ProvidesHistory)
	return nil
}

func printTrades(ctx context.Context, t *trader.Trader, args []string) error {
	order := trader.Ascending
	if len(args) == 1 {
		var err error
		if order, err = trader.ParseSortOrder(args[0]); err != nil {
			return fmt.Errorf("%w: %w", err, errUsage)
		}
	}

	trades, err := t.Trades(ctx, time.Time{}, order)
	if err != nil {
		return err
	}
	for _, tr := range trades {
		fmt.Println(time.Unix(tr.Date, 0).UTC().Format(time.RFC3339), tr.Price, tr.Amount, tr.TID)
	}
	return nil
}

// placeOrder submits in the background and waits for the callback, so an
// interrupt during backoff is reported through the same path as any failure.
func placeOrder(ctx context.Context, t *trader.Trader, side string, args []string) error {
	amount, price, err := parseAmountPrice(args)
	if err != nil {
		return fmt.Errorf("%s: %w", side, err)
	}

	submit := t.Buy
	if side == "sell" {
		submit = t.Sell
	}

	type result struct {
		order platform.Order
		err   error
	}
	done := make(chan result, 1)

	trader.Go(ctx, func(ctx context.Context) (platform.Order, error) {
		return submit(ctx, amount, price)
	}, func(order platform.Order, err error) {
		done <- result{order, err}
	})

	res := <-done
	if res.err != nil {
		return res.err
	}
	fmt.Println("order:", res.order.ID, res.order.Status)
	return nil
}

func parseAmountPrice(args []string) (amount, price platform.Fixed, err error) {
	if len(args) != 2 {
		return amount, price, fmt.Errorf("amount and price required: %w", errUsage)
	}
	if amount, err = fixed.NewSErr(args[0]); err != nil {
		return amount, price, fmt.Errorf("amount %q: %w", args[0], errUsage)
	}
	if price, err = fixed.NewSErr(args[1]); err != nil {
		return amount, price, fmt.Errorf("price %q: %w", args[1], errUsage)
	}
	return amount, price, nil
}

func orderCommand(ctx context.Context, t *trader.Trader, cmd, id string) error {
	switch cmd {
	case "check":
		done, err := t.CheckOrder(ctx, id)
		if err != nil {
			return err
		}
		fmt.Println("done:", done)
	case "order":
		detail, err := t.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		fmt.Println("price:", detail.Price, "amount:", detail.Amount, "date:", detail.Date.Format(time.RFC3339))
	case "cancel":
		if err := t.CancelOrder(ctx, id); err != nil {
			return err
		}
		fmt.Println("canceled:", id)
	}
	return nil
}
