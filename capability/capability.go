// Package capability describes what each supported exchange can do.
package capability

import (
	"slices"
	"sort"

	"github.com/WinPooh32/tradeadapter/platform"
)

const (
	UnitAsset    = "asset"
	UnitCurrency = "currency"
)

type MinimalOrder struct {
	Amount float64
	Unit   string
}

// Market lists a tradable pair as [currency, asset].
type Market struct {
	Pair         [2]string
	MinimalOrder MinimalOrder
}

type Capabilities struct {
	Name            string
	Slug            string
	Currencies      []string
	Assets          []string
	Markets         []Market
	Requires        []string
	TID             string
	Tradable        bool
	FetchTimespan   int // seconds
	ProvidesHistory string
}

// Supports reports whether the pair is listed as a market.
func (c Capabilities) Supports(pair platform.Pair) bool {
	for _, m := range c.Markets {
		if m.Pair[0] == pair.Currency && m.Pair[1] == pair.Asset {
			return true
		}
	}
	return false
}

// Market returns the listing for the pair.
func (c Capabilities) Market(pair platform.Pair) (Market, bool) {
	for _, m := range c.Markets {
		if m.Pair[0] == pair.Currency && m.Pair[1] == pair.Asset {
			return m, true
		}
	}
	return Market{}, false
}

func (c Capabilities) clone() Capabilities {
	c.Currencies = slices.Clone(c.Currencies)
	c.Assets = slices.Clone(c.Assets)
	c.Markets = slices.Clone(c.Markets)
	c.Requires = slices.Clone(c.Requires)
	return c
}

var table = map[string]Capabilities{}

func register(c Capabilities) {
	for _, currency := range c.Currencies {
		for _, asset := range c.Assets {
			c.Markets = append(c.Markets, Market{
				Pair:         [2]string{currency, asset},
				MinimalOrder: MinimalOrder{Amount: 0.00000001, Unit: UnitAsset},
			})
		}
	}
	table[c.Slug] = c
}

func init() {
	register(Capabilities{
		Name:            "Cryptopia",
		Slug:            "cryptopia",
		Currencies:      []string{"BTC"},
		Assets:          []string{"ETN", "LINDA", "PRL", "WSX"},
		Requires:        []string{"key", "secret"},
		TID:             "date",
		Tradable:        true,
		FetchTimespan:   60,
		ProvidesHistory: "date",
	})
	register(Capabilities{
		Name:            "Binance",
		Slug:            "binance",
		Currencies:      []string{"BTC", "USDT"},
		Assets:          []string{"BNB", "ETH", "LTC"},
		Requires:        []string{"key", "secret"},
		TID:             "date",
		Tradable:        true,
		FetchTimespan:   60,
		ProvidesHistory: "date",
	})
}

// Get returns a copy of the exchange description, so callers may modify it freely.
func Get(slug string) (Capabilities, bool) {
	c, ok := table[slug]
	if !ok {
		return Capabilities{}, false
	}
	return c.clone(), true
}

func Slugs() []string {
	slugs := make([]string, 0, len(table))
	for slug := range table {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
