package platform

import (
	"fmt"
	"strings"
)

const (
	pairSep   = "-"
	symbolSep = "/"
)

// Pair is an (asset, currency) instrument, e.g. ETN priced in BTC.
type Pair struct {
	Asset    string
	Currency string
}

func NewPair(asset, currency string) Pair {
	return Pair{
		Asset:    strings.ToUpper(strings.TrimSpace(asset)),
		Currency: strings.ToUpper(strings.TrimSpace(currency)),
	}
}

// ParsePair accepts the display form "ASSET-CURRENCY" as well as the
// collaborator form "ASSET/CURRENCY".
func ParsePair(s string) (Pair, error) {
	sep := pairSep
	if strings.Contains(s, symbolSep) {
		sep = symbolSep
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return Pair{}, fmt.Errorf("malformed pair %q", s)
	}
	p := NewPair(parts[0], parts[1])
	if err := p.Validate(); err != nil {
		return Pair{}, err
	}
	return p, nil
}

func (p Pair) Validate() error {
	if p.Asset == "" || p.Currency == "" {
		return fmt.Errorf("pair %q: asset and currency are required", p.String())
	}
	return nil
}

// String returns the display and configuration form.
func (p Pair) String() string {
	return p.Asset + pairSep + p.Currency
}

// Symbol returns the form passed to the collaborator.
func (p Pair) Symbol() string {
	return p.Asset + symbolSep + p.Currency
}
