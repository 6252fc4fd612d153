package capability

import (
	"testing"

	"github.com/WinPooh32/tradeadapter/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptopia(t *testing.T) {
	c, ok := Get("cryptopia")
	require.True(t, ok)

	assert.Equal(t, "Cryptopia", c.Name)
	assert.Equal(t, []string{"BTC"}, c.Currencies)
	assert.Equal(t, []string{"ETN", "LINDA", "PRL", "WSX"}, c.Assets)
	assert.Equal(t, []string{"key", "secret"}, c.Requires)
	assert.Equal(t, "date", c.TID)
	assert.Equal(t, "date", c.ProvidesHistory)
	assert.True(t, c.Tradable)
	assert.Equal(t, 60, c.FetchTimespan)

	require.Len(t, c.Markets, 4)
	assert.Equal(t, Market{
		Pair:         [2]string{"BTC", "ETN"},
		MinimalOrder: MinimalOrder{Amount: 0.00000001, Unit: UnitAsset},
	}, c.Markets[0])
}

func TestSupports(t *testing.T) {
	c, ok := Get("cryptopia")
	require.True(t, ok)

	assert.True(t, c.Supports(platform.NewPair("etn", "btc")))
	assert.False(t, c.Supports(platform.NewPair("btc", "etn")))
	assert.False(t, c.Supports(platform.NewPair("doge", "btc")))

	m, ok := c.Market(platform.NewPair("WSX", "BTC"))
	require.True(t, ok)
	assert.Equal(t, UnitAsset, m.MinimalOrder.Unit)
}

func TestGetReturnsCopy(t *testing.T) {
	c, ok := Get("cryptopia")
	require.True(t, ok)

	c.Assets[0] = "XXX"
	c.Markets[0].Pair[1] = "XXX"
	c.Requires = nil

	again, _ := Get("cryptopia")
	assert.Equal(t, "ETN", again.Assets[0])
	assert.Equal(t, "ETN", again.Markets[0].Pair[1])
	assert.Equal(t, []string{"key", "secret"}, again.Requires)
}

func TestUnknown(t *testing.T) {
	_, ok := Get("mtgox")
	assert.False(t, ok)
	assert.Equal(t, []string{"binance", "cryptopia"}, Slugs())
}
