package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHistory(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "ETN-BTC.csv")
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
	return name
}

func TestFetchTrades(t *testing.T) {
	f, err := Open(writeHistory(t, "1525176000000,0.000015,100\n1525176060000,0.0000151,20\n"))
	require.NoError(t, err)
	defer f.Close()

	for i := 0; i < 2; i++ {
		trades, err := f.FetchTrades(context.Background(), "ETN/BTC")
		require.NoError(t, err)
		require.Len(t, trades, 2)
		assert.Equal(t, int64(1525176000000), trades[0].Time)
		assert.Equal(t, "ETN/BTC", trades[1].Symbol)
	}
}

func TestFetchTicker(t *testing.T) {
	f, err := Open(writeHistory(t, "1525176000000,0.000015,100\n1525176060000,0.0000151,20\n"))
	require.NoError(t, err)
	defer f.Close()

	ticker, err := f.FetchTicker(context.Background(), "ETN/BTC")

	require.NoError(t, err)
	assert.Equal(t, "0.0000151", ticker.Bid.String())
	assert.Equal(t, "0.0000151", ticker.Ask.String())
	assert.Equal(t, int64(1525176060000), ticker.Time)
}

func TestFetchTickerEmpty(t *testing.T) {
	f, err := Open(filepath.Join(t.TempDir(), "new.csv"))
	require.NoError(t, err)
	defer f.Close()

	_, err = f.FetchTicker(context.Background(), "ETN/BTC")
	assert.ErrorIs(t, err, ErrEmpty)
}
