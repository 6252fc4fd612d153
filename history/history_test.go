package history

import (
	"bytes"
	"strings"
	"testing"

	"github.com/WinPooh32/fixed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenRead(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	in := []Record{
		{Time: 1525176000000, Price: fixed.NewS("0.000015"), Quantity: fixed.NewS("100")},
		{Time: 1525176060000, Price: fixed.NewS("0.0000151"), Quantity: fixed.NewS("20.5")},
	}
	for _, rec := range in {
		require.NoError(t, w.Write(rec))
	}
	assert.Equal(t, "1525176000000,0.000015,100\n1525176060000,0.0000151,20.5\n", buf.String())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	out, err := r.ReadAll()
	require.NoError(t, err)

	require.Len(t, out, 2)
	for i := range in {
		assert.Equal(t, in[i].Time, out[i].Time)
		assert.True(t, in[i].Price.Equal(out[i].Price))
		assert.True(t, in[i].Quantity.Equal(out[i].Quantity))
	}
}

func TestReadReportsEveryBadField(t *testing.T) {
	r, err := NewReader(strings.NewReader("1525176000000,0.1,1\nnot-a-time,bad,worse\n"))
	require.NoError(t, err)

	_, err = r.Read()
	require.NoError(t, err)

	_, err = r.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "3 errors occurred")
}

func TestReadShortRecord(t *testing.T) {
	r, err := NewReader(strings.NewReader("1525176000000,0.1\n"))
	require.NoError(t, err)

	_, err = r.Read()
	assert.ErrorContains(t, err, "wrong number of fields 2")
}
