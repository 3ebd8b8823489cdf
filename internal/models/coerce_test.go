package models

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNumber(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{nil, 0},
		{12, 12},
		{int64(7), 7},
		{float32(1.5), 1.5},
		{" 3.25 ", 3.25},
		{"1,234.5", 1234.5},
		{"$99", 99},
		{"n/a", 0},
		{"", 0},
		{[]byte("8"), 8},
		{json.Number("42"), 42},
		{Number(6), 6},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{true, 0},
		{struct{}{}, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ToNumber(tc.in), "input %#v", tc.in)
	}
}

func TestNumberUnmarshalJSON(t *testing.T) {
	var row struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
		D Number `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 1.5, "b": "2,000", "c": null, "d": "garbage"}`), &row))
	assert.Equal(t, Number(1.5), row.A)
	assert.Equal(t, Number(2000), row.B)
	assert.Equal(t, Number(0), row.C)
	assert.Equal(t, Number(0), row.D)
}

func TestNumberScan(t *testing.T) {
	var n Number
	require.NoError(t, n.Scan([]byte("17")))
	assert.Equal(t, Number(17), n)
	require.NoError(t, n.Scan(nil))
	assert.Equal(t, Number(0), n)
}

func TestStringListRoundTrip(t *testing.T) {
	v, err := StringList{"SLM", "FDM"}.Value()
	require.NoError(t, err)

	var l StringList
	require.NoError(t, l.Scan(v))
	assert.Equal(t, StringList{"SLM", "FDM"}, l)

	require.NoError(t, l.Scan(""))
	assert.Nil(t, l)
}

func TestStringListScanBytes(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["Ti-6Al-4V","PA \"12\""]`)))
	assert.Equal(t, StringList{"Ti-6Al-4V", `PA "12"`}, l)
	assert.Error(t, l.Scan(42))
}
