package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#000000", Black},
		{"#ffffff", White},
		{"#FFF", White},
		{"#ff000080", color.RGBA{R: 128, A: 128}},
		{" #0099ff ", Selection},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "#12", "#gggggg", "red"} {
		_, err := ParseHex(bad)
		assert.Error(t, err, bad)
	}
}

func TestHexRoundTrip(t *testing.T) {
	assert.Equal(t, "#0099ff", Hex(Selection))
	assert.Equal(t, Selection, ParseHexOrBlack(Hex(Selection)))
	assert.Equal(t, Black, ParseHexOrBlack("nope"))

	half, err := ParseHex("#ff000080")
	require.NoError(t, err)
	assert.Equal(t, "#ff000080", Hex(half))
}

func TestNormalizeKeepsAlpha(t *testing.T) {
	tests := []struct{ in, want string }{
		{"#F00", "#ff0000"},
		{"#FF0000FF", "#ff0000"},
		{" #12345680", "#12345680"},
		{"#0099ff", "#0099ff"},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := Normalize("#12345")
	assert.Error(t, err)
}

func TestSplitAlpha(t *testing.T) {
	rgb, opacity := SplitAlpha("#12345680")
	assert.Equal(t, "#123456", rgb)
	assert.InDelta(t, 128.0/255, opacity, 1e-9)

	rgb, opacity = SplitAlpha("#abc")
	assert.Equal(t, "#aabbcc", rgb)
	assert.Equal(t, 1.0, opacity)

	rgb, opacity = SplitAlpha("bogus")
	assert.Equal(t, "#000000", rgb)
	assert.Equal(t, 1.0, opacity)
}
