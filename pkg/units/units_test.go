package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPixels(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		unit  Unit
		want  float64
	}{
		{"native", 123.5, Native, 123.5},
		{"inch", 2, Inch, 192},
		{"millimeter", 25.4, Millimeter, 96},
		{"centimeter", 2.54, Centimeter, 96},
		{"a4 width", 210, Millimeter, 210 * 96 / 25.4},
		{"zero", 0, Inch, 0},
		{"negative", -1, Inch, -96},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ToPixels(tt.value, tt.unit), 1e-9)
		})
	}
}

func TestParseUnit(t *testing.T) {
	for _, s := range []string{"px", "in", "mm", "cm"} {
		u, err := ParseUnit(s)
		require.NoError(t, err)
		assert.Equal(t, s, u.String())
	}

	u, err := ParseUnit("")
	require.NoError(t, err)
	assert.Equal(t, Native, u)

	u, err = ParseUnit(" MM ")
	require.NoError(t, err)
	assert.Equal(t, Millimeter, u)

	_, err = ParseUnit("pt")
	assert.Error(t, err)
}

func TestLength(t *testing.T) {
	l := Length{Value: 10, Unit: Centimeter}
	assert.InDelta(t, 10*96/2.54, l.Pixels(), 1e-9)
	assert.Equal(t, "10cm", l.String())
}

func TestUnitText(t *testing.T) {
	var u Unit
	require.NoError(t, u.UnmarshalText([]byte("cm")))
	assert.Equal(t, Centimeter, u)

	text, err := Inch.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "in", string(text))

	assert.Error(t, u.UnmarshalText([]byte("furlong")))
}
