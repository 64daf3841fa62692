// Package colorutil provides shared color utilities for the poster editor.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Common colors used throughout the application.
var (
	Black       = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Transparent = color.RGBA{}
	Selection   = color.RGBA{R: 0, G: 153, B: 255, A: 255}
	Workspace   = color.RGBA{R: 40, G: 40, B: 40, A: 255} // Dark gray behind the canvas
)

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa" into a premultiplied
// RGBA color.
func ParseHex(s string) (color.RGBA, error) {
	h, err := expand(s)
	if err != nil {
		return color.RGBA{}, err
	}
	v, _ := strconv.ParseUint(h, 16, 32)
	n := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(n).(color.RGBA), nil
}

// ParseHexOrBlack is ParseHex that falls back to black on malformed input.
func ParseHexOrBlack(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		return Black
	}
	return c
}

// Normalize rewrites a hex color in its canonical lower-case form: "#rrggbb"
// when opaque, "#rrggbbaa" otherwise.
func Normalize(s string) (string, error) {
	h, err := expand(s)
	if err != nil {
		return "", err
	}
	return "#" + strings.TrimSuffix(h, "ff"), nil
}

// SplitAlpha separates a normalized color into "#rrggbb" and an opacity in
// [0, 1]. Malformed input gives black.
func SplitAlpha(s string) (string, float64) {
	h, err := expand(s)
	if err != nil {
		return "#000000", 1
	}
	a, _ := strconv.ParseUint(h[6:], 16, 8)
	return "#" + h[:6], float64(a) / 255
}

// Hex formats c as "#rrggbb", or "#rrggbbaa" when it is not opaque.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// expand returns the eight lower-case hex digits of s.
func expand(s string) (string, error) {
	h := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return "", fmt.Errorf("invalid hex color %q", s)
	}
	if _, err := strconv.ParseUint(h, 16, 32); err != nil {
		return "", fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return h, nil
}
