// Package units converts physical paper dimensions to canvas pixels.
package units

import (
	"fmt"
	"strings"
)

// DPI is the reference density used for every conversion.
const DPI = 96.0

const (
	mmPerInch = 25.4
	cmPerInch = 2.54
)

// Unit identifies the physical unit of a length.
type Unit int

const (
	Native     Unit = iota // Already in pixels
	Inch                   // in
	Millimeter             // mm
	Centimeter             // cm
)

func (u Unit) String() string {
	switch u {
	case Inch:
		return "in"
	case Millimeter:
		return "mm"
	case Centimeter:
		return "cm"
	default:
		return "px"
	}
}

// ParseUnit parses a unit abbreviation as used in CSS ("px", "in", "mm", "cm").
// An empty string is treated as pixels.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "px":
		return Native, nil
	case "in":
		return Inch, nil
	case "mm":
		return Millimeter, nil
	case "cm":
		return Centimeter, nil
	}
	return Native, fmt.Errorf("unknown unit %q", s)
}

// MarshalText encodes the unit as its abbreviation.
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText decodes a unit abbreviation.
func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// ToPixels converts value in the given unit to pixels at 96 DPI.
// Zero and negative values are converted like any other; rejecting
// nonsensical paper sizes is up to the caller.
func ToPixels(value float64, unit Unit) float64 {
	switch unit {
	case Inch:
		return value * DPI
	case Millimeter:
		return value * DPI / mmPerInch
	case Centimeter:
		return value * DPI / cmPerInch
	default:
		return value
	}
}

// Length is a value paired with its unit, e.g. one side of a paper size.
type Length struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

// Pixels returns the length in pixels.
func (l Length) Pixels() float64 {
	return ToPixels(l.Value, l.Unit)
}

// String formats the length the way CSS expects it ("210mm").
func (l Length) String() string {
	return fmt.Sprintf("%g%s", l.Value, l.Unit)
}
