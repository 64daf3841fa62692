package units

import (
	"fmt"
	"math"
	"strings"
)

// Paper is a physical page size.
type Paper struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Unit   Unit    `json:"unit" yaml:"unit"`
}

// Standard paper sizes in portrait orientation.
var (
	A3     = Paper{297, 420, Millimeter}
	A4     = Paper{210, 297, Millimeter}
	A5     = Paper{148, 210, Millimeter}
	Letter = Paper{8.5, 11, Inch}
	Legal  = Paper{8.5, 14, Inch}
)

var papers = map[string]Paper{
	"a3":     A3,
	"a4":     A4,
	"a5":     A5,
	"letter": Letter,
	"legal":  Legal,
}

// PaperNames returns the names accepted by LookupPaper.
func PaperNames() []string {
	return []string{"a3", "a4", "a5", "letter", "legal"}
}

// LookupPaper returns a standard size by case-insensitive name.
func LookupPaper(name string) (Paper, bool) {
	p, ok := papers[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Validate rejects sizes that cannot back a canvas.
func (p Paper) Validate() error {
	if !(p.Width > 0) || !(p.Height > 0) || math.IsInf(p.Width, 0) || math.IsInf(p.Height, 0) {
		return fmt.Errorf("invalid paper size %gx%g%s", p.Width, p.Height, p.Unit)
	}
	return nil
}

// Pixels returns the canvas size in whole pixels.
func (p Paper) Pixels() (width, height int) {
	return int(math.Round(ToPixels(p.Width, p.Unit))), int(math.Round(ToPixels(p.Height, p.Unit)))
}

// Aspect returns width divided by height.
func (p Paper) Aspect() float64 {
	if p.Height == 0 {
		return 0
	}
	return p.Width / p.Height
}

// Landscape returns the paper with its long side horizontal.
func (p Paper) Landscape() Paper {
	if p.Width < p.Height {
		p.Width, p.Height = p.Height, p.Width
	}
	return p
}

// CSSSize formats the size for an @page rule ("210mm 297mm").
func (p Paper) CSSSize() string {
	return Length{p.Width, p.Unit}.String() + " " + Length{p.Height, p.Unit}.String()
}
