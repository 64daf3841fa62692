// Package scene is the in-process object graph behind the editor: a fixed-size
// canvas with a stretched background image and a z-ordered stack of text and
// image layers, plus selection, change notifications and JSON serialization.
package scene

import (
	"math"

	posterimage "poster-editor/internal/image"
	"poster-editor/pkg/colorutil"
	"poster-editor/pkg/geometry"
)

// Type identifies what a layer draws.
type Type string

const (
	TypeText  Type = "i-text"
	TypeImage Type = "image"
)

// Font weight and style values.
const (
	WeightNormal = "normal"
	WeightBold   = "bold"
	StyleNormal  = "normal"
	StyleItalic  = "italic"
)

// Layer is one positionable object on the canvas. Left/Top locate the
// unrotated top-left corner; Angle rotates clockwise about it, in degrees.
type Layer struct {
	ID      string  `json:"id"`
	Type    Type    `json:"type"`
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	ScaleX  float64 `json:"scaleX"`
	ScaleY  float64 `json:"scaleY"`
	Angle   float64 `json:"angle"`
	Opacity float64 `json:"opacity"`

	// Text layers
	Text       string  `json:"text,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	Fill       string  `json:"fill,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"`
	FontStyle  string  `json:"fontStyle,omitempty"`
	Underline  bool    `json:"underline,omitempty"`

	// Image layers
	Src string `json:"src,omitempty"`
}

// NewText creates a text layer with the given content and typography.
func NewText(text, family string, size float64, fill string) *Layer {
	l := &Layer{
		Type:       TypeText,
		ScaleX:     1,
		ScaleY:     1,
		Opacity:    1,
		Text:       text,
		FontFamily: family,
		FontSize:   size,
		Fill:       fill,
		FontWeight: WeightNormal,
		FontStyle:  StyleNormal,
	}
	l.Measure()
	return l
}

// NewImage creates an image layer showing pic at its natural size.
func NewImage(pic *posterimage.Picture) *Layer {
	return &Layer{
		Type:    TypeImage,
		Width:   float64(pic.Width),
		Height:  float64(pic.Height),
		ScaleX:  1,
		ScaleY:  1,
		Opacity: 1,
		Src:     pic.Src,
	}
}

// IsText reports whether the layer carries text styling.
func (l *Layer) IsText() bool {
	return l.Type == TypeText
}

// Clone returns an independent copy.
func (l *Layer) Clone() *Layer {
	c := *l
	return &c
}

// Bold reports whether the text is bold.
func (l *Layer) Bold() bool { return l.FontWeight == WeightBold }

// Italic reports whether the text is italic.
func (l *Layer) Italic() bool { return l.FontStyle == StyleItalic }

// TextStyle returns the style used to rasterize a text layer.
func (l *Layer) TextStyle() posterimage.TextStyle {
	return posterimage.TextStyle{
		Text:       l.Text,
		FontFamily: l.FontFamily,
		FontSize:   l.FontSize,
		Fill:       colorutil.ParseHexOrBlack(l.Fill),
		Bold:       l.Bold(),
		Italic:     l.Italic(),
		Underline:  l.Underline,
	}
}

// Measure recomputes Width/Height of a text layer from its content.
func (l *Layer) Measure() {
	if !l.IsText() {
		return
	}
	w, h, err := posterimage.MeasureText(l.TextStyle())
	if err != nil {
		return
	}
	l.Width, l.Height = w, h
}

// ScaledWidth returns the width on the canvas before rotation.
func (l *Layer) ScaledWidth() float64 { return l.Width * l.ScaleX }

// ScaledHeight returns the height on the canvas before rotation.
func (l *Layer) ScaledHeight() float64 { return l.Height * l.ScaleY }

// ScaleToWidth scales the layer uniformly so its width becomes w.
func (l *Layer) ScaleToWidth(w float64) {
	if l.Width <= 0 {
		return
	}
	s := w / l.Width
	l.ScaleX, l.ScaleY = s, s
}

// Transform maps layer-local pixels to canvas pixels.
func (l *Layer) Transform() geometry.AffineTransform {
	return geometry.Translation(l.Left, l.Top).
		Compose(geometry.Rotation(l.Angle * math.Pi / 180)).
		Compose(geometry.Scale(l.ScaleX, l.ScaleY))
}

// Bounds returns the layer's axis-aligned bounding box on the canvas.
func (l *Layer) Bounds() geometry.Rect {
	return l.Transform().BoundsOf(geometry.NewRect(0, 0, l.Width, l.Height))
}
