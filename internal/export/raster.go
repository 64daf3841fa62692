// Package export writes a poster document out as a PNG raster, an SVG for
// printing, a print-ready HTML page or the plain JSON document.
package export

import (
	"fmt"
	"image"
	"image/png"
	"io"

	posterimage "poster-editor/internal/image"
	"poster-editor/internal/scene"
	"poster-editor/pkg/colorutil"
	"poster-editor/pkg/geometry"
)

// DefaultMultiplier is the pixel density of PNG exports relative to the
// canvas.
const DefaultMultiplier = 2.0

// Render rasterizes doc at multiplier output pixels per canvas pixel.
func Render(doc *scene.Document, multiplier float64) (*image.RGBA, error) {
	if multiplier <= 0 {
		multiplier = DefaultMultiplier
	}
	comp := posterimage.NewComposite(doc.Width, doc.Height, multiplier)
	if c, err := colorutil.ParseHex(doc.Background); err == nil {
		comp.BackColor = c
	}

	if bg := doc.BackgroundImage; bg != nil && bg.Src != "" {
		pic, err := posterimage.FromDataURL(bg.Src)
		if err != nil {
			return nil, fmt.Errorf("background image: %w", err)
		}
		b := pic.Image.Bounds()
		comp.AddLayer(pic.Image, geometry.Scale(
			bg.Width*bg.ScaleX/float64(b.Dx()),
			bg.Height*bg.ScaleY/float64(b.Dy()),
		), 1)
	}

	for _, l := range doc.Objects {
		if err := addLayer(comp, l, multiplier); err != nil {
			return nil, fmt.Errorf("layer %s: %w", l.ID, err)
		}
	}
	return comp.Render(), nil
}

func addLayer(comp *posterimage.Composite, l *scene.Layer, multiplier float64) error {
	// Documents written without an opacity draw opaque.
	opacity := l.Opacity
	if opacity == 0 {
		opacity = 1
	}
	switch l.Type {
	case scene.TypeText:
		// Glyphs are rasterized at the output density and scaled back into
		// layer space so they stay sharp.
		img, err := posterimage.RenderText(l.TextStyle(), multiplier)
		if err != nil {
			return err
		}
		if img.Bounds().Empty() {
			return nil
		}
		comp.AddLayer(img, l.Transform().Compose(geometry.Scale(1/multiplier, 1/multiplier)), opacity)
	case scene.TypeImage:
		pic, err := posterimage.FromDataURL(l.Src)
		if err != nil {
			return err
		}
		b := pic.Image.Bounds()
		if b.Empty() {
			return nil
		}
		comp.AddLayer(pic.Image, l.Transform().Compose(geometry.Scale(
			l.Width/float64(b.Dx()),
			l.Height/float64(b.Dy()),
		)), opacity)
	}
	return nil
}

// PNG writes doc as a PNG at multiplier times the canvas size.
func PNG(w io.Writer, doc *scene.Document, multiplier float64) error {
	img, err := Render(doc, multiplier)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
