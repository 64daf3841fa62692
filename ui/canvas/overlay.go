package canvas

import (
	"image"
	"image/color"

	"poster-editor/internal/viewtransform"
	"poster-editor/pkg/geometry"

	"golang.org/x/image/draw"
)

// Overlay is drawn over the content. Rectangles are in content coordinates.
type Overlay struct {
	Rectangles []geometry.Rect
	Color      color.RGBA
	Thickness  int
	// DimOutside darkens everything outside the first rectangle, as the crop
	// view does around its selection.
	DimOutside bool
}

func (o *Overlay) draw(out *image.RGBA, l viewtransform.Layout, px float64) {
	thickness := o.Thickness
	if thickness <= 0 {
		thickness = 2
	}
	for i, r := range o.Rectangles {
		pr := pixelRect(l.MarginLeft+r.X*l.Scale, l.MarginTop+r.Y*l.Scale, r.Width*l.Scale, r.Height*l.Scale, px)
		if i == 0 && o.DimOutside {
			content := pixelRect(l.MarginLeft, l.MarginTop, l.RenderedWidth, l.RenderedHeight, px)
			dimOutside(out, content, pr)
		}
		drawRectOutline(out, pr, o.Color, thickness)
	}
}

var dim = image.NewUniform(color.NRGBA{A: 0x80})

// dimOutside darkens the part of area not covered by keep.
func dimOutside(out *image.RGBA, area, keep image.Rectangle) {
	keep = keep.Intersect(area)
	for _, r := range []image.Rectangle{
		image.Rect(area.Min.X, area.Min.Y, area.Max.X, keep.Min.Y),
		image.Rect(area.Min.X, keep.Max.Y, area.Max.X, area.Max.Y),
		image.Rect(area.Min.X, keep.Min.Y, keep.Min.X, keep.Max.Y),
		image.Rect(keep.Max.X, keep.Min.Y, area.Max.X, keep.Max.Y),
	} {
		if !r.Empty() {
			draw.Draw(out, r, dim, image.Point{}, draw.Over)
		}
	}
}

// drawRectOutline draws the border of r, thickness pixels wide, inside r.
func drawRectOutline(out *image.RGBA, r image.Rectangle, col color.RGBA, thickness int) {
	if r.Empty() {
		return
	}
	src := image.NewUniform(col)
	t := min(thickness, r.Dx()/2+1, r.Dy()/2+1)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y),
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(out, edge.Intersect(out.Bounds()), src, image.Point{}, draw.Over)
	}
}
