package image

import (
	"image"
	"image/color"

	"poster-editor/pkg/geometry"

	"golang.org/x/image/draw"
)

// Composite combines a background and a stack of transformed layers into a
// single raster.
type Composite struct {
	Width     int
	Height    int
	Scale     float64 // Output pixels per canvas pixel
	Layers    []*CompositeLayer
	BackColor color.Color
}

// CompositeLayer is one image placed on the canvas.
type CompositeLayer struct {
	Image     image.Image
	Transform geometry.AffineTransform // Source pixels to canvas pixels
	Opacity   float64                  // 0.0 - 1.0
}

// NewComposite creates a Composite with a white background for a canvas of the
// given size, rendered at scale output pixels per canvas pixel.
func NewComposite(width, height int, scale float64) *Composite {
	if scale <= 0 {
		scale = 1
	}
	return &Composite{
		Width:     width,
		Height:    height,
		Scale:     scale,
		BackColor: color.White,
	}
}

// AddLayer adds a layer on top of the stack.
func (c *Composite) AddLayer(img image.Image, transform geometry.AffineTransform, opacity float64) {
	c.Layers = append(c.Layers, &CompositeLayer{
		Image:     img,
		Transform: transform,
		Opacity:   opacity,
	})
}

// AddStretched adds img stretched to cover the whole canvas.
func (c *Composite) AddStretched(img image.Image) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	c.AddLayer(img, geometry.Scale(float64(c.Width)/float64(b.Dx()), float64(c.Height)/float64(b.Dy())), 1)
}

// Bounds returns the output raster bounds.
func (c *Composite) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(float64(c.Width)*c.Scale+0.5), int(float64(c.Height)*c.Scale+0.5))
}

// Render produces the final composited image.
func (c *Composite) Render() *image.RGBA {
	result := image.NewRGBA(c.Bounds())
	if c.BackColor != nil {
		draw.Draw(result, result.Bounds(), &image.Uniform{c.BackColor}, image.Point{}, draw.Src)
	}

	out := geometry.Scale(c.Scale, c.Scale)
	for _, cl := range c.Layers {
		if cl == nil || cl.Image == nil || cl.Opacity <= 0 {
			continue
		}
		c.compositeLayer(result, cl, out)
	}
	return result
}

// compositeLayer draws a single layer over the result.
func (c *Composite) compositeLayer(dst *image.RGBA, cl *CompositeLayer, out geometry.AffineTransform) {
	src := cl.Image
	b := src.Bounds()
	s2d := out.Compose(cl.Transform).Compose(geometry.Translation(-float64(b.Min.X), -float64(b.Min.Y)))

	var opts *draw.Options
	if cl.Opacity < 1 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(clamp(cl.Opacity, 0, 1) * 255)})}
	}
	draw.CatmullRom.Transform(dst, toAff3(s2d), src, b, draw.Over, opts)
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
