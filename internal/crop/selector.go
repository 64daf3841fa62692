package crop

import (
	"image"
	"math"

	posterimage "poster-editor/internal/image"
	"poster-editor/pkg/geometry"
)

// Widget is the crop-box widget a Session drives. It owns the source image
// and the selection rectangle; the session never looks inside either.
type Widget interface {
	// Image returns the (rotated) source as displayed by the widget.
	Image() image.Image
	// ContainerSize returns the unscaled size of the widget's display area.
	ContainerSize() geometry.Size
	// Selection returns the crop rectangle in container coordinates.
	Selection() geometry.Rect
	// SetSelection moves/resizes the crop rectangle, enforcing the aspect
	// ratio and the container bounds, and returns what was applied.
	SetSelection(r geometry.Rect) geometry.Rect
	// Rasterize renders the selection no larger than maxW x maxH.
	Rasterize(maxW, maxH int) image.Image
	// Rotate rotates the source image clockwise by degrees.
	Rotate(degrees float64)
	// Destroy releases the widget; it must not be used afterwards.
	Destroy()
}

// WidgetOptions configure a new widget.
type WidgetOptions struct {
	AspectRatio  float64 // Width/height of the selection; <= 0 leaves it free
	AutoCropArea float64 // Initial selection size relative to the largest fit
}

// WidgetFactory creates the widget for a source image.
type WidgetFactory func(src image.Image, opts WidgetOptions) Widget

// Selector is the built-in Widget: an axis-aligned crop box with a fixed
// aspect ratio over a rotatable source image.
type Selector struct {
	source  image.Image
	rotated image.Image
	angle   float64
	opts    WidgetOptions
	sel     geometry.Rect
}

// NewSelector creates a Selector with the default selection in place.
func NewSelector(src image.Image, opts WidgetOptions) Widget {
	if opts.AutoCropArea <= 0 || opts.AutoCropArea > 1 {
		opts.AutoCropArea = 1
	}
	s := &Selector{source: src, rotated: src, opts: opts}
	s.resetSelection()
	return s
}

// Image returns the rotated source.
func (s *Selector) Image() image.Image {
	return s.rotated
}

// ContainerSize returns the size of the rotated source.
func (s *Selector) ContainerSize() geometry.Size {
	if s.rotated == nil {
		return geometry.Size{}
	}
	b := s.rotated.Bounds()
	return geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
}

// Selection returns the crop rectangle.
func (s *Selector) Selection() geometry.Rect {
	return s.sel
}

// SetSelection applies r, keeping its width and deriving the height from the
// aspect ratio, then clamps it inside the source.
func (s *Selector) SetSelection(r geometry.Rect) geometry.Rect {
	bounds := s.ContainerSize()
	if a := s.opts.AspectRatio; a > 0 {
		r.Width = math.Max(1, r.Width)
		r.Height = r.Width / a
		if r.Width > bounds.Width {
			r.Width, r.Height = bounds.Width, bounds.Width/a
		}
		if r.Height > bounds.Height {
			r.Width, r.Height = bounds.Height*a, bounds.Height
		}
	}
	s.sel = r.ClampWithin(bounds)
	return s.sel
}

// Rasterize crops the rotated source to the selection.
func (s *Selector) Rasterize(maxW, maxH int) image.Image {
	if s.rotated == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	return posterimage.CropRect(s.rotated, s.sel, maxW, maxH)
}

// Rotate turns the source and re-centers the selection.
func (s *Selector) Rotate(degrees float64) {
	if s.source == nil || degrees == 0 {
		return
	}
	s.angle = math.Mod(s.angle+degrees, 360)
	s.rotated = posterimage.Rotate(s.source, s.angle)
	s.resetSelection()
}

// Destroy drops the image references.
func (s *Selector) Destroy() {
	s.source = nil
	s.rotated = nil
	s.sel = geometry.Rect{}
}

// resetSelection places the largest box of the configured aspect that fits
// the source, shrunk by AutoCropArea and centered.
func (s *Selector) resetSelection() {
	bounds := s.ContainerSize()
	w, h := bounds.Width, bounds.Height
	if a := s.opts.AspectRatio; a > 0 && !bounds.Empty() {
		if w/h > a {
			w = h * a
		} else {
			h = w / a
		}
	}
	w *= s.opts.AutoCropArea
	h *= s.opts.AutoCropArea
	s.sel = geometry.NewRect((bounds.Width-w)/2, (bounds.Height-h)/2, w, h)
}
