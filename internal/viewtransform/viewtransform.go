// Package viewtransform computes the uniform scale and centering margins used to
// present fixed-size content (the crop source or the poster canvas) inside a
// resizable viewport.
package viewtransform

import (
	"math"
)

// degenerateScale is used when the viewport or content is too small to give a
// positive fit and no floor was configured.
const degenerateScale = 0.01

// FitOptions control how Fit computes the fit-to-viewport scale.
type FitOptions struct {
	Padding  float64 // Subtracted from both viewport dimensions
	CapAtOne bool    // Never zoom past 100% to fill an oversize viewport
	Floor    float64 // Lower bound for the result; 0 disables it
}

// Fit returns the largest uniform scale at which content fits inside the
// padded viewport, subject to opts.
func Fit(contentW, contentH, viewportW, viewportH float64, opts FitOptions) float64 {
	if contentW <= 0 || contentH <= 0 {
		return math.Max(opts.Floor, degenerateScale)
	}

	scaleW := (viewportW - opts.Padding) / contentW
	scaleH := (viewportH - opts.Padding) / contentH
	scale := math.Min(scaleW, scaleH)
	if opts.CapAtOne {
		scale = math.Min(scale, 1)
	}
	if scale < opts.Floor {
		scale = opts.Floor
	}
	if !(scale > 0) {
		scale = degenerateScale
	}
	return scale
}

// Layout is the presentation of the content at the current scale.
type Layout struct {
	Scale          float64
	MarginLeft     float64
	MarginTop      float64
	RenderedWidth  float64
	RenderedHeight float64
}

// View is the zoom state of one viewport.
type View struct {
	ContentWidth   float64
	ContentHeight  float64
	Scale          float64
	MinScale       float64
	MaxScale       float64
	ViewportWidth  float64
	ViewportHeight float64

	fit FitOptions
	// fitIsFloor makes every re-fit also reset MinScale to the fit value, so
	// the content can never be zoomed out past the point where it fits.
	fitIsFloor bool
}

// NewEditorView returns the view used for the poster canvas: fit with 80px
// padding, never above 100%, and zoom bounded to [0.1, 5.0].
func NewEditorView(contentW, contentH float64) *View {
	return NewView(contentW, contentH, FitOptions{Padding: 80, CapAtOne: true, Floor: 0.1}, 0.1, 5.0)
}

// NewCropView returns the view used for the crop source: fit with 40px padding
// and no cap, and zoom bounded to [fit, 5.0].
func NewCropView(contentW, contentH float64) *View {
	return NewFloorView(contentW, contentH, FitOptions{Padding: 40}, 5.0)
}

// NewFloorView creates a view whose fit scale is also its minimum: every
// re-fit resets MinScale, so the content can always be brought fully into view.
func NewFloorView(contentW, contentH float64, fit FitOptions, maxScale float64) *View {
	v := NewView(contentW, contentH, fit, 0, maxScale)
	v.fitIsFloor = true
	return v
}

// NewView creates a view with explicit fit options and zoom bounds. The scale
// starts at 1.0 clamped to the bounds until a viewport is known.
func NewView(contentW, contentH float64, fit FitOptions, minScale, maxScale float64) *View {
	if maxScale < minScale {
		maxScale = minScale
	}
	v := &View{
		ContentWidth:  contentW,
		ContentHeight: contentH,
		MinScale:      minScale,
		MaxScale:      maxScale,
		fit:           fit,
	}
	v.Scale = v.clamp(1)
	return v
}

// FitOptions returns the options used when the view re-fits.
func (v *View) FitOptions() FitOptions {
	return v.fit
}

// SetViewport records the current available display area. It does not change
// the scale; callers re-fit with ApplyZoomDelta(0) when they want that.
func (v *View) SetViewport(width, height float64) {
	v.ViewportWidth = width
	v.ViewportHeight = height
}

// SetContent replaces the content size (e.g. after the crop source rotates).
func (v *View) SetContent(width, height float64) {
	v.ContentWidth = width
	v.ContentHeight = height
}

// Refit recomputes the scale from the current viewport and returns it.
func (v *View) Refit() float64 {
	scale := Fit(v.ContentWidth, v.ContentHeight, v.ViewportWidth, v.ViewportHeight, v.fit)
	if v.fitIsFloor {
		v.MinScale = scale
		if v.MaxScale < scale {
			v.MaxScale = scale
		}
	}
	v.Scale = v.clamp(scale)
	return v.Scale
}

// ApplyZoomDelta adds delta to the scale, clamped to [MinScale, MaxScale].
// A zero delta re-fits the content to the viewport instead.
func (v *View) ApplyZoomDelta(delta float64) Layout {
	if delta == 0 {
		v.Refit()
	} else {
		v.Scale = v.clamp(v.Scale + delta)
	}
	return v.Layout()
}

// SetScale sets an absolute scale, clamped to the bounds.
func (v *View) SetScale(scale float64) Layout {
	v.Scale = v.clamp(scale)
	return v.Layout()
}

// Layout returns the rendered size and centering margins at the current scale.
// A rendered box smaller than the viewport on an axis is centered on that axis;
// otherwise the margin is zero and the viewport scrolls.
func (v *View) Layout() Layout {
	l := Layout{
		Scale:          v.Scale,
		RenderedWidth:  v.ContentWidth * v.Scale,
		RenderedHeight: v.ContentHeight * v.Scale,
	}
	if l.RenderedWidth < v.ViewportWidth {
		l.MarginLeft = (v.ViewportWidth - l.RenderedWidth) / 2
	}
	if l.RenderedHeight < v.ViewportHeight {
		l.MarginTop = (v.ViewportHeight - l.RenderedHeight) / 2
	}
	return l
}

// ToContent maps a point in viewport coordinates (including any scroll
// offset) to content coordinates.
func (v *View) ToContent(x, y float64) (float64, float64) {
	l := v.Layout()
	return (x - l.MarginLeft) / l.Scale, (y - l.MarginTop) / l.Scale
}

// ToViewport maps a content point to viewport coordinates.
func (v *View) ToViewport(x, y float64) (float64, float64) {
	l := v.Layout()
	return x*l.Scale + l.MarginLeft, y*l.Scale + l.MarginTop
}

// Percent returns the scale as a rounded percentage for zoom labels.
func (v *View) Percent() int {
	return int(math.Round(v.Scale * 100))
}

func (v *View) clamp(scale float64) float64 {
	if math.IsNaN(scale) {
		return v.MinScale
	}
	return math.Max(v.MinScale, math.Min(v.MaxScale, scale))
}
