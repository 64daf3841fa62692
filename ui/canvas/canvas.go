// Package canvas provides a raster widget that presents fixed-size content at
// a zoom scale, centered inside whatever area it is given.
package canvas

import (
	"image"
	"math"

	"poster-editor/internal/viewtransform"
	"poster-editor/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"
)

// LayoutFunc reports where the content currently sits in the viewport.
type LayoutFunc func() (viewtransform.Layout, bool)

// ViewCanvas displays content laid out by a viewtransform.View. It turns
// wheel, tap and drag input into callbacks in viewport coordinates and never
// changes the zoom itself.
type ViewCanvas struct {
	widget.BaseWidget

	raster  *fynecanvas.Raster
	content image.Image
	layout  LayoutFunc
	overlay *Overlay

	lastSize fyne.Size
	dragging bool

	// Callbacks
	onResize  func(width, height float64)
	onWheel   func(notches float64)
	onTap     func(x, y float64)
	onDrag    func(dx, dy float64)
	onDragEnd func()
}

// NewViewCanvas creates an empty canvas.
func NewViewCanvas(layout LayoutFunc) *ViewCanvas {
	vc := &ViewCanvas{layout: layout}
	vc.raster = fynecanvas.NewRaster(vc.draw)
	vc.raster.ScaleMode = fynecanvas.ImageScalePixels
	vc.ExtendBaseWidget(vc)
	return vc
}

// SetContent sets the unscaled content image.
func (vc *ViewCanvas) SetContent(img image.Image) {
	vc.content = img
	vc.Refresh()
}

// SetOverlay sets the shapes drawn over the content; nil removes them.
func (vc *ViewCanvas) SetOverlay(o *Overlay) {
	vc.overlay = o
	vc.Refresh()
}

// OnResize sets the callback for size changes of the visible area.
func (vc *ViewCanvas) OnResize(callback func(width, height float64)) {
	vc.onResize = callback
}

// OnWheel sets the callback for mouse wheel steps; positive is away from
// the user.
func (vc *ViewCanvas) OnWheel(callback func(notches float64)) {
	vc.onWheel = callback
}

// OnTap sets the callback for left clicks.
func (vc *ViewCanvas) OnTap(callback func(x, y float64)) {
	vc.onTap = callback
}

// OnDrag sets the callbacks for drag steps and the end of a drag.
func (vc *ViewCanvas) OnDrag(step func(dx, dy float64), end func()) {
	vc.onDrag = step
	vc.onDragEnd = end
}

// Scrolled implements fyne.Scrollable.
func (vc *ViewCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if vc.onWheel == nil {
		return
	}
	if ev.Scrolled.DY > 0 {
		vc.onWheel(1)
	} else if ev.Scrolled.DY < 0 {
		vc.onWheel(-1)
	}
}

// Tapped implements fyne.Tappable.
func (vc *ViewCanvas) Tapped(ev *fyne.PointEvent) {
	if vc.onTap == nil {
		return
	}
	size := vc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	vc.onTap(float64(ev.Position.X), float64(ev.Position.Y))
}

// Dragged implements fyne.Draggable.
func (vc *ViewCanvas) Dragged(ev *fyne.DragEvent) {
	vc.dragging = true
	if vc.onDrag != nil {
		vc.onDrag(float64(ev.Dragged.DX), float64(ev.Dragged.DY))
	}
}

// DragEnd implements fyne.Draggable.
func (vc *ViewCanvas) DragEnd() {
	if !vc.dragging {
		return
	}
	vc.dragging = false
	if vc.onDragEnd != nil {
		vc.onDragEnd()
	}
}

// Refresh redraws the canvas.
func (vc *ViewCanvas) Refresh() {
	vc.raster.Refresh()
}

// checkResize reports a changed visible area to the resize callback.
func (vc *ViewCanvas) checkResize(size fyne.Size) {
	if size.Width <= 0 || size.Height <= 0 || size == vc.lastSize {
		return
	}
	vc.lastSize = size
	if vc.onResize != nil {
		vc.onResize(float64(size.Width), float64(size.Height))
	}
}

// draw is the raster drawing function. w and h are device pixels; the layout
// is in canvas units, so it is scaled by the device pixel ratio.
func (vc *ViewCanvas) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(colorutil.Workspace), image.Point{}, draw.Src)
	if vc.content == nil || vc.layout == nil {
		return out
	}
	l, ok := vc.layout()
	if !ok {
		return out
	}

	px := 1.0
	if size := vc.Size(); size.Width > 0 {
		px = float64(w) / float64(size.Width)
	}
	dst := pixelRect(l.MarginLeft, l.MarginTop, l.RenderedWidth, l.RenderedHeight, px)
	if !dst.Empty() {
		draw.ApproxBiLinear.Scale(out, dst, vc.content, vc.content.Bounds(), draw.Over, nil)
	}
	if vc.overlay != nil {
		vc.overlay.draw(out, l, px)
	}
	return out
}

func pixelRect(x, y, w, h, px float64) image.Rectangle {
	return image.Rect(
		int(math.Round(x*px)), int(math.Round(y*px)),
		int(math.Round((x+w)*px)), int(math.Round((y+h)*px)),
	)
}

// CreateRenderer implements fyne.Widget.
func (vc *ViewCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &viewCanvasRenderer{canvas: vc}
}

type viewCanvasRenderer struct {
	canvas *ViewCanvas
}

func (r *viewCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
	r.canvas.checkResize(size)
}

func (r *viewCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *viewCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *viewCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *viewCanvasRenderer) Destroy() {}
