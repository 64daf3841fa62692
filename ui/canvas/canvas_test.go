package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"poster-editor/internal/viewtransform"
	"poster-editor/pkg/colorutil"
	"poster-editor/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

var red = color.RGBA{R: 255, A: 255}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func fixedLayout(l viewtransform.Layout) LayoutFunc {
	return func() (viewtransform.Layout, bool) { return l, true }
}

func TestDrawCentersContent(t *testing.T) {
	test.NewApp()
	vc := NewViewCanvas(fixedLayout(viewtransform.Layout{
		Scale: 1, MarginLeft: 50, MarginTop: 25, RenderedWidth: 100, RenderedHeight: 50,
	}))
	vc.Resize(fyne.NewSize(200, 100))
	vc.SetContent(solid(100, 50, red))

	out := vc.draw(200, 100).(*image.RGBA)
	assert.Equal(t, colorutil.Workspace, out.RGBAAt(10, 10))
	assert.Equal(t, red, out.RGBAAt(100, 50))
	assert.Equal(t, colorutil.Workspace, out.RGBAAt(49, 50))
	assert.Equal(t, red, out.RGBAAt(50, 50))
}

func TestDrawScalesToDevicePixels(t *testing.T) {
	test.NewApp()
	vc := NewViewCanvas(fixedLayout(viewtransform.Layout{
		Scale: 0.5, MarginLeft: 25, MarginTop: 0, RenderedWidth: 50, RenderedHeight: 50,
	}))
	vc.Resize(fyne.NewSize(100, 50))
	vc.SetContent(solid(100, 100, red))

	// Twice as many device pixels as canvas units.
	out := vc.draw(200, 100).(*image.RGBA)
	assert.Equal(t, colorutil.Workspace, out.RGBAAt(49, 50))
	assert.Equal(t, red, out.RGBAAt(51, 50))
	assert.Equal(t, red, out.RGBAAt(148, 50))
	assert.Equal(t, colorutil.Workspace, out.RGBAAt(151, 50))
}

func TestDrawWithoutLayout(t *testing.T) {
	test.NewApp()
	vc := NewViewCanvas(func() (viewtransform.Layout, bool) { return viewtransform.Layout{}, false })
	vc.SetContent(solid(10, 10, red))
	out := vc.draw(20, 20).(*image.RGBA)
	assert.Equal(t, colorutil.Workspace, out.RGBAAt(5, 5))
}

func TestOverlayFramesAndDims(t *testing.T) {
	out := solid(100, 100, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	o := &Overlay{
		Rectangles: []geometry.Rect{{X: 10, Y: 10, Width: 20, Height: 20}},
		Color:      colorutil.Selection,
		DimOutside: true,
	}
	o.draw(out, viewtransform.Layout{Scale: 2, RenderedWidth: 100, RenderedHeight: 100}, 1)

	// Selection covers 20..60 in pixels.
	assert.Equal(t, colorutil.Selection, out.RGBAAt(20, 30))
	assert.Equal(t, colorutil.Selection, out.RGBAAt(59, 59))
	assert.Equal(t, color.RGBA{R: 200, G: 200, B: 200, A: 255}, out.RGBAAt(40, 40))

	dimmed := out.RGBAAt(5, 5)
	assert.Less(t, dimmed.R, uint8(200))
	assert.Equal(t, dimmed, out.RGBAAt(80, 40))
}

func TestDrawRectOutlineClips(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 10, 10))
	drawRectOutline(out, image.Rect(-5, -5, 5, 5), red, 2)
	assert.Equal(t, red, out.RGBAAt(4, 0))
	assert.Equal(t, red, out.RGBAAt(3, 2))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(2, 2))

	drawRectOutline(out, image.Rectangle{}, red, 2)
}

type recorder struct {
	wheel []float64
	taps  [][2]float64
	drags [][2]float64
	ends  int
}

func TestInputCallbacks(t *testing.T) {
	test.NewApp()
	vc := NewViewCanvas(nil)
	vc.Resize(fyne.NewSize(100, 100))
	var r recorder
	vc.OnWheel(func(n float64) { r.wheel = append(r.wheel, n) })
	vc.OnTap(func(x, y float64) { r.taps = append(r.taps, [2]float64{x, y}) })
	vc.OnDrag(func(dx, dy float64) { r.drags = append(r.drags, [2]float64{dx, dy}) }, func() { r.ends++ })

	vc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: 10}})
	vc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -3}})
	vc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DX: 5}})
	assert.Equal(t, []float64{1, -1}, r.wheel)

	vc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(20, 30)})
	vc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(120, 30)})
	assert.Equal(t, [][2]float64{{20, 30}}, r.taps)

	vc.DragEnd()
	vc.Dragged(&fyne.DragEvent{Dragged: fyne.Delta{DX: 2, DY: 3}})
	vc.DragEnd()
	assert.Equal(t, [][2]float64{{2, 3}}, r.drags)
	assert.Equal(t, 1, r.ends)
}

func TestResizeCallbackFiresOnChange(t *testing.T) {
	vc := &ViewCanvas{}
	var sizes [][2]float64
	vc.OnResize(func(w, h float64) { sizes = append(sizes, [2]float64{w, h}) })
	vc.checkResize(fyne.NewSize(300, 200))
	vc.checkResize(fyne.NewSize(300, 200))
	vc.checkResize(fyne.NewSize(0, 200))
	vc.checkResize(fyne.NewSize(320, 200))
	assert.Equal(t, [][2]float64{{300, 200}, {320, 200}}, sizes)
}
