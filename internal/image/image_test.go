package image

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"poster-editor/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeKeepsOriginalBytes(t *testing.T) {
	data := pngBytes(t, solid(12, 8, color.White))

	pic, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "png", pic.Format)
	assert.Equal(t, 12, pic.Width)
	assert.Equal(t, 8, pic.Height)
	assert.InDelta(t, 1.5, pic.Aspect(), 1e-12)
	assert.Contains(t, pic.Src, "data:image/png;base64,")

	raw, err := pic.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, raw)

	again, err := FromDataURL(pic.Src)
	require.NoError(t, err)
	assert.Equal(t, pic.Width, again.Width)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not an image"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = FromDataURL("https://example.com/a.png")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestEncodeJPEG(t *testing.T) {
	pic, err := Encode(solid(20, 10, color.RGBA{R: 200, A: 255}), 90)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", pic.Format)
	assert.Contains(t, pic.Src, "data:image/jpeg;base64,")

	back, err := FromDataURL(pic.Src)
	require.NoError(t, err)
	assert.Equal(t, 20, back.Width)
	assert.Equal(t, 10, back.Height)
}

func TestFuture(t *testing.T) {
	f := Load(pngBytes(t, solid(4, 4, color.Black)))
	pic, err := f.Result()
	require.NoError(t, err)
	assert.Equal(t, 4, pic.Width)
	assert.True(t, f.Ready())

	_, err = Load([]byte{1, 2, 3}).Result()
	assert.Error(t, err)

	r := Resolved(pic, nil)
	assert.True(t, r.Ready())
}

func TestFitWithin(t *testing.T) {
	w, h := FitWithin(8192, 4096, 4096, 4096)
	assert.Equal(t, 4096, w)
	assert.Equal(t, 2048, h)

	w, h = FitWithin(1080, 720, 4096, 4096)
	assert.Equal(t, 1080, w)
	assert.Equal(t, 720, h)
}

func TestCropRect(t *testing.T) {
	src := solid(100, 50, color.White)
	for x := 50; x < 100; x++ {
		for y := 0; y < 50; y++ {
			src.Set(x, y, color.Black)
		}
	}

	out := CropRect(src, geometry.NewRect(50, 10, 40, 20), 4096, 4096)
	assert.Equal(t, image.Rect(0, 0, 40, 20), out.Bounds())
	assert.Equal(t, color.RGBA{A: 255}, out.RGBAAt(5, 5))

	small := CropRect(src, geometry.NewRect(0, 0, 100, 50), 10, 10)
	assert.Equal(t, image.Rect(0, 0, 10, 5), small.Bounds())
}

func TestRotateQuarter(t *testing.T) {
	src := solid(3, 2, color.White)
	src.Set(0, 0, color.Black)

	r := Rotate(src, 90)
	assert.Equal(t, image.Rect(0, 0, 2, 3), r.Bounds())
	assert.Equal(t, color.RGBA{A: 255}, r.RGBAAt(1, 0))

	r = Rotate(src, -90)
	assert.Equal(t, image.Rect(0, 0, 2, 3), r.Bounds())
	assert.Equal(t, color.RGBA{A: 255}, r.RGBAAt(0, 2))

	r = Rotate(src, 180)
	assert.Equal(t, color.RGBA{A: 255}, r.RGBAAt(2, 1))
}

func TestRotateArbitraryGrowsCanvas(t *testing.T) {
	r := Rotate(solid(100, 100, color.White), 45)
	want := int(math.Ceil(100 * math.Sqrt2))
	assert.Equal(t, want, r.Bounds().Dx())
	assert.Equal(t, want, r.Bounds().Dy())
}

func TestStretch(t *testing.T) {
	out := Stretch(solid(30, 20, color.White), 80, 60)
	assert.Equal(t, image.Rect(0, 0, 80, 60), out.Bounds())
}

func TestCompositeScalesOutput(t *testing.T) {
	c := NewComposite(40, 30, 2)
	c.AddStretched(solid(4, 3, color.Black))
	out := c.Render()
	assert.Equal(t, image.Rect(0, 0, 80, 60), out.Bounds())
	assert.Equal(t, color.RGBA{A: 255}, out.RGBAAt(40, 30))

	c = NewComposite(10, 10, 1)
	c.AddLayer(solid(2, 2, color.Black), geometry.Translation(4, 4), 1)
	out = c.Render()
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{A: 255}, out.RGBAAt(5, 5))
}

func TestRenderText(t *testing.T) {
	style := TextStyle{Text: "Hello\nWorld", FontFamily: "Arial", FontSize: 40, Fill: color.Black}
	w, h, err := MeasureText(style)
	require.NoError(t, err)
	assert.Greater(t, w, 0.0)
	assert.InDelta(t, 2*40*LineHeight, h, 1e-9)

	img, err := RenderText(style, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2*h, float64(img.Bounds().Dy()), 1)

	bold := style
	bold.Bold = true
	assert.NotEqual(t, fontIndex(style), fontIndex(bold))
	mono := style
	mono.FontFamily = "Courier New"
	assert.Equal(t, 4, fontIndex(mono))
}
