package image

import (
	"image"
	"math"

	"poster-editor/pkg/geometry"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Stretch resamples img to exactly width x height.
func Stretch(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// FitWithin returns the largest size with the aspect of (w, h) that fits inside
// (maxW, maxH). Sizes already inside the bounds are returned unchanged.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 && h > maxH {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	if scale == 1 {
		return w, h
	}
	return max(1, int(math.Round(float64(w)*scale))), max(1, int(math.Round(float64(h)*scale)))
}

// CropRect rasterizes the region r of src (in src pixel coordinates, relative
// to its bounds) into a new image no larger than maxW x maxH, using
// high-quality resampling when it has to shrink.
func CropRect(src image.Image, r geometry.Rect, maxW, maxH int) *image.RGBA {
	b := src.Bounds()
	sr := image.Rect(
		b.Min.X+int(math.Round(r.X)),
		b.Min.Y+int(math.Round(r.Y)),
		b.Min.X+int(math.Round(r.X+r.Width)),
		b.Min.Y+int(math.Round(r.Y+r.Height)),
	).Intersect(b)

	w, h := FitWithin(sr.Dx(), sr.Dy(), maxW, maxH)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if sr.Empty() {
		return dst
	}
	if w == sr.Dx() && h == sr.Dy() {
		draw.Draw(dst, dst.Bounds(), src, sr.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sr, draw.Src, nil)
	return dst
}

// Rotate returns img rotated clockwise by degrees on a canvas grown to hold
// the whole rotated image. Quarter turns are exact pixel copies.
func Rotate(img image.Image, degrees float64) *image.RGBA {
	turns := math.Mod(degrees, 360)
	if turns < 0 {
		turns += 360
	}
	if q := turns / 90; q == math.Trunc(q) {
		return rotateQuarter(img, int(q))
	}

	b := img.Bounds()
	rot := geometry.Rotation(turns * math.Pi / 180)
	box := rot.BoundsOf(geometry.NewRect(0, 0, float64(b.Dx()), float64(b.Dy())))
	s2d := geometry.Translation(-box.X, -box.Y).Compose(rot).Compose(
		geometry.Translation(-float64(b.Min.X), -float64(b.Min.Y)))

	dst := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(box.Width-1e-9)), int(math.Ceil(box.Height-1e-9))))
	draw.CatmullRom.Transform(dst, toAff3(s2d), img, b, draw.Src, nil)
	return dst
}

func rotateQuarter(img image.Image, q int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if q%2 == 1 {
		w, h = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			switch q {
			case 0:
				dst.Set(x, y, c)
			case 1:
				dst.Set(b.Dy()-1-y, x, c)
			case 2:
				dst.Set(b.Dx()-1-x, b.Dy()-1-y, c)
			case 3:
				dst.Set(y, b.Dx()-1-x, c)
			}
		}
	}
	return dst
}

func toAff3(t geometry.AffineTransform) f64.Aff3 {
	return f64.Aff3{t.A, t.B, t.TX, t.C, t.D, t.TY}
}
