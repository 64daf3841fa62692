package image

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// LineHeight is the line box height as a multiple of the font size.
const LineHeight = 1.16

// TextStyle describes how a text layer is drawn.
type TextStyle struct {
	Text       string
	FontFamily string
	FontSize   float64
	Fill       color.Color
	Bold       bool
	Italic     bool
	Underline  bool
}

type faceKey struct {
	ttf  int // index into fontFiles
	size float64
}

var (
	fontFiles = [][]byte{
		goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF,
		gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF,
	}

	fontsOnce sync.Once
	fonts     []*opentype.Font
	fontsErr  error

	facesMu sync.Mutex
	faces   = make(map[faceKey]font.Face)
)

func fontIndex(s TextStyle) int {
	idx := 0
	family := strings.ToLower(s.FontFamily)
	if strings.Contains(family, "mono") || strings.Contains(family, "courier") || strings.Contains(family, "consol") {
		idx = 4
	}
	if s.Bold {
		idx++
	}
	if s.Italic {
		idx += 2
	}
	return idx
}

func face(s TextStyle, size float64) (font.Face, error) {
	fontsOnce.Do(func() {
		for _, ttf := range fontFiles {
			f, err := opentype.Parse(ttf)
			if err != nil {
				fontsErr = fmt.Errorf("parse font: %w", err)
				return
			}
			fonts = append(fonts, f)
		}
	})
	if fontsErr != nil {
		return nil, fontsErr
	}

	key := faceKey{ttf: fontIndex(s), size: math.Round(size*4) / 4}
	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[key]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(fonts[key.ttf], &opentype.FaceOptions{Size: key.size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	faces[key] = f
	return f, nil
}

// MeasureText returns the size of the text box at 1:1 scale.
func MeasureText(s TextStyle) (width, height float64, err error) {
	if s.FontSize <= 0 {
		return 0, 0, nil
	}
	f, err := face(s, s.FontSize)
	if err != nil {
		return 0, 0, err
	}
	lines := strings.Split(s.Text, "\n")
	for _, line := range lines {
		width = math.Max(width, float64(font.MeasureString(f, line).Ceil()))
	}
	return width, float64(len(lines)) * s.FontSize * LineHeight, nil
}

// RenderText rasterizes the text box at scale output pixels per canvas pixel.
// The result's origin is the top-left corner of the box.
func RenderText(s TextStyle, scale float64) (*image.RGBA, error) {
	if scale <= 0 {
		scale = 1
	}
	size := s.FontSize * scale
	if size <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0)), nil
	}
	f, err := face(s, size)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(s.Text, "\n")
	lineH := size * LineHeight
	width := 0
	for _, line := range lines {
		width = max(width, font.MeasureString(f, line).Ceil())
	}
	dst := image.NewRGBA(image.Rect(0, 0, max(width, 1), int(math.Ceil(lineH*float64(len(lines))))))

	fill := s.Fill
	if fill == nil {
		fill = color.Black
	}
	src := image.NewUniform(fill)
	m := f.Metrics()
	// Center the glyph box vertically inside the taller line box.
	lead := (lineH - float64((m.Ascent + m.Descent).Ceil())) / 2

	for i, line := range lines {
		baseline := lead + float64(i)*lineH + float64(m.Ascent.Ceil())
		d := &font.Drawer{Dst: dst, Src: src, Face: f, Dot: fixed.P(0, int(math.Round(baseline)))}
		d.DrawString(line)

		if s.Underline {
			thickness := math.Max(1, size/15)
			y := int(math.Round(baseline + size*0.1))
			w := font.MeasureString(f, line).Ceil()
			draw.Draw(dst, image.Rect(0, y, w, y+int(math.Ceil(thickness))), src, image.Point{}, draw.Over)
		}
	}
	return dst, nil
}
