package editor

import (
	"strings"

	"poster-editor/internal/scene"
	"poster-editor/pkg/colorutil"
)

// StyleOp is one typographic change to a text layer. The set is closed:
// SetFill, SetFontSize, SetFontFamily, SetBold, SetItalic and SetUnderline.
type StyleOp interface {
	// applyTo changes l and reports whether anything changed. Layers that do
	// not carry text are never changed.
	applyTo(l *scene.Layer) bool
}

// SetFill sets the text colour, given as #rgb, #rrggbb or #rrggbbaa. The
// layer stores the normalized form and keeps a translucent alpha.
type SetFill struct{ Color string }

// SetFontSize sets the font size in canvas pixels.
type SetFontSize struct{ Size float64 }

// SetFontFamily sets the font family name.
type SetFontFamily struct{ Family string }

// SetBold switches bold weight on or off.
type SetBold struct{ On bool }

// SetItalic switches italic style on or off.
type SetItalic struct{ On bool }

// SetUnderline switches underlining on or off.
type SetUnderline struct{ On bool }

func (op SetFill) applyTo(l *scene.Layer) bool {
	if !l.IsText() {
		return false
	}
	fill, err := colorutil.Normalize(op.Color)
	if err != nil {
		return false
	}
	if l.Fill == fill {
		return false
	}
	l.Fill = fill
	return true
}

func (op SetFontSize) applyTo(l *scene.Layer) bool {
	if !l.IsText() || !(op.Size > 0) || l.FontSize == op.Size {
		return false
	}
	l.FontSize = op.Size
	return true
}

func (op SetFontFamily) applyTo(l *scene.Layer) bool {
	family := strings.TrimSpace(op.Family)
	if !l.IsText() || family == "" || l.FontFamily == family {
		return false
	}
	l.FontFamily = family
	return true
}

func (op SetBold) applyTo(l *scene.Layer) bool {
	if !l.IsText() || l.Bold() == op.On {
		return false
	}
	l.FontWeight = scene.WeightNormal
	if op.On {
		l.FontWeight = scene.WeightBold
	}
	return true
}

func (op SetItalic) applyTo(l *scene.Layer) bool {
	if !l.IsText() || l.Italic() == op.On {
		return false
	}
	l.FontStyle = scene.StyleNormal
	if op.On {
		l.FontStyle = scene.StyleItalic
	}
	return true
}

func (op SetUnderline) applyTo(l *scene.Layer) bool {
	if !l.IsText() || l.Underline == op.On {
		return false
	}
	l.Underline = op.On
	return true
}

// Properties is the typography of the active text layer, as shown by the
// property panel.
type Properties struct {
	Fill       string
	FontSize   float64
	FontFamily string
	Bold       bool
	Italic     bool
	Underline  bool
}

func propertiesOf(l *scene.Layer) Properties {
	return Properties{
		Fill:       l.Fill,
		FontSize:   l.FontSize,
		FontFamily: l.FontFamily,
		Bold:       l.Bold(),
		Italic:     l.Italic(),
		Underline:  l.Underline,
	}
}
