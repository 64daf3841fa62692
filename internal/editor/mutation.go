package editor

import (
	posterimage "poster-editor/internal/image"
	"poster-editor/internal/scene"
	"poster-editor/pkg/geometry"
)

// Defaults for a new text layer.
const (
	DefaultText       = "Click to edit"
	DefaultFontFamily = "Arial"
	DefaultFontSize   = 40
	DefaultFill       = "#000000"
)

// Mutation is one document edit passed to Session.Mutate. The set is closed:
// AddText, AddImage, RemoveSelected, BringForward, SendBackward, Restyle,
// EditText, Transform and Select.
type Mutation interface {
	// apply performs the edit on e and reports whether the document changed.
	apply(e Engine) bool
}

// AddText adds a text layer and selects it. Empty fields take the defaults;
// a nil Position places the text left of the canvas center.
type AddText struct {
	Text       string
	FontFamily string
	FontSize   float64
	Fill       string
	Position   *geometry.Point2D
}

// AddImage adds an image layer centered on the canvas and selects it. Images
// wider than half the canvas are scaled down to half its width.
type AddImage struct {
	Picture *posterimage.Picture
}

// RemoveSelected removes every selected layer.
type RemoveSelected struct{}

// BringForward moves the active layer one step towards the viewer.
type BringForward struct{}

// SendBackward moves the active layer one step away from the viewer.
type SendBackward struct{}

// Restyle applies a style operation to the active text layer.
type Restyle struct {
	Op StyleOp
}

// EditText replaces the content of a text layer. An empty ID targets the
// active layer.
type EditText struct {
	ID   string
	Text string
}

// Transform sets the placement of a layer after an interactive move, resize
// or rotation. An empty ID targets the active layer.
type Transform struct {
	ID     string
	Left   float64
	Top    float64
	ScaleX float64
	ScaleY float64
	Angle  float64
}

// Select replaces the selection. It never changes the document.
type Select struct {
	IDs []string
}

func (m AddText) apply(e Engine) bool {
	text := m.Text
	if text == "" {
		text = DefaultText
	}
	family := m.FontFamily
	if family == "" {
		family = DefaultFontFamily
	}
	size := m.FontSize
	if !(size > 0) {
		size = DefaultFontSize
	}
	fill := m.Fill
	if fill == "" {
		fill = DefaultFill
	}

	l := scene.NewText(text, family, size, fill)
	if m.Position != nil {
		l.Left, l.Top = m.Position.X, m.Position.Y
	} else {
		l.Left = float64(e.Width())/2 - 100
		l.Top = float64(e.Height()) / 2
	}
	added := e.AddLayer(l)
	e.Select(added.ID)
	return true
}

func (m AddImage) apply(e Engine) bool {
	if m.Picture == nil || m.Picture.Src == "" || m.Picture.Width <= 0 || m.Picture.Height <= 0 {
		return false
	}
	w, h := float64(e.Width()), float64(e.Height())
	l := scene.NewImage(m.Picture)
	if l.Width > w/2 {
		l.ScaleToWidth(w / 2)
	}
	l.Left = (w - l.ScaledWidth()) / 2
	l.Top = (h - l.ScaledHeight()) / 2
	added := e.AddLayer(l)
	e.Select(added.ID)
	return true
}

func (RemoveSelected) apply(e Engine) bool {
	sel := e.ActiveSelection()
	if len(sel) == 0 {
		return false
	}
	ids := make([]string, len(sel))
	for i, l := range sel {
		ids[i] = l.ID
	}
	return e.RemoveLayers(ids...) > 0
}

func (BringForward) apply(e Engine) bool {
	return reorderActive(e, scene.Forward)
}

func (SendBackward) apply(e Engine) bool {
	return reorderActive(e, scene.Backward)
}

func reorderActive(e Engine, dir scene.Direction) bool {
	l := e.ActiveLayer()
	if l == nil {
		return false
	}
	return e.Reorder(l.ID, dir)
}

func (m Restyle) apply(e Engine) bool {
	l := e.ActiveLayer()
	if l == nil || m.Op == nil {
		return false
	}
	// Try the change on a copy so unchanged styles are not recorded.
	if !m.Op.applyTo(l.Clone()) {
		return false
	}
	return e.Modify(l.ID, func(live *scene.Layer) { m.Op.applyTo(live) })
}

func (m EditText) apply(e Engine) bool {
	l := targetLayer(e, m.ID)
	if l == nil || !l.IsText() || l.Text == m.Text {
		return false
	}
	return e.Modify(l.ID, func(live *scene.Layer) { live.Text = m.Text })
}

func (m Transform) apply(e Engine) bool {
	l := targetLayer(e, m.ID)
	if l == nil || m.ScaleX == 0 || m.ScaleY == 0 {
		return false
	}
	if l.Left == m.Left && l.Top == m.Top && l.ScaleX == m.ScaleX &&
		l.ScaleY == m.ScaleY && l.Angle == m.Angle {
		return false
	}
	return e.Modify(l.ID, func(live *scene.Layer) {
		live.Left, live.Top = m.Left, m.Top
		live.ScaleX, live.ScaleY = m.ScaleX, m.ScaleY
		live.Angle = m.Angle
	})
}

func (m Select) apply(e Engine) bool {
	e.Select(m.IDs...)
	return false
}

func targetLayer(e Engine, id string) *scene.Layer {
	if id == "" {
		return e.ActiveLayer()
	}
	l, ok := e.Layer(id)
	if !ok {
		return nil
	}
	return l
}
