package editor

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"poster-editor/internal/crop"
	posterimage "poster-editor/internal/image"
	"poster-editor/internal/scene"
	"poster-editor/pkg/geometry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func picture(t *testing.T, w, h int) *posterimage.Picture {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xc0
	}
	pic, err := posterimage.Encode(img, 0)
	require.NoError(t, err)
	return pic
}

func newSession(t *testing.T, w, h int) *Session {
	t.Helper()
	s := NewSession(DefaultConfig(), nil)
	s.SetViewport(1024, 768)
	s.Initialize(w, h, nil)
	return s
}

func TestInitializeRecordsInitialState(t *testing.T) {
	s := newSession(t, 800, 600)
	assert.True(t, s.Active())
	assert.Equal(t, 1, s.HistoryLen())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
	assert.Empty(t, s.Layers())
	assert.Nil(t, s.Background())
	assert.Equal(t, "#ffffff", s.Document().Background)

	s.Mutate(AddText{})
	s.Initialize(400, 300, picture(t, 40, 30))
	assert.Equal(t, 1, s.HistoryLen())
	assert.Empty(t, s.Layers())
	require.NotNil(t, s.Background())
	assert.Equal(t, 400, s.Width())
}

func TestUndoRedoTextLayer(t *testing.T) {
	s := newSession(t, 800, 600)
	require.True(t, s.Mutate(AddText{}))
	added := s.Layers()
	require.Len(t, added, 1)
	assert.Equal(t, DefaultText, added[0].Text)
	assert.Equal(t, 300.0, added[0].Left)
	assert.Equal(t, 300.0, added[0].Top)

	require.True(t, s.Undo())
	assert.Empty(t, s.Layers())
	assert.Nil(t, s.Background())
	assert.False(t, s.Undo())

	require.True(t, s.Redo())
	if diff := cmp.Diff(added, s.Layers()); diff != "" {
		t.Errorf("restored layers differ (-want +got):\n%s", diff)
	}
	assert.False(t, s.Redo())
}

func TestMutationAfterUndoDropsRedo(t *testing.T) {
	s := newSession(t, 800, 600)
	s.Mutate(AddText{Text: "a"})
	s.Mutate(AddText{Text: "b"})
	s.Undo()
	require.True(t, s.CanRedo())

	s.Mutate(AddText{Text: "c"})
	assert.False(t, s.CanRedo())
	assert.Equal(t, 3, s.HistoryLen())

	var texts []string
	for _, l := range s.Layers() {
		texts = append(texts, l.Text)
	}
	assert.Equal(t, []string{"a", "c"}, texts)
}

func TestHistoryIsBounded(t *testing.T) {
	s := newSession(t, 800, 600)
	for i := 0; i < 30; i++ {
		s.Mutate(AddText{})
	}
	assert.Equal(t, 20, s.HistoryLen())
	for s.Undo() {
	}
	assert.Len(t, s.Layers(), 11)
}

func TestNoOpMutationsAreNotRecorded(t *testing.T) {
	s := newSession(t, 800, 600)
	assert.False(t, s.Mutate(RemoveSelected{}))
	assert.False(t, s.Mutate(BringForward{}))
	assert.False(t, s.Mutate(Restyle{Op: SetBold{On: true}}))
	assert.False(t, s.Mutate(Select{}))
	assert.False(t, s.Mutate(nil))
	assert.Equal(t, 1, s.HistoryLen())
}

func TestRemoveSelected(t *testing.T) {
	s := newSession(t, 800, 600)
	s.Mutate(AddText{Text: "a"})
	s.Mutate(AddText{Text: "b"})
	s.Mutate(AddText{Text: "c"})
	layers := s.Layers()

	assert.False(t, s.Mutate(Select{IDs: []string{layers[0].ID, layers[2].ID}}))
	require.True(t, s.Mutate(RemoveSelected{}))
	remaining := s.Layers()
	require.Len(t, remaining, 1)
	assert.Equal(t, "b", remaining[0].Text)
	assert.Equal(t, 5, s.HistoryLen())
}

func TestReorder(t *testing.T) {
	s := newSession(t, 800, 600)
	s.Mutate(AddText{Text: "bottom"})
	s.Mutate(AddText{Text: "top"})
	before := s.HistoryLen()

	// The new layer is already on top.
	assert.False(t, s.Mutate(BringForward{}))
	assert.Equal(t, before, s.HistoryLen())

	require.True(t, s.Mutate(SendBackward{}))
	assert.Equal(t, "top", s.Layers()[0].Text)
	assert.False(t, s.Mutate(SendBackward{}))
	assert.Equal(t, before+1, s.HistoryLen())
}

func TestTranslucentFillKeepsAlpha(t *testing.T) {
	s := newSession(t, 800, 600)
	s.Mutate(AddText{})

	require.True(t, s.Mutate(Restyle{Op: SetFill{Color: "#33669980"}}))
	p, ok := s.Properties()
	require.True(t, ok)
	assert.Equal(t, "#33669980", p.Fill)

	assert.False(t, s.Mutate(Restyle{Op: SetFill{Color: "#33669980"}}))
	require.True(t, s.Mutate(Restyle{Op: SetFill{Color: "#336699FF"}}))
	p, _ = s.Properties()
	assert.Equal(t, "#336699", p.Fill)
}

func TestRestyle(t *testing.T) {
	s := newSession(t, 800, 600)
	s.Mutate(AddText{})
	width := s.ActiveLayer().Width

	require.True(t, s.Mutate(Restyle{Op: SetFill{Color: "#f00"}}))
	require.True(t, s.Mutate(Restyle{Op: SetFontSize{Size: 80}}))
	require.True(t, s.Mutate(Restyle{Op: SetFontFamily{Family: "Courier New"}}))
	require.True(t, s.ToggleBold())
	require.True(t, s.ToggleItalic())
	require.True(t, s.ToggleUnderline())

	p, ok := s.Properties()
	require.True(t, ok)
	assert.Equal(t, Properties{
		Fill:       "#ff0000",
		FontSize:   80,
		FontFamily: "Courier New",
		Bold:       true,
		Italic:     true,
		Underline:  true,
	}, p)
	assert.Greater(t, s.ActiveLayer().Width, width)

	n := s.HistoryLen()
	assert.False(t, s.Mutate(Restyle{Op: SetFill{Color: "#ff0000"}}))
	assert.False(t, s.Mutate(Restyle{Op: SetFill{Color: "red"}}))
	assert.False(t, s.Mutate(Restyle{Op: SetFontSize{Size: -1}}))
	assert.False(t, s.Mutate(Restyle{Op: SetFontFamily{Family: " "}}))
	assert.Equal(t, n, s.HistoryLen())

	require.True(t, s.ToggleBold())
	p, _ = s.Properties()
	assert.False(t, p.Bold)
}

func TestStyleIgnoresImageLayers(t *testing.T) {
	s := newSession(t, 800, 600)
	require.True(t, s.Mutate(AddImage{Picture: picture(t, 100, 50)}))
	assert.False(t, s.Mutate(Restyle{Op: SetBold{On: true}}))
	assert.False(t, s.ToggleItalic())
	_, ok := s.Properties()
	assert.False(t, ok)
}

func TestAddImagePlacement(t *testing.T) {
	s := newSession(t, 800, 600)
	require.True(t, s.Mutate(AddImage{Picture: picture(t, 1000, 500)}))
	l := s.ActiveLayer()
	require.NotNil(t, l)
	assert.Equal(t, scene.TypeImage, l.Type)
	assert.InDelta(t, 400, l.ScaledWidth(), 1e-9)
	assert.InDelta(t, 200, l.ScaledHeight(), 1e-9)
	assert.InDelta(t, 200, l.Left, 1e-9)
	assert.InDelta(t, 200, l.Top, 1e-9)

	require.True(t, s.Mutate(AddImage{Picture: picture(t, 100, 60)}))
	l = s.ActiveLayer()
	assert.Equal(t, 1.0, l.ScaleX)
	assert.InDelta(t, 350, l.Left, 1e-9)
	assert.InDelta(t, 270, l.Top, 1e-9)

	assert.False(t, s.Mutate(AddImage{}))
}

func TestTransformAndEditText(t *testing.T) {
	s := newSession(t, 800, 600)
	s.Mutate(AddText{Text: "hi"})
	l := s.ActiveLayer()

	require.True(t, s.Mutate(Transform{Left: 10, Top: 20, ScaleX: 2, ScaleY: 2, Angle: 45}))
	got := s.ActiveLayer()
	assert.Equal(t, []float64{10, 20, 2, 2, 45}, []float64{got.Left, got.Top, got.ScaleX, got.ScaleY, got.Angle})
	assert.False(t, s.Mutate(Transform{ID: l.ID, Left: 10, Top: 20, ScaleX: 2, ScaleY: 2, Angle: 45}))
	assert.False(t, s.Mutate(Transform{ID: "missing", ScaleX: 1, ScaleY: 1}))

	require.True(t, s.Mutate(EditText{Text: "hello there"}))
	assert.Greater(t, s.ActiveLayer().Width, l.Width)
	assert.False(t, s.Mutate(EditText{Text: "hello there"}))
}

func TestSetBackgroundStretches(t *testing.T) {
	s := newSession(t, 800, 600)
	assert.False(t, s.SetBackground(nil))
	assert.Equal(t, 1, s.HistoryLen())

	require.True(t, s.SetBackground(picture(t, 1080, 720)))
	bg := s.Background()
	require.NotNil(t, bg)
	assert.InDelta(t, 800, bg.Width*bg.ScaleX, 1e-9)
	assert.InDelta(t, 600, bg.Height*bg.ScaleY, 1e-9)
	assert.Equal(t, 2, s.HistoryLen())

	s.Undo()
	assert.Nil(t, s.Background())
}

func TestCropConfirmFillsCanvas(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1200, 800))
	for y := 0; y < 800; y++ {
		for x := 0; x < 1200; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 64, A: 255})
		}
	}
	cs := crop.NewSession(crop.DefaultConfig(), nil)
	cs.SetViewport(800, 600)
	cs.Open(posterimage.Resolved(&posterimage.Picture{Width: 1200, Height: 800, Image: src}, nil), 1.5)
	require.NoError(t, cs.Ready())
	pic, ok := cs.Confirm()
	require.True(t, ok)

	s := NewSession(DefaultConfig(), nil)
	s.Initialize(1200, 800, pic)
	bg := s.Background()
	require.NotNil(t, bg)
	assert.InDelta(t, 1200, bg.Width*bg.ScaleX, 1e-9)
	assert.InDelta(t, 800, bg.Height*bg.ScaleY, 1e-9)
	assert.Equal(t, pic.Src, bg.Src)
}

func TestClear(t *testing.T) {
	s := newSession(t, 800, 600)
	s.SetBackground(picture(t, 80, 60))
	s.Mutate(AddText{})
	s.Mutate(AddText{})
	n := s.HistoryLen()

	assert.False(t, s.Clear(func() bool { return false }))
	assert.Len(t, s.Layers(), 2)
	assert.Equal(t, n, s.HistoryLen())

	require.True(t, s.Clear(func() bool { return true }))
	assert.Empty(t, s.Layers())
	assert.NotNil(t, s.Background())
	assert.Equal(t, n+1, s.HistoryLen())

	s.Undo()
	assert.Len(t, s.Layers(), 2)
}

func TestZoom(t *testing.T) {
	s := NewSession(DefaultConfig(), nil)
	s.SetViewport(880, 680)
	s.Initialize(800, 600, nil)

	l, ok := s.Layout()
	require.True(t, ok)
	assert.InDelta(t, 1.0, l.Scale, 1e-9)

	l, _ = s.Zoom(1000)
	assert.Equal(t, 5.0, l.Scale)
	l, _ = s.Zoom(-1000)
	assert.Equal(t, 0.1, l.Scale)

	// Oversize viewports never zoom past 100% on fit.
	s.SetViewport(4000, 4000)
	l, _ = s.Zoom(0)
	assert.Equal(t, 1.0, l.Scale)
	assert.InDelta(t, 1600, l.MarginLeft, 1e-9)

	// Tiny viewports fit to the floor.
	s.SetViewport(100, 100)
	l, _ = s.Zoom(0)
	assert.Equal(t, 0.1, l.Scale)
	assert.InDelta(t, 10, l.MarginLeft, 1e-9)
}

func TestSelectAt(t *testing.T) {
	s := NewSession(DefaultConfig(), nil)
	s.SetViewport(880, 680)
	s.Initialize(800, 600, nil)
	s.Mutate(AddImage{Picture: picture(t, 100, 100)})
	s.Mutate(Select{})
	assert.Nil(t, s.ActiveLayer())

	// Scale 1 with 40px margins: the image covers canvas 350..450 x 250..350.
	l, ok := s.SelectAt(440, 340)
	require.True(t, ok)
	assert.Equal(t, l.ID, s.ActiveLayer().ID)

	_, ok = s.SelectAt(45, 45)
	assert.False(t, ok)
	assert.Nil(t, s.ActiveLayer())
}

func TestWithoutBackground(t *testing.T) {
	s := newSession(t, 800, 600)
	s.SetBackground(picture(t, 80, 60))
	n := s.HistoryLen()

	err := s.WithoutBackground(func(doc *scene.Document) error {
		assert.Nil(t, doc.BackgroundImage)
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.NotNil(t, s.Background())
	assert.Equal(t, n, s.HistoryLen())
}

func TestLoad(t *testing.T) {
	a := newSession(t, 1000, 700)
	a.Mutate(AddText{Text: "saved"})
	a.Mutate(AddImage{Picture: picture(t, 20, 20)})
	data, err := a.Serialize()
	require.NoError(t, err)

	b := newSession(t, 800, 600)
	require.NoError(t, b.Load(data))
	assert.Equal(t, 1000, b.Width())
	assert.Equal(t, 700, b.Height())
	assert.Equal(t, 1, b.HistoryLen())
	if diff := cmp.Diff(a.Layers(), b.Layers()); diff != "" {
		t.Errorf("loaded layers differ (-want +got):\n%s", diff)
	}

	err = b.Load(`{"objects":[null]}`)
	assert.ErrorIs(t, err, scene.ErrMalformed)
	err = b.Load(`{"width":0,"height":0,"objects":[]}`)
	assert.ErrorIs(t, err, scene.ErrMalformed)
	assert.Equal(t, 1000, b.Width())
	assert.Len(t, b.Layers(), 2)
}

func TestEventsAndRenderHook(t *testing.T) {
	s := NewSession(DefaultConfig(), nil)
	var events []scene.EventType
	s.OnEvent(func(e scene.Event) { events = append(events, e.Type) })
	renders := 0
	s.SetRenderHook(func() { renders++ })

	s.Initialize(800, 600, nil)
	s.Mutate(AddText{})
	assert.Equal(t, []scene.EventType{scene.EventObjectAdded, scene.EventSelectionCreated}, events)

	events = nil
	s.Undo()
	assert.Equal(t, []scene.EventType{scene.EventSelectionCleared}, events)
	assert.Equal(t, 3, renders)
}

func TestWithoutDocument(t *testing.T) {
	s := NewSession(Config{}, nil)
	assert.False(t, s.Active())
	assert.False(t, s.Mutate(AddText{}))
	assert.False(t, s.Undo())
	assert.False(t, s.Redo())
	assert.False(t, s.Clear(nil))
	assert.False(t, s.SetBackground(&posterimage.Picture{}))
	assert.False(t, s.ToggleBold())
	_, ok := s.Zoom(0.1)
	assert.False(t, ok)
	assert.Nil(t, s.Document())
	_, err := s.Serialize()
	assert.ErrorIs(t, err, ErrNoDocument)
	assert.Zero(t, s.HistoryLen())
}

func TestPositionedText(t *testing.T) {
	s := newSession(t, 800, 600)
	s.Mutate(AddText{Text: "x", Position: &geometry.Point2D{X: 5, Y: 6}, Fill: "#123456", FontSize: 12})
	l := s.ActiveLayer()
	assert.Equal(t, 5.0, l.Left)
	assert.Equal(t, 6.0, l.Top)
	assert.Equal(t, "#123456", l.Fill)
	assert.Equal(t, 12.0, l.FontSize)
	assert.Equal(t, DefaultFontFamily, l.FontFamily)
}
