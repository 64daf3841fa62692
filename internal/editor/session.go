// Package editor owns one poster document at a time: the object graph, the
// editor view's zoom state and the undo history built from full snapshots.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"poster-editor/internal/history"
	posterimage "poster-editor/internal/image"
	"poster-editor/internal/scene"
	"poster-editor/internal/viewtransform"
)

// ErrNoDocument is returned by operations that need an open document.
var ErrNoDocument = errors.New("no document open")

// Config holds the editor parameters.
type Config struct {
	BackgroundColor string
	Fit             viewtransform.FitOptions
	MinScale        float64
	MaxScale        float64
	HistoryCapacity int
	Engine          EngineFactory
}

// DefaultConfig returns the standard editor parameters.
func DefaultConfig() Config {
	return Config{
		BackgroundColor: "#ffffff",
		Fit:             viewtransform.FitOptions{Padding: 80, CapAtOne: true, Floor: 0.1},
		MinScale:        0.1,
		MaxScale:        5.0,
		HistoryCapacity: history.Capacity,
		Engine:          NewSceneEngine,
	}
}

// Session is the editing state of one document. It is not safe for
// concurrent use. Until Initialize or Load is called every operation is a
// no-op.
type Session struct {
	cfg    Config
	logger *slog.Logger

	engine  Engine
	history *history.Log
	view    *viewtransform.View

	viewportW, viewportH float64

	listeners []scene.Listener
	onRender  func()
}

// NewSession creates a session with no document.
func NewSession(cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.BackgroundColor == "" {
		cfg.BackgroundColor = def.BackgroundColor
	}
	if cfg.Fit == (viewtransform.FitOptions{}) {
		cfg.Fit = def.Fit
	}
	if cfg.MinScale <= 0 {
		cfg.MinScale = def.MinScale
	}
	if cfg.MaxScale <= 0 {
		cfg.MaxScale = def.MaxScale
	}
	if cfg.HistoryCapacity <= 0 {
		cfg.HistoryCapacity = def.HistoryCapacity
	}
	if cfg.Engine == nil {
		cfg.Engine = def.Engine
	}
	return &Session{cfg: cfg, logger: logger}
}

// OnEvent registers a listener for every change notification of the current
// and all future documents.
func (s *Session) OnEvent(listener scene.Listener) {
	s.listeners = append(s.listeners, listener)
	if s.engine != nil {
		for _, ev := range allEvents {
			s.engine.On(ev, listener)
		}
	}
}

// SetRenderHook sets the function called after the document was replaced or
// changed.
func (s *Session) SetRenderHook(fn func()) {
	s.onRender = fn
}

// Active reports whether a document is open.
func (s *Session) Active() bool {
	return s.engine != nil
}

// Initialize starts a new empty document of the given pixel size, discarding
// the previous document and its history. A non-nil pending image becomes the
// background. The history holds exactly the initial state afterwards.
func (s *Session) Initialize(pixelWidth, pixelHeight int, pending *posterimage.Picture) {
	s.reset(pixelWidth, pixelHeight)
	if pending != nil {
		s.engine.SetBackgroundImage(stretchedBackground(pending, pixelWidth, pixelHeight))
	}
	s.push()
	s.logger.Info("document created", "width", pixelWidth, "height", pixelHeight,
		"background", pending != nil)
	s.render()
}

// Load replaces the document with a serialized one (see Document). The
// canvas takes the serialized size and the history restarts from it.
func (s *Session) Load(data string) error {
	doc, err := scene.ParseDocument(data)
	if err != nil {
		return err
	}
	if doc.Width <= 0 || doc.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", scene.ErrMalformed, doc.Width, doc.Height)
	}

	prev := s.engine
	prevHistory, prevView := s.history, s.view
	s.reset(doc.Width, doc.Height)
	if err := s.engine.Deserialize(data); err != nil {
		s.engine, s.history, s.view = prev, prevHistory, prevView
		return err
	}
	s.push()
	s.logger.Info("document loaded", "width", doc.Width, "height", doc.Height,
		"layers", len(doc.Objects))
	s.render()
	return nil
}

func (s *Session) reset(width, height int) {
	s.engine = s.cfg.Engine(width, height, s.cfg.BackgroundColor)
	for _, l := range s.listeners {
		for _, ev := range allEvents {
			s.engine.On(ev, l)
		}
	}
	s.history = history.NewWithCapacity(s.cfg.HistoryCapacity)
	s.view = viewtransform.NewView(float64(width), float64(height),
		s.cfg.Fit, s.cfg.MinScale, s.cfg.MaxScale)
	s.view.SetViewport(s.viewportW, s.viewportH)
	s.view.ApplyZoomDelta(0)
}

// SetBackground stretches pic over the whole canvas, replacing any previous
// background. It returns false without a document or image.
func (s *Session) SetBackground(pic *posterimage.Picture) bool {
	if s.engine == nil || pic == nil {
		return false
	}
	s.engine.SetBackgroundImage(stretchedBackground(pic, s.engine.Width(), s.engine.Height()))
	s.push()
	s.logger.Debug("background replaced", "width", pic.Width, "height", pic.Height)
	s.render()
	return true
}

func stretchedBackground(pic *posterimage.Picture, width, height int) *scene.Background {
	bg := &scene.Background{
		Src:    pic.Src,
		Width:  float64(pic.Width),
		Height: float64(pic.Height),
		ScaleX: 1,
		ScaleY: 1,
	}
	if pic.Width > 0 && pic.Height > 0 {
		bg.ScaleX = float64(width) / bg.Width
		bg.ScaleY = float64(height) / bg.Height
	}
	return bg
}

// Mutate applies m and records a snapshot when the document changed. It
// reports whether the document changed; selection changes never do.
func (s *Session) Mutate(m Mutation) bool {
	if s.engine == nil || m == nil {
		return false
	}
	if !m.apply(s.engine) {
		return false
	}
	s.push()
	s.logger.Debug("document changed", "mutation", fmt.Sprintf("%T", m))
	s.render()
	return true
}

// ToggleBold flips the bold weight of the active text layer.
func (s *Session) ToggleBold() bool {
	p, ok := s.Properties()
	return ok && s.Mutate(Restyle{Op: SetBold{On: !p.Bold}})
}

// ToggleItalic flips the italic style of the active text layer.
func (s *Session) ToggleItalic() bool {
	p, ok := s.Properties()
	return ok && s.Mutate(Restyle{Op: SetItalic{On: !p.Italic}})
}

// ToggleUnderline flips the underline of the active text layer.
func (s *Session) ToggleUnderline() bool {
	p, ok := s.Properties()
	return ok && s.Mutate(Restyle{Op: SetUnderline{On: !p.Underline}})
}

// SelectAt selects the topmost layer under the viewport point (x, y), or
// clears the selection when there is none. It returns the selected layer.
func (s *Session) SelectAt(x, y float64) (*scene.Layer, bool) {
	if s.engine == nil {
		return nil, false
	}
	cx, cy := s.view.ToContent(x, y)
	l, ok := s.engine.HitTest(cx, cy)
	if !ok {
		s.engine.Select()
		return nil, false
	}
	s.engine.Select(l.ID)
	return l, true
}

// Undo restores the previous snapshot. It returns false at the oldest entry.
func (s *Session) Undo() bool {
	if s.engine == nil {
		return false
	}
	snap, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

// Redo restores the next snapshot. It returns false at the newest entry.
func (s *Session) Redo() bool {
	if s.engine == nil {
		return false
	}
	snap, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

func (s *Session) restore(snap history.Snapshot) {
	err := s.history.WithSuppressed(func() error {
		return s.engine.Deserialize(string(snap))
	})
	if err != nil {
		s.logger.Error("restoring snapshot failed", "error", err)
	}
	s.render()
}

// CanUndo reports whether Undo would do something.
func (s *Session) CanUndo() bool {
	return s.history != nil && s.history.CanUndo()
}

// CanRedo reports whether Redo would do something.
func (s *Session) CanRedo() bool {
	return s.history != nil && s.history.CanRedo()
}

// HistoryLen returns the number of stored snapshots.
func (s *Session) HistoryLen() int {
	if s.history == nil {
		return 0
	}
	return s.history.Len()
}

// Clear removes every layer, keeping the background, once confirm agrees.
// A nil confirm counts as agreement.
func (s *Session) Clear(confirm func() bool) bool {
	if s.engine == nil {
		return false
	}
	if confirm != nil && !confirm() {
		return false
	}
	n := s.engine.Clear()
	s.push()
	s.logger.Info("canvas cleared", "removed", n)
	s.render()
	return true
}

// SetViewport records the visible size of the editor area. Call Zoom(0) to
// re-fit.
func (s *Session) SetViewport(width, height float64) {
	s.viewportW, s.viewportH = width, height
	if s.view != nil {
		s.view.SetViewport(width, height)
	}
}

// Zoom changes the presentation scale by delta within the configured bounds;
// a zero delta re-fits the canvas to the viewport.
func (s *Session) Zoom(delta float64) (viewtransform.Layout, bool) {
	if s.view == nil {
		return viewtransform.Layout{}, false
	}
	return s.view.ApplyZoomDelta(delta), true
}

// Layout returns the current presentation of the canvas.
func (s *Session) Layout() (viewtransform.Layout, bool) {
	if s.view == nil {
		return viewtransform.Layout{}, false
	}
	return s.view.Layout(), true
}

// View returns the editor view, or nil without a document.
func (s *Session) View() *viewtransform.View {
	return s.view
}

// Width returns the canvas width in pixels.
func (s *Session) Width() int {
	if s.engine == nil {
		return 0
	}
	return s.engine.Width()
}

// Height returns the canvas height in pixels.
func (s *Session) Height() int {
	if s.engine == nil {
		return 0
	}
	return s.engine.Height()
}

// ActiveLayer returns a copy of the single selected layer, or nil.
func (s *Session) ActiveLayer() *scene.Layer {
	if s.engine == nil {
		return nil
	}
	return s.engine.ActiveLayer()
}

// Properties returns the typography of the active layer. It returns false
// unless exactly one text layer is selected.
func (s *Session) Properties() (Properties, bool) {
	l := s.ActiveLayer()
	if l == nil || !l.IsText() {
		return Properties{}, false
	}
	return propertiesOf(l), true
}

// Layers returns copies of all layers, bottom first.
func (s *Session) Layers() []*scene.Layer {
	if s.engine == nil {
		return nil
	}
	return s.engine.Layers()
}

// Background returns a copy of the background image, or nil.
func (s *Session) Background() *scene.Background {
	if s.engine == nil {
		return nil
	}
	return s.engine.Background()
}

// Document returns a copy of the full document, or nil without one.
func (s *Session) Document() *scene.Document {
	if s.engine == nil {
		return nil
	}
	return s.engine.Document()
}

// Serialize returns the document in its JSON form.
func (s *Session) Serialize() (string, error) {
	if s.engine == nil {
		return "", ErrNoDocument
	}
	return s.engine.Serialize()
}

// WithoutBackground calls fn with the background image removed from the
// document and puts it back afterwards, also when fn fails. Nothing is
// recorded in the history.
func (s *Session) WithoutBackground(fn func(doc *scene.Document) error) error {
	if s.engine == nil {
		return ErrNoDocument
	}
	bg := s.engine.Background()
	s.engine.SetBackgroundImage(nil)
	defer s.engine.SetBackgroundImage(bg)
	return fn(s.engine.Document())
}

func (s *Session) push() {
	snap, err := s.engine.Serialize()
	if err != nil {
		s.logger.Error("snapshot failed", "error", err)
		return
	}
	s.history.Push(history.Snapshot(snap))
}

func (s *Session) render() {
	if s.onRender != nil {
		s.onRender()
	}
}
