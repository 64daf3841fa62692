// Package crop runs one interactive crop of an imported image: it owns the
// crop widget, drives the crop view's zoom independently of the widget, and
// produces the accepted background image on confirmation.
package crop

import (
	"image"
	"log/slog"

	posterimage "poster-editor/internal/image"
	"poster-editor/internal/viewtransform"
	"poster-editor/pkg/geometry"
)

// State is the lifecycle state of a Session.
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// Outcome records how the last crop ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeConfirmed
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// Config holds the crop parameters.
type Config struct {
	Padding      float64 // Subtracted from the scroll container on fit
	MaxScale     float64
	MaxOutput    int     // Rasterized selection is at most MaxOutput x MaxOutput
	JPEGQuality  int     // 1-100
	AutoCropArea float64 // Initial selection relative to the largest fit
	Factory      WidgetFactory
}

// DefaultConfig returns the standard crop parameters.
func DefaultConfig() Config {
	return Config{
		Padding:      40,
		MaxScale:     5.0,
		MaxOutput:    4096,
		JPEGQuality:  90,
		AutoCropArea: 0.9,
		Factory:      NewSelector,
	}
}

// Session is one crop interaction. It is not safe for concurrent use: Ready
// must be called on the same goroutine as every other method once the load
// future has resolved.
type Session struct {
	cfg    Config
	logger *slog.Logger

	state   State
	outcome Outcome
	load    *posterimage.Future
	aspect  float64
	widget  Widget
	view    *viewtransform.View

	viewportW, viewportH float64
}

// NewSession creates a closed session.
func NewSession(cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Factory == nil {
		cfg.Factory = def.Factory
	}
	if cfg.MaxScale <= 0 {
		cfg.MaxScale = def.MaxScale
	}
	if cfg.MaxOutput <= 0 {
		cfg.MaxOutput = def.MaxOutput
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = def.JPEGQuality
	}
	return &Session{cfg: cfg, logger: logger}
}

// Open starts a crop of the image being loaded by load, with the selection
// locked to aspectRatio. Any previous widget is discarded. The widget appears
// once Ready is called after the load resolves.
func (s *Session) Open(load *posterimage.Future, aspectRatio float64) {
	s.discard()
	s.state = StateOpen
	s.outcome = OutcomeNone
	s.load = load
	s.aspect = aspectRatio
	s.logger.Debug("crop opened", "aspect", aspectRatio)
}

// Ready creates the widget from the resolved load and fits the crop view. It
// is the single resumption point of the load; calls while closed, after the
// widget exists, or before the load resolved do nothing. A failed load closes
// the session and returns the error.
func (s *Session) Ready() error {
	if s.state != StateOpen || s.widget != nil || s.load == nil || !s.load.Ready() {
		return nil
	}
	pic, err := s.load.Result()
	if err != nil {
		s.logger.Warn("crop source failed to load", "error", err)
		s.discard()
		s.state = StateClosed
		s.outcome = OutcomeCancelled
		return err
	}

	s.widget = s.cfg.Factory(pic.Image, WidgetOptions{
		AspectRatio:  s.aspect,
		AutoCropArea: s.cfg.AutoCropArea,
	})
	size := s.widget.ContainerSize()
	s.view = viewtransform.NewFloorView(size.Width, size.Height,
		viewtransform.FitOptions{Padding: s.cfg.Padding}, s.cfg.MaxScale)
	s.view.SetViewport(s.viewportW, s.viewportH)
	l := s.view.ApplyZoomDelta(0)
	s.logger.Debug("crop ready", "width", size.Width, "height", size.Height, "fit", l.Scale)
	return nil
}

// IsReady reports whether the session is open with its widget created.
func (s *Session) IsReady() bool {
	return s.state == StateOpen && s.widget != nil
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Outcome returns how the last crop ended.
func (s *Session) Outcome() Outcome {
	return s.outcome
}

// SetViewport records the visible size of the crop scroll container.
func (s *Session) SetViewport(width, height float64) {
	s.viewportW, s.viewportH = width, height
	if s.view != nil {
		s.view.SetViewport(width, height)
	}
}

// Zoom changes the presentation scale by delta within [fit, MaxScale]; a zero
// delta re-fits to the container. It does nothing unless the crop is ready.
func (s *Session) Zoom(delta float64) (viewtransform.Layout, bool) {
	if !s.IsReady() {
		return viewtransform.Layout{}, false
	}
	return s.view.ApplyZoomDelta(delta), true
}

// Layout returns the current presentation of the crop source.
func (s *Session) Layout() (viewtransform.Layout, bool) {
	if !s.IsReady() {
		return viewtransform.Layout{}, false
	}
	return s.view.Layout(), true
}

// View returns the crop view, or nil before the widget exists.
func (s *Session) View() *viewtransform.View {
	if !s.IsReady() {
		return nil
	}
	return s.view
}

// Image returns the source as currently shown by the widget.
func (s *Session) Image() (image.Image, bool) {
	if !s.IsReady() {
		return nil, false
	}
	return s.widget.Image(), true
}

// Selection returns the crop rectangle in source coordinates.
func (s *Session) Selection() (geometry.Rect, bool) {
	if !s.IsReady() {
		return geometry.Rect{}, false
	}
	return s.widget.Selection(), true
}

// SetSelection forwards a new crop rectangle to the widget.
func (s *Session) SetSelection(r geometry.Rect) (geometry.Rect, bool) {
	if !s.IsReady() {
		return geometry.Rect{}, false
	}
	return s.widget.SetSelection(r), true
}

// MoveSelection drags the crop rectangle by (dx, dy) source pixels.
func (s *Session) MoveSelection(dx, dy float64) (geometry.Rect, bool) {
	r, ok := s.Selection()
	if !ok {
		return r, false
	}
	return s.SetSelection(r.Translate(dx, dy))
}

// ResizeSelection sets the crop rectangle's width around its center; the
// height follows from the aspect ratio.
func (s *Session) ResizeSelection(width float64) (geometry.Rect, bool) {
	r, ok := s.Selection()
	if !ok {
		return r, false
	}
	c := r.Center()
	h := r.Height
	if r.Width > 0 {
		h = width * r.Height / r.Width
	}
	return s.SetSelection(geometry.NewRect(c.X-width/2, c.Y-h/2, width, h))
}

// Rotate rotates the source by degrees (typically +/-90). The zoom state is
// left as it is.
func (s *Session) Rotate(degrees float64) bool {
	if !s.IsReady() {
		return false
	}
	s.widget.Rotate(degrees)
	size := s.widget.ContainerSize()
	s.view.SetContent(size.Width, size.Height)
	return true
}

// Confirm rasterizes the selection into the accepted image and closes the
// session. It returns false if the crop is not ready.
func (s *Session) Confirm() (*posterimage.Picture, bool) {
	if !s.IsReady() {
		return nil, false
	}
	raster := s.widget.Rasterize(s.cfg.MaxOutput, s.cfg.MaxOutput)
	pic, err := posterimage.Encode(raster, s.cfg.JPEGQuality)
	if err != nil {
		s.logger.Error("crop encode failed", "error", err)
		return nil, false
	}

	s.discard()
	s.state = StateClosed
	s.outcome = OutcomeConfirmed
	s.logger.Info("crop confirmed", "width", pic.Width, "height", pic.Height)
	return pic, true
}

// Cancel closes the session without producing an image. It is safe to call
// before the load has resolved, and when already closed.
func (s *Session) Cancel() {
	if s.state != StateOpen {
		return
	}
	s.discard()
	s.state = StateClosed
	s.outcome = OutcomeCancelled
	s.logger.Debug("crop cancelled")
}

func (s *Session) discard() {
	if s.widget != nil {
		s.widget.Destroy()
	}
	s.widget = nil
	s.view = nil
	s.load = nil
}
