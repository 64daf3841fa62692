// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"poster-editor/internal/config"
	"poster-editor/internal/crop"
	"poster-editor/internal/editor"
	"poster-editor/internal/export"
	posterimage "poster-editor/internal/image"
	"poster-editor/internal/project"
	"poster-editor/internal/scene"
	"poster-editor/internal/viewtransform"
	"poster-editor/pkg/units"
)

// State holds the application state: the paper, the crop and editor
// sessions, the accepted image waiting for editing to start, and the project.
//
// A State belongs to one goroutine, the UI event loop in the desktop app.
// Nothing in it is locked; work finishing elsewhere comes back through a
// Dispatcher (see AwaitCrop).
type State struct {
	cfg    *config.Config
	logger *slog.Logger

	// Project
	ProjectPath     string
	Modified        bool
	SourceImagePath string

	// Canvas size
	Paper units.Paper

	// Sessions
	Crop   *crop.Session
	Editor *editor.Session

	// Cropped image held until editing starts
	pending *posterimage.Picture

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventImageLoading EventType = iota
	EventCropReady
	EventCropClosed
	EventBackgroundAccepted
	EventPendingChanged
	EventEditingStarted
	EventDocumentChanged
	EventSelectionChanged
	EventZoomChanged
	EventModified
	EventProjectLoaded
	EventProjectSaved
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Dispatcher runs fn on the goroutine that owns the State. The desktop app
// passes fyne.Do.
type Dispatcher func(fn func())

// ZoomTarget says which view a wheel zoom went to.
type ZoomTarget int

const (
	ZoomNone ZoomTarget = iota
	ZoomCrop
	ZoomEditor
)

// NewState creates a new application state. A nil cfg uses the defaults and
// a nil logger uses slog.Default().
func NewState(cfg *config.Config, logger *slog.Logger) *State {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &State{
		cfg:       cfg,
		logger:    logger,
		Paper:     cfg.Paper,
		Crop:      crop.NewSession(cfg.Crop.Session(), logger.With("session", "crop")),
		Editor:    editor.NewSession(cfg.Editor.Session(), logger.With("session", "editor")),
		listeners: make(map[EventType][]EventListener),
	}
	s.Editor.SetRenderHook(func() { s.Emit(EventDocumentChanged, nil) })
	s.Editor.OnEvent(func(e scene.Event) {
		switch e.Type {
		case scene.EventSelectionCreated, scene.EventSelectionUpdated, scene.EventSelectionCleared:
			s.Emit(EventSelectionChanged, e.LayerIDs)
		}
	})
	return s
}

// Config returns the configuration in use.
func (s *State) Config() *config.Config {
	return s.cfg
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	for _, listener := range s.listeners[event] {
		listener(data)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.Modified = modified
	s.Emit(EventModified, modified)
}

// SetPaper changes the canvas size used by the next StartEditing and the
// aspect ratio of the next crop.
func (s *State) SetPaper(p units.Paper) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.Paper = p
	return nil
}

// ImportImage starts decoding the image at path and opens the crop on it.
// The caller resumes the crop with CropReady once the returned future is
// done.
func (s *State) ImportImage(path string) *posterimage.Future {
	s.SourceImagePath = path
	return s.openCrop(posterimage.LoadPath(path))
}

// ImportImageData is ImportImage for image bytes already in memory.
func (s *State) ImportImageData(data []byte) *posterimage.Future {
	return s.openCrop(posterimage.Load(data))
}

func (s *State) openCrop(load *posterimage.Future) *posterimage.Future {
	s.Crop.Open(load, s.Paper.Aspect())
	s.Emit(EventImageLoading, nil)
	return load
}

// AwaitCrop resumes the crop opened on load once the load resolves. Only the
// wait runs on its own goroutine: CropReady and done are handed to dispatch,
// so the sessions are touched by their owner alone. done may be nil.
func (s *State) AwaitCrop(load *posterimage.Future, dispatch Dispatcher, done func(error)) {
	go func() {
		<-load.Done()
		dispatch(func() {
			err := s.CropReady()
			if done != nil {
				done(err)
			}
		})
	}()
}

// CropReady creates the crop widget after the image finished loading. A
// failed load closes the crop and returns the error.
func (s *State) CropReady() error {
	if err := s.Crop.Ready(); err != nil {
		s.Emit(EventCropClosed, s.Crop.Outcome())
		return fmt.Errorf("load image: %w", err)
	}
	if s.Crop.IsReady() {
		s.Emit(EventCropReady, nil)
	}
	return nil
}

// ConfirmCrop accepts the crop. With a document open the image replaces its
// background; otherwise it is held until StartEditing.
func (s *State) ConfirmCrop() bool {
	pic, ok := s.Crop.Confirm()
	if !ok {
		return false
	}
	if s.Editor.Active() {
		s.Editor.SetBackground(pic)
		s.SetModified(true)
	} else {
		s.pending = pic
	}
	s.Emit(EventCropClosed, crop.OutcomeConfirmed)
	s.Emit(EventBackgroundAccepted, pic)
	if s.pending != nil {
		s.Emit(EventPendingChanged, pic)
	}
	return true
}

// CancelCrop closes the crop without an image.
func (s *State) CancelCrop() {
	if s.Crop.State() != crop.StateOpen {
		return
	}
	s.Crop.Cancel()
	s.Emit(EventCropClosed, crop.OutcomeCancelled)
}

// Pending returns the accepted image waiting for StartEditing, or nil.
func (s *State) Pending() *posterimage.Picture {
	return s.pending
}

// DiscardPending drops the accepted image so the next StartEditing gives a
// blank template.
func (s *State) DiscardPending() {
	if s.pending == nil {
		return
	}
	s.pending = nil
	s.Emit(EventPendingChanged, nil)
}

// StartEditing creates a new document sized to the paper with the pending
// image, if any, as its background. Starting without an image gives a blank
// template.
func (s *State) StartEditing() {
	w, h := s.Paper.Pixels()
	s.Editor.Initialize(w, h, s.pending)
	hadPending := s.pending != nil
	s.pending = nil
	s.ProjectPath = ""
	s.SetModified(false)
	if hadPending {
		s.Emit(EventPendingChanged, nil)
	}
	s.Emit(EventEditingStarted, nil)
}

// Mutate applies a document edit and marks the project modified when it
// changed something.
func (s *State) Mutate(m editor.Mutation) bool {
	if !s.Editor.Mutate(m) {
		return false
	}
	s.SetModified(true)
	return true
}

// ToggleBold flips bold on the active text layer.
func (s *State) ToggleBold() bool {
	return s.modifiedIf(s.Editor.ToggleBold())
}

// ToggleItalic flips italic on the active text layer.
func (s *State) ToggleItalic() bool {
	return s.modifiedIf(s.Editor.ToggleItalic())
}

// ToggleUnderline flips underline on the active text layer.
func (s *State) ToggleUnderline() bool {
	return s.modifiedIf(s.Editor.ToggleUnderline())
}

func (s *State) modifiedIf(changed bool) bool {
	if changed {
		s.SetModified(true)
	}
	return changed
}

// Undo steps the document back.
func (s *State) Undo() bool {
	if !s.Editor.Undo() {
		return false
	}
	s.SetModified(true)
	return true
}

// Redo steps the document forward.
func (s *State) Redo() bool {
	if !s.Editor.Redo() {
		return false
	}
	s.SetModified(true)
	return true
}

// Clear removes every layer once confirm agrees.
func (s *State) Clear(confirm func() bool) bool {
	if !s.Editor.Clear(confirm) {
		return false
	}
	s.SetModified(true)
	return true
}

// Wheel zooms by notches wheel steps (positive zooms in). The crop view
// takes the zoom while it is open, otherwise the editor does.
func (s *State) Wheel(notches float64) (viewtransform.Layout, ZoomTarget) {
	if notches == 0 {
		return viewtransform.Layout{}, ZoomNone
	}
	if s.Crop.IsReady() {
		l, _ := s.Crop.Zoom(notches * s.cfg.Crop.ZoomStep)
		s.Emit(EventZoomChanged, ZoomCrop)
		return l, ZoomCrop
	}
	if l, ok := s.Editor.Zoom(notches * s.cfg.Editor.ZoomStep); ok {
		s.Emit(EventZoomChanged, ZoomEditor)
		return l, ZoomEditor
	}
	return viewtransform.Layout{}, ZoomNone
}

// ResetZoom re-fits the editor view.
func (s *State) ResetZoom() {
	if _, ok := s.Editor.Zoom(0); ok {
		s.Emit(EventZoomChanged, ZoomEditor)
	}
}

// ResizeEditor records the editor area size and re-fits the canvas.
func (s *State) ResizeEditor(width, height float64) {
	s.Editor.SetViewport(width, height)
	if _, ok := s.Editor.Zoom(0); ok {
		s.Emit(EventZoomChanged, ZoomEditor)
	}
}

// ResizeCrop records the crop area size and re-fits the crop source.
func (s *State) ResizeCrop(width, height float64) {
	s.Crop.SetViewport(width, height)
	if _, ok := s.Crop.Zoom(0); ok {
		s.Emit(EventZoomChanged, ZoomCrop)
	}
}

// SaveProject writes the paper and document to path.
func (s *State) SaveProject(path string) error {
	doc, err := s.Editor.Serialize()
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	proj := project.New(name, s.Paper)
	if err := proj.SetDocument(doc); err != nil {
		return err
	}
	if s.SourceImagePath != "" {
		proj.SetSourceImage(path, s.SourceImagePath)
	}
	if err := proj.Save(path); err != nil {
		return fmt.Errorf("save project: %w", err)
	}

	s.ProjectPath = path
	s.SetModified(false)
	s.logger.Info("project saved", "path", path)
	s.Emit(EventProjectSaved, path)
	return nil
}

// LoadProject opens a project file, replacing the current document.
func (s *State) LoadProject(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return err
	}
	if err := proj.Paper.Validate(); err != nil {
		return fmt.Errorf("project %s: %w", path, err)
	}
	if proj.HasDocument() {
		if err := s.Editor.Load(string(proj.Document)); err != nil {
			return fmt.Errorf("project %s: %w", path, err)
		}
	} else {
		w, h := proj.Paper.Pixels()
		s.Editor.Initialize(w, h, nil)
	}

	s.Paper = proj.Paper
	s.SourceImagePath = proj.GetSourceImagePath(path)
	s.pending = nil
	s.ProjectPath = path
	s.SetModified(false)
	s.logger.Info("project loaded", "path", path, "layers", len(s.Editor.Layers()))
	s.Emit(EventProjectLoaded, path)
	return nil
}

// Export writes the document to path in the format given by its extension:
// .png, .svg, .html (print page) or .json.
func (s *State) Export(path string) error {
	if !s.Editor.Active() {
		return editor.ErrNoDocument
	}
	var buf bytes.Buffer
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		err = export.PNG(&buf, s.Editor.Document(), s.cfg.Export.Multiplier)
	case ".svg":
		err = export.SVG(&buf, s.Editor)
	case ".html", ".htm":
		title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		err = export.PrintHTML(&buf, s.Editor, s.Paper, title)
	case ".json":
		err = export.JSON(&buf, s.Editor)
	default:
		return fmt.Errorf("unsupported export format %q", ext)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	s.logger.Info("exported", "path", path, "bytes", buf.Len())
	return nil
}
