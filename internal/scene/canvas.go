package scene

import (
	"slices"

	"poster-editor/pkg/geometry"

	"github.com/google/uuid"
)

// EventType identifies a change notification emitted by a Canvas.
type EventType int

const (
	EventSelectionCreated EventType = iota
	EventSelectionUpdated
	EventSelectionCleared
	EventObjectAdded
	EventObjectModified
	EventObjectRemoved
)

func (e EventType) String() string {
	switch e {
	case EventSelectionCreated:
		return "selection:created"
	case EventSelectionUpdated:
		return "selection:updated"
	case EventSelectionCleared:
		return "selection:cleared"
	case EventObjectAdded:
		return "object:added"
	case EventObjectModified:
		return "object:modified"
	case EventObjectRemoved:
		return "object:removed"
	default:
		return "unknown"
	}
}

// Event describes one change.
type Event struct {
	Type     EventType
	LayerIDs []string
}

// Listener receives change notifications.
type Listener func(Event)

// Direction is a z-order move.
type Direction int

const (
	Forward  Direction = iota // One step towards the viewer
	Backward                  // One step away from the viewer
	ToFront
	ToBack
)

// Background is the canvas background image, stretched by ScaleX/ScaleY.
type Background struct {
	Src    string  `json:"src"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
}

// Canvas is a fixed-size document of layers. It is not safe for concurrent use.
type Canvas struct {
	width           int
	height          int
	backgroundColor string
	background      *Background
	layers          []*Layer
	selection       []string
	listeners       map[EventType][]Listener
}

// NewCanvas creates an empty canvas.
func NewCanvas(width, height int, backgroundColor string) *Canvas {
	return &Canvas{
		width:           width,
		height:          height,
		backgroundColor: backgroundColor,
		listeners:       make(map[EventType][]Listener),
	}
}

// On registers a listener for the given event type.
func (c *Canvas) On(event EventType, listener Listener) {
	c.listeners[event] = append(c.listeners[event], listener)
}

func (c *Canvas) emit(event EventType, ids ...string) {
	for _, l := range c.listeners[event] {
		l(Event{Type: event, LayerIDs: ids})
	}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Size returns the canvas size.
func (c *Canvas) Size() geometry.Size {
	return geometry.NewSize(float64(c.width), float64(c.height))
}

// BackgroundColor returns the fill behind the background image.
func (c *Canvas) BackgroundColor() string { return c.backgroundColor }

// SetBackgroundImage replaces the background image; nil removes it.
func (c *Canvas) SetBackgroundImage(bg *Background) {
	if bg == nil {
		c.background = nil
		return
	}
	cp := *bg
	c.background = &cp
}

// Background returns a copy of the background image, or nil.
func (c *Canvas) Background() *Background {
	if c.background == nil {
		return nil
	}
	cp := *c.background
	return &cp
}

// AddLayer appends l on top of the stack, assigning an ID if it has none.
// The canvas takes ownership of l.
func (c *Canvas) AddLayer(l *Layer) *Layer {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	c.layers = append(c.layers, l)
	c.emit(EventObjectAdded, l.ID)
	return l.Clone()
}

// RemoveLayers removes the layers with the given IDs and returns how many
// were removed.
func (c *Canvas) RemoveLayers(ids ...string) int {
	var removed []string
	c.layers = slices.DeleteFunc(c.layers, func(l *Layer) bool {
		if slices.Contains(ids, l.ID) {
			removed = append(removed, l.ID)
			return true
		}
		return false
	})
	if len(removed) == 0 {
		return 0
	}
	if c.dropFromSelection(removed) {
		c.emitSelectionChange(true)
	}
	c.emit(EventObjectRemoved, removed...)
	return len(removed)
}

// Clear removes every layer, keeping the background.
func (c *Canvas) Clear() int {
	ids := make([]string, len(c.layers))
	for i, l := range c.layers {
		ids[i] = l.ID
	}
	return c.RemoveLayers(ids...)
}

// Reorder moves a layer in the z-order. It returns false when the layer does
// not exist or is already at the end it is moving towards.
func (c *Canvas) Reorder(id string, dir Direction) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	j := i
	switch dir {
	case Forward:
		j = i + 1
	case Backward:
		j = i - 1
	case ToFront:
		j = len(c.layers) - 1
	case ToBack:
		j = 0
	}
	if j < 0 || j >= len(c.layers) || j == i {
		return false
	}
	l := c.layers[i]
	c.layers = slices.Delete(c.layers, i, i+1)
	c.layers = slices.Insert(c.layers, j, l)
	c.emit(EventObjectModified, id)
	return true
}

// Modify applies fn to the live layer and re-measures text. It returns false
// if the layer does not exist.
func (c *Canvas) Modify(id string, fn func(*Layer)) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	l := c.layers[i]
	fn(l)
	l.ID = id
	l.Measure()
	c.emit(EventObjectModified, id)
	return true
}

// Layer returns a copy of the layer with the given ID.
func (c *Canvas) Layer(id string) (*Layer, bool) {
	i := c.index(id)
	if i < 0 {
		return nil, false
	}
	return c.layers[i].Clone(), true
}

// Layers returns copies of all layers, bottom first.
func (c *Canvas) Layers() []*Layer {
	out := make([]*Layer, len(c.layers))
	for i, l := range c.layers {
		out[i] = l.Clone()
	}
	return out
}

// Len returns the number of layers.
func (c *Canvas) Len() int { return len(c.layers) }

// Select replaces the active selection. Unknown IDs are ignored.
func (c *Canvas) Select(ids ...string) {
	var next []string
	for _, id := range ids {
		if c.index(id) >= 0 && !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	if slices.Equal(next, c.selection) {
		return
	}
	hadSelection := len(c.selection) > 0
	c.selection = next
	c.emitSelectionChange(hadSelection)
}

// Deselect clears the active selection.
func (c *Canvas) Deselect() {
	c.Select()
}

// ActiveSelection returns copies of the selected layers in z-order.
func (c *Canvas) ActiveSelection() []*Layer {
	var out []*Layer
	for _, l := range c.layers {
		if slices.Contains(c.selection, l.ID) {
			out = append(out, l.Clone())
		}
	}
	return out
}

// ActiveLayer returns the single selected layer, or nil when zero or several
// layers are selected.
func (c *Canvas) ActiveLayer() *Layer {
	if len(c.selection) != 1 {
		return nil
	}
	l, _ := c.Layer(c.selection[0])
	return l
}

// HitTest returns the topmost layer whose bounds contain the canvas point.
func (c *Canvas) HitTest(x, y float64) (*Layer, bool) {
	p := geometry.Point2D{X: x, Y: y}
	for i := len(c.layers) - 1; i >= 0; i-- {
		if c.layers[i].Bounds().Contains(p) {
			return c.layers[i].Clone(), true
		}
	}
	return nil, false
}

func (c *Canvas) index(id string) int {
	return slices.IndexFunc(c.layers, func(l *Layer) bool { return l.ID == id })
}

func (c *Canvas) dropFromSelection(ids []string) bool {
	n := len(c.selection)
	c.selection = slices.DeleteFunc(c.selection, func(id string) bool {
		return slices.Contains(ids, id)
	})
	return len(c.selection) != n
}

func (c *Canvas) emitSelectionChange(hadSelection bool) {
	switch {
	case len(c.selection) == 0:
		c.emit(EventSelectionCleared)
	case hadSelection:
		c.emit(EventSelectionUpdated, c.selection...)
	default:
		c.emit(EventSelectionCreated, c.selection...)
	}
}
