package editor

import (
	"poster-editor/internal/scene"
)

// Engine is the object graph an editor session drives. *scene.Canvas is the
// implementation used by the application; tests may substitute their own.
type Engine interface {
	Width() int
	Height() int
	SetBackgroundImage(bg *scene.Background)
	Background() *scene.Background

	AddLayer(l *scene.Layer) *scene.Layer
	RemoveLayers(ids ...string) int
	Clear() int
	Reorder(id string, dir scene.Direction) bool
	Modify(id string, fn func(*scene.Layer)) bool

	Layer(id string) (*scene.Layer, bool)
	Layers() []*scene.Layer
	HitTest(x, y float64) (*scene.Layer, bool)

	Select(ids ...string)
	ActiveSelection() []*scene.Layer
	ActiveLayer() *scene.Layer

	Document() *scene.Document
	Serialize() (string, error)
	Deserialize(data string) error

	On(event scene.EventType, listener scene.Listener)
}

// EngineFactory creates an empty engine of the given pixel size.
type EngineFactory func(width, height int, backgroundColor string) Engine

// NewSceneEngine is the default EngineFactory.
func NewSceneEngine(width, height int, backgroundColor string) Engine {
	return scene.NewCanvas(width, height, backgroundColor)
}

var allEvents = []scene.EventType{
	scene.EventSelectionCreated,
	scene.EventSelectionUpdated,
	scene.EventSelectionCleared,
	scene.EventObjectAdded,
	scene.EventObjectModified,
	scene.EventObjectRemoved,
}
