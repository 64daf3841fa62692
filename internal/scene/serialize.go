package scene

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FormatVersion tags serialized documents.
const FormatVersion = "poster-1"

// ErrMalformed is returned when a serialized document cannot be restored.
var ErrMalformed = errors.New("malformed document")

// Document is the serialized form of a canvas.
type Document struct {
	Version         string      `json:"version"`
	Width           int         `json:"width"`
	Height          int         `json:"height"`
	Background      string      `json:"background"`
	BackgroundImage *Background `json:"backgroundImage"`
	Objects         []*Layer    `json:"objects"`
}

// Document returns a deep copy of the canvas contents.
func (c *Canvas) Document() *Document {
	return &Document{
		Version:         FormatVersion,
		Width:           c.width,
		Height:          c.height,
		Background:      c.backgroundColor,
		BackgroundImage: c.Background(),
		Objects:         c.Layers(),
	}
}

// Serialize encodes the full canvas state as JSON.
func (c *Canvas) Serialize() (string, error) {
	data, err := json.Marshal(c.Document())
	if err != nil {
		return "", fmt.Errorf("serialize canvas: %w", err)
	}
	return string(data), nil
}

// ParseDocument decodes a serialized document without applying it.
func ParseDocument(data string) (*Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Width < 0 || doc.Height < 0 {
		return nil, fmt.Errorf("%w: negative canvas size", ErrMalformed)
	}
	for i, l := range doc.Objects {
		if l == nil {
			return nil, fmt.Errorf("%w: object %d is null", ErrMalformed, i)
		}
		if l.Type != TypeText && l.Type != TypeImage {
			return nil, fmt.Errorf("%w: object %d has unknown type %q", ErrMalformed, i, l.Type)
		}
	}
	return &doc, nil
}

// Deserialize replaces the canvas contents with a serialized document. The
// selection is cleared and an object-added notification is emitted for every
// restored layer. On error the canvas is left unchanged.
func (c *Canvas) Deserialize(data string) error {
	doc, err := ParseDocument(data)
	if err != nil {
		return err
	}

	if doc.Width > 0 && doc.Height > 0 {
		c.width, c.height = doc.Width, doc.Height
	}
	if doc.Background != "" {
		c.backgroundColor = doc.Background
	}
	c.SetBackgroundImage(doc.BackgroundImage)

	if len(c.selection) > 0 {
		c.selection = nil
		c.emit(EventSelectionCleared)
	}
	c.layers = make([]*Layer, 0, len(doc.Objects))
	for _, l := range doc.Objects {
		c.AddLayer(l)
	}
	return nil
}
