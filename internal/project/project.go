// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"poster-editor/internal/scene"
	"poster-editor/pkg/units"
)

// Extension is the project file extension.
const Extension = ".poster"

// CurrentVersion is written into new project files.
const CurrentVersion = 1

// File represents a poster project file (.poster).
type File struct {
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	Description string    `json:"description,omitempty"`

	// Physical size the canvas was created for
	Paper units.Paper `json:"paper"`

	// Image the background was cropped from (relative to project file)
	SourceImagePath string `json:"source_image,omitempty"`

	// Serialized document, exactly as exported to JSON
	Document json.RawMessage `json:"document"`
}

// New creates a new project file for the given paper.
func New(name string, paper units.Paper) *File {
	now := time.Now()
	return &File{
		Version:  CurrentVersion,
		Name:     name,
		Created:  now,
		Modified: now,
		Paper:    paper,
	}
}

// Load loads a project from a .poster file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", path, err)
	}
	if proj.Version > CurrentVersion {
		return nil, fmt.Errorf("project %s: unsupported version %d", path, proj.Version)
	}
	if len(proj.Document) > 0 {
		if _, err := scene.ParseDocument(string(proj.Document)); err != nil {
			return nil, fmt.Errorf("project %s: %w", path, err)
		}
	}

	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetDocument stores a serialized document.
func (p *File) SetDocument(doc string) error {
	if !json.Valid([]byte(doc)) {
		return fmt.Errorf("%w: not JSON", scene.ErrMalformed)
	}
	p.Document = json.RawMessage(doc)
	p.Modified = time.Now()
	return nil
}

// HasDocument reports whether a document was saved.
func (p *File) HasDocument() bool {
	return len(p.Document) > 0 && string(p.Document) != "null"
}

// SetSourceImage sets the source image path (relative to project).
func (p *File) SetSourceImage(projectPath, imagePath string) {
	rel, err := filepath.Rel(filepath.Dir(projectPath), imagePath)
	if err != nil {
		p.SourceImagePath = imagePath
	} else {
		p.SourceImagePath = rel
	}
	p.Modified = time.Now()
}

// GetSourceImagePath returns the absolute path to the source image.
func (p *File) GetSourceImagePath(projectPath string) string {
	if p.SourceImagePath == "" {
		return ""
	}
	if filepath.IsAbs(p.SourceImagePath) {
		return p.SourceImagePath
	}
	return filepath.Join(filepath.Dir(projectPath), p.SourceImagePath)
}

// DefaultPath returns where an export of the given extension goes next to
// the project, e.g. poster.png for poster.poster.
func DefaultPath(projectPath, ext string) string {
	base := projectPath[:len(projectPath)-len(filepath.Ext(projectPath))]
	return base + ext
}
