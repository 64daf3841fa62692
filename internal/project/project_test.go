package project

import (
	"os"
	"path/filepath"
	"testing"

	"poster-editor/internal/scene"
	"poster-editor/pkg/units"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flyer"+Extension)

	c := scene.NewCanvas(400, 300, "#ffffff")
	c.AddLayer(scene.NewText("hello", "Arial", 20, "#000000"))
	doc, err := c.Serialize()
	require.NoError(t, err)

	p := New("flyer", units.A5)
	require.NoError(t, p.SetDocument(doc))
	p.SetSourceImage(path, filepath.Join(dir, "images", "photo.jpg"))
	require.NoError(t, p.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "flyer", loaded.Name)
	assert.Equal(t, units.A5, loaded.Paper)
	assert.True(t, loaded.HasDocument())
	assert.Equal(t, filepath.Join("images", "photo.jpg"), loaded.SourceImagePath)
	assert.Equal(t, filepath.Join(dir, "images", "photo.jpg"), loaded.GetSourceImagePath(path))

	restored := scene.NewCanvas(1, 1, "")
	require.NoError(t, restored.Deserialize(string(loaded.Document)))
	assert.Equal(t, 400, restored.Width())
	assert.Equal(t, 1, restored.Len())
}

func TestLoadRejects(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		return path
	}

	_, err := Load(write("bad.poster", "{"))
	assert.Error(t, err)

	_, err = Load(write("future.poster", `{"version": 99}`))
	assert.Error(t, err)

	_, err = Load(write("doc.poster", `{"version": 1, "document": {"objects": [null]}}`))
	assert.ErrorIs(t, err, scene.ErrMalformed)

	p, err := Load(write("empty.poster", `{"version": 1}`))
	require.NoError(t, err)
	assert.False(t, p.HasDocument())

	_, err = Load(filepath.Join(dir, "missing.poster"))
	assert.Error(t, err)
}

func TestSetDocumentRejectsInvalidJSON(t *testing.T) {
	p := New("x", units.A4)
	assert.ErrorIs(t, p.SetDocument("{"), scene.ErrMalformed)
	assert.False(t, p.HasDocument())
}

func TestPaths(t *testing.T) {
	p := New("x", units.A4)
	assert.Empty(t, p.GetSourceImagePath("/a/b.poster"))
	p.SourceImagePath = "/abs/img.png"
	assert.Equal(t, "/abs/img.png", p.GetSourceImagePath("/a/b.poster"))
	assert.Equal(t, "/a/b.png", DefaultPath("/a/b.poster", ".png"))
}
