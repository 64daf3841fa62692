package config

import (
	"os"
	"path/filepath"
	"testing"

	"poster-editor/pkg/units"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, units.A4, c.Paper)
	assert.Equal(t, 80.0, c.Editor.Padding)
	assert.Equal(t, 40.0, c.Crop.Padding)
	assert.Equal(t, 4096, c.Crop.MaxOutput)
	assert.Equal(t, 90, c.Crop.JPEGQuality)
	assert.Equal(t, 2.0, c.Export.Multiplier)
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
paper:
  width: 8.5
  height: 11
  unit: in
editor:
  background_color: "#fafafa"
  max_scale: 3
crop:
  jpeg_quality: 75
log_level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, units.Letter, c.Paper)
	assert.Equal(t, "#fafafa", c.Editor.BackgroundColor)
	assert.Equal(t, 3.0, c.Editor.MaxScale)
	assert.Equal(t, 0.1, c.Editor.MinScale)
	assert.Equal(t, 75, c.Crop.JPEGQuality)

	ec := c.Editor.Session()
	assert.Equal(t, 80.0, ec.Fit.Padding)
	assert.True(t, ec.Fit.CapAtOne)
	assert.Equal(t, 3.0, ec.MaxScale)
	assert.Equal(t, 75, c.Crop.Session().JPEGQuality)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown unit", "paper: {width: 1, height: 1, unit: furlong}"},
		{"negative paper", "paper: {width: -1, height: 10, unit: mm}"},
		{"scale bounds", "editor: {min_scale: 4, max_scale: 2}"},
		{"colour", "editor: {background_color: white}"},
		{"quality", "crop: {jpeg_quality: 101}"},
		{"crop area", "crop: {auto_crop_area: 1.5}"},
		{"log level", "log_level: loud"},
		{"syntax", "paper: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("crop: {jpeg_quality: 101}"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poster.yaml")
	c := Default()
	c.Paper = units.A5.Landscape()
	c.Crop.AutoCropArea = 0.5
	require.NoError(t, c.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "unit: mm")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	c, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crop: {jpeg_quality: 101}"), 0o644))
	_, err = LoadOrDefault(path)
	assert.ErrorIs(t, err, ErrInvalid)

	assert.Equal(t, "config.yaml", filepath.Base(DefaultPath()))
}
