package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"poster-editor/pkg/units"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestRunWritesEveryOutput(t *testing.T) {
	src := writePNG(t, 400, 200)
	dir := t.TempDir()
	out := func(name string) string { return filepath.Join(dir, name) }

	var stdout bytes.Buffer
	err := run([]string{
		"-image", src,
		"-width", "300", "-height", "200", "-unit", "px",
		"-text", "Hello", "-text", "World",
		"-png", out("p.png"), "-svg", out("p.svg"),
		"-print", out("p.html"), "-json", out("p.json"),
		"-project", out("p.poster"),
	}, &stdout)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Canvas: 300x200 px")

	f, err := os.Open(out("p.png"))
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Width)
	assert.Equal(t, 400, cfg.Height)

	svg, err := os.ReadFile(out("p.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(svg), `viewBox="0 0 300 200"`)
	assert.Equal(t, 2, strings.Count(string(svg), "<text"))
	assert.NotContains(t, string(svg), "<image")

	data, err := os.ReadFile(out("p.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"backgroundImage":{`)

	for _, name := range []string{"p.html", "p.poster"} {
		_, err := os.Stat(out(name))
		assert.NoError(t, err, name)
	}
}

func TestRunReopensProject(t *testing.T) {
	dir := t.TempDir()
	proj := filepath.Join(dir, "a.poster")
	require.NoError(t, run([]string{"-paper", "A5", "-text", "One", "-project", proj}, &bytes.Buffer{}))

	var stdout bytes.Buffer
	svg := filepath.Join(dir, "a.svg")
	require.NoError(t, run([]string{"-open", proj, "-text", "Two", "-svg", svg}, &stdout))
	assert.Contains(t, stdout.String(), "Canvas: 559x794 px")

	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "<text"))
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"no outputs", []string{"-paper", "A4"}},
		{"unknown paper", []string{"-paper", "B9", "-json", filepath.Join(dir, "a.json")}},
		{"bad unit", []string{"-width", "10", "-height", "10", "-unit", "ft", "-json", filepath.Join(dir, "b.json")}},
		{"missing image", []string{"-image", filepath.Join(dir, "none.png"), "-json", filepath.Join(dir, "c.json")}},
		{"bad export", []string{"-png", filepath.Join(dir, "d.gif")}},
		{"stray argument", []string{"-json", filepath.Join(dir, "e.json"), "extra"}},
		{"bad fill", []string{"-text", "x", "-fill", "nope", "-json", filepath.Join(dir, "f.json")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(tt.args, &bytes.Buffer{}))
		})
	}
}

func TestResolvePaper(t *testing.T) {
	o := &options{paper: "Letter", landscape: true, unit: "mm"}
	p, err := o.resolvePaper(units.A4)
	require.NoError(t, err)
	assert.Equal(t, units.Letter.Landscape(), p)

	o = &options{width: 100, height: 50, unit: "mm"}
	p, err = o.resolvePaper(units.A4)
	require.NoError(t, err)
	assert.Equal(t, units.Paper{Width: 100, Height: 50, Unit: units.Millimeter}, p)

	p, err = (&options{}).resolvePaper(units.A4)
	require.NoError(t, err)
	assert.Equal(t, units.A4, p)
}

func TestVersion(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, run([]string{"-version"}, &stdout))
	assert.True(t, strings.HasPrefix(stdout.String(), "posterrender "))
}
