// Command posterrender builds a poster without the desktop UI: it crops an
// image to the paper size, adds text layers and writes the exports.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"poster-editor/internal/app"
	"poster-editor/internal/config"
	"poster-editor/internal/editor"
	"poster-editor/internal/version"
	"poster-editor/pkg/colorutil"
	"poster-editor/pkg/geometry"
	"poster-editor/pkg/units"
)

// textList collects repeated -text flags.
type textList []string

func (t *textList) String() string { return strings.Join(*t, ", ") }

func (t *textList) Set(s string) error {
	*t = append(*t, s)
	return nil
}

type options struct {
	image      string
	open       string
	configPath string
	paper      string
	width      float64
	height     float64
	unit       string
	landscape  bool
	rotate     float64
	texts      textList
	font       string
	size       float64
	fill       string
	png        string
	svg        string
	print      string
	json       string
	project    string
	timeout    time.Duration
	version    bool
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Printf("posterrender: %v", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("posterrender", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.image, "image", "", "Background image to crop (JPEG, PNG, GIF, BMP, WebP, TIFF)")
	fs.StringVar(&o.open, "open", "", "Start from a saved project instead of a new document")
	fs.StringVar(&o.configPath, "config", "", "Path to YAML configuration")
	fs.StringVar(&o.paper, "paper", "", "Paper preset: "+strings.Join(units.PaperNames(), ", "))
	fs.Float64Var(&o.width, "width", 0, "Paper width, overrides -paper")
	fs.Float64Var(&o.height, "height", 0, "Paper height, overrides -paper")
	fs.StringVar(&o.unit, "unit", "mm", "Unit of -width and -height: px, in, mm, cm")
	fs.BoolVar(&o.landscape, "landscape", false, "Turn the paper long side horizontal")
	fs.Float64Var(&o.rotate, "rotate", 0, "Rotate the image before cropping, in degrees")
	fs.Var(&o.texts, "text", "Add a text layer (repeatable)")
	fs.StringVar(&o.font, "font", editor.DefaultFontFamily, "Font family for -text")
	fs.Float64Var(&o.size, "size", editor.DefaultFontSize, "Font size for -text")
	fs.StringVar(&o.fill, "fill", editor.DefaultFill, "Text colour for -text")
	fs.StringVar(&o.png, "png", "", "Write a PNG at twice the canvas size")
	fs.StringVar(&o.svg, "svg", "", "Write an SVG without the background image")
	fs.StringVar(&o.print, "print", "", "Write a printable HTML page")
	fs.StringVar(&o.json, "json", "", "Write the document JSON")
	fs.StringVar(&o.project, "project", "", "Save the result as a project")
	fs.DurationVar(&o.timeout, "timeout", 30*time.Second, "Limit for decoding the image")
	fs.BoolVar(&o.version, "version", false, "Print the version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

func (o *options) loadConfig() (*config.Config, error) {
	if o.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(o.configPath)
}

// resolvePaper picks the canvas size: explicit dimensions, then a preset,
// then the configured paper.
func (o *options) resolvePaper(def units.Paper) (units.Paper, error) {
	paper := def
	switch {
	case o.width > 0 || o.height > 0:
		unit, err := units.ParseUnit(o.unit)
		if err != nil {
			return paper, err
		}
		paper = units.Paper{Width: o.width, Height: o.height, Unit: unit}
	case o.paper != "":
		p, ok := units.LookupPaper(o.paper)
		if !ok {
			return paper, fmt.Errorf("unknown paper %q", o.paper)
		}
		paper = p
	}
	if o.landscape {
		paper = paper.Landscape()
	}
	return paper, paper.Validate()
}

func run(args []string, stdout io.Writer) error {
	o, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}
	if o.version {
		fmt.Fprintln(stdout, version.String("posterrender"))
		return nil
	}
	if o.png == "" && o.svg == "" && o.print == "" && o.json == "" && o.project == "" {
		return errors.New("nothing to write: give at least one of -png, -svg, -print, -json, -project")
	}

	if _, err := colorutil.ParseHex(o.fill); err != nil {
		return fmt.Errorf("-fill: %w", err)
	}

	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	state := app.NewState(cfg, cfg.Logger())

	if o.open != "" {
		if err := state.LoadProject(o.open); err != nil {
			return err
		}
	} else {
		paper, err := o.resolvePaper(cfg.Paper)
		if err != nil {
			return err
		}
		if err := state.SetPaper(paper); err != nil {
			return err
		}
		state.StartEditing()
	}
	w, h := state.Editor.Width(), state.Editor.Height()
	fmt.Fprintf(stdout, "Canvas: %dx%d px\n", w, h)

	if o.image != "" {
		if err := cropBackground(state, o); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Background: %s\n", o.image)
	}

	for i, text := range o.texts {
		pos := geometry.Point2D{X: float64(w)/2 - 100, Y: float64(h)/2 + float64(i)*o.size*1.2}
		added := state.Mutate(editor.AddText{
			Text:       text,
			FontFamily: o.font,
			FontSize:   o.size,
			Fill:       o.fill,
			Position:   &pos,
		})
		if !added {
			return fmt.Errorf("add text %q failed", text)
		}
	}

	for _, out := range []string{o.png, o.svg, o.print, o.json} {
		if out == "" {
			continue
		}
		if err := state.Export(out); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %s\n", out)
	}
	if o.project != "" {
		if err := state.SaveProject(o.project); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Saved %s\n", o.project)
	}
	return nil
}

// cropBackground runs the crop on the image with the default selection and
// makes the result the document background.
func cropBackground(state *app.State, o *options) error {
	future := state.ImportImage(o.image)
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()
	if _, err := future.Wait(ctx); err != nil {
		state.CancelCrop()
		return fmt.Errorf("load %s: %w", o.image, err)
	}
	if err := state.CropReady(); err != nil {
		return err
	}
	if o.rotate != 0 {
		state.Crop.Rotate(o.rotate)
	}
	if !state.ConfirmCrop() {
		return fmt.Errorf("crop %s failed", o.image)
	}
	return nil
}
