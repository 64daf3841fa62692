// Package panels provides the side panels of the main window.
package panels

import (
	"fmt"
	"strconv"
	"strings"

	"poster-editor/internal/app"
	"poster-editor/pkg/units"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const customPaper = "Custom"

// PaperPanel chooses the canvas size used for the next document and the next
// crop. Changing it does not resize an open document.
type PaperPanel struct {
	state     *app.State
	container *fyne.Container

	preset    *widget.Select
	width     *widget.Entry
	height    *widget.Entry
	unit      *widget.Select
	landscape *widget.Check
	pixels    *widget.Label

	onChange func(name string, landscape bool)
	syncing  bool
}

// NewPaperPanel creates the paper panel starting at the named preset.
func NewPaperPanel(state *app.State, preset string, landscape bool) *PaperPanel {
	p := &PaperPanel{state: state}

	p.width = widget.NewEntry()
	p.height = widget.NewEntry()
	p.width.OnSubmitted = func(string) { p.applyCustom() }
	p.height.OnSubmitted = func(string) { p.applyCustom() }
	p.unit = widget.NewSelect([]string{"mm", "cm", "in", "px"}, func(string) { p.applyCustom() })
	p.landscape = widget.NewCheck("Landscape", func(bool) { p.applyPreset() })
	p.pixels = widget.NewLabel("")

	p.preset = widget.NewSelect(append(units.PaperNames(), customPaper), func(string) { p.applyPreset() })

	p.container = container.NewVBox(
		widget.NewLabelWithStyle("Paper", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		p.preset,
		p.landscape,
		widget.NewForm(
			widget.NewFormItem("Width", p.width),
			widget.NewFormItem("Height", p.height),
			widget.NewFormItem("Unit", p.unit),
		),
		p.pixels,
	)

	p.syncing = true
	p.landscape.SetChecked(landscape)
	if _, ok := units.LookupPaper(preset); ok {
		p.preset.SetSelected(preset)
	} else {
		p.preset.SetSelected(customPaper)
	}
	p.syncing = false
	p.applyPreset()
	return p
}

// Container returns the panel's root object.
func (p *PaperPanel) Container() fyne.CanvasObject {
	return p.container
}

// OnChange sets the callback invoked with the preset name after the paper
// changes.
func (p *PaperPanel) OnChange(callback func(name string, landscape bool)) {
	p.onChange = callback
}

func (p *PaperPanel) applyPreset() {
	if p.syncing {
		return
	}
	paper, ok := units.LookupPaper(p.preset.Selected)
	if !ok {
		p.applyCustom()
		return
	}
	if p.landscape.Checked {
		paper = paper.Landscape()
	}
	p.set(paper)
}

func (p *PaperPanel) applyCustom() {
	if p.syncing {
		return
	}
	w, errW := strconv.ParseFloat(strings.TrimSpace(p.width.Text), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(p.height.Text), 64)
	unit, errU := units.ParseUnit(p.unit.Selected)
	if errW != nil || errH != nil || errU != nil {
		p.show(p.state.Paper)
		return
	}
	p.syncing = true
	p.preset.SetSelected(customPaper)
	p.syncing = false
	p.set(units.Paper{Width: w, Height: h, Unit: unit})
}

func (p *PaperPanel) set(paper units.Paper) {
	if err := p.state.SetPaper(paper); err != nil {
		p.pixels.SetText(err.Error())
		return
	}
	p.show(paper)
	if p.onChange != nil {
		p.onChange(p.preset.Selected, p.landscape.Checked)
	}
}

func (p *PaperPanel) show(paper units.Paper) {
	p.syncing = true
	defer func() { p.syncing = false }()
	p.width.SetText(strconv.FormatFloat(paper.Width, 'f', -1, 64))
	p.height.SetText(strconv.FormatFloat(paper.Height, 'f', -1, 64))
	p.unit.SetSelected(paper.Unit.String())
	w, h := paper.Pixels()
	p.pixels.SetText(fmt.Sprintf("%d × %d px", w, h))
}

// Show displays paper, selecting its preset when it matches one.
func (p *PaperPanel) Show(paper units.Paper) {
	p.syncing = true
	p.preset.SetSelected(customPaper)
	for _, name := range units.PaperNames() {
		preset, _ := units.LookupPaper(name)
		if preset == paper || preset.Landscape() == paper {
			p.preset.SetSelected(name)
			p.landscape.SetChecked(preset != paper)
			break
		}
	}
	p.syncing = false
	p.show(paper)
}
