package panels

import (
	"strconv"
	"strings"

	"poster-editor/internal/app"
	"poster-editor/internal/editor"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// FontFamilies are offered in the font selector. Monospaced families render
// with Go Mono, the rest with Go Regular.
var FontFamilies = []string{
	editor.DefaultFontFamily,
	"Helvetica",
	"Times New Roman",
	"Georgia",
	"Verdana",
	"Courier New",
}

// TextPanel edits the content and style of the active text layer.
type TextPanel struct {
	state     *app.State
	container *fyne.Container

	text      *widget.Entry
	applyText *widget.Button
	family    *widget.Select
	size      *widget.Entry
	fill      *widget.Entry
	bold      *widget.Check
	italic    *widget.Check
	underline *widget.Check

	// syncing suppresses change callbacks while the widgets are loaded from
	// the document.
	syncing bool
}

// NewTextPanel creates the text properties panel.
func NewTextPanel(state *app.State) *TextPanel {
	p := &TextPanel{state: state}

	p.text = widget.NewMultiLineEntry()
	p.text.SetMinRowsVisible(3)
	p.applyText = widget.NewButton("Apply Text", func() {
		p.mutate(editor.EditText{Text: p.text.Text})
	})

	p.family = widget.NewSelect(FontFamilies, func(s string) {
		p.restyle(editor.SetFontFamily{Family: s})
	})

	p.size = widget.NewEntry()
	p.size.OnSubmitted = func(s string) {
		size, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			p.Sync()
			return
		}
		p.restyle(editor.SetFontSize{Size: size})
	}

	p.fill = widget.NewEntry()
	p.fill.SetPlaceHolder("#000000")
	p.fill.OnSubmitted = func(s string) {
		if !p.restyle(editor.SetFill{Color: s}) {
			p.Sync()
		}
	}

	p.bold = widget.NewCheck("Bold", func(on bool) { p.restyle(editor.SetBold{On: on}) })
	p.italic = widget.NewCheck("Italic", func(on bool) { p.restyle(editor.SetItalic{On: on}) })
	p.underline = widget.NewCheck("Underline", func(on bool) { p.restyle(editor.SetUnderline{On: on}) })

	p.container = container.NewVBox(
		widget.NewLabelWithStyle("Text", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		p.text,
		p.applyText,
		widget.NewForm(
			widget.NewFormItem("Font", p.family),
			widget.NewFormItem("Size", p.size),
			widget.NewFormItem("Color", p.fill),
		),
		container.NewHBox(p.bold, p.italic, p.underline),
	)
	p.Sync()
	return p
}

// Container returns the panel's root object.
func (p *TextPanel) Container() fyne.CanvasObject {
	return p.container
}

func (p *TextPanel) restyle(op editor.StyleOp) bool {
	return p.mutate(editor.Restyle{Op: op})
}

func (p *TextPanel) mutate(m editor.Mutation) bool {
	if p.syncing {
		return false
	}
	return p.state.Mutate(m)
}

// Sync loads the widgets from the active layer and disables them when it is
// not a text layer.
func (p *TextPanel) Sync() {
	p.syncing = true
	defer func() { p.syncing = false }()

	props, ok := p.state.Editor.Properties()
	widgets := []fyne.Disableable{p.text, p.applyText, p.family, p.size, p.fill, p.bold, p.italic, p.underline}
	for _, w := range widgets {
		if ok {
			w.Enable()
		} else {
			w.Disable()
		}
	}
	if !ok {
		p.text.SetText("")
		p.size.SetText("")
		p.fill.SetText("")
		p.family.ClearSelected()
		p.bold.SetChecked(false)
		p.italic.SetChecked(false)
		p.underline.SetChecked(false)
		return
	}

	if l := p.state.Editor.ActiveLayer(); l != nil && p.text.Text != l.Text {
		p.text.SetText(l.Text)
	}
	p.family.SetSelected(props.FontFamily)
	p.size.SetText(strconv.FormatFloat(props.FontSize, 'f', -1, 64))
	p.fill.SetText(props.Fill)
	p.bold.SetChecked(props.Bold)
	p.italic.SetChecked(props.Italic)
	p.underline.SetChecked(props.Underline)
}
