package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"poster-editor/pkg/units"
)

var printPage = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: {{.Size}}; margin: 0 }
html, body { margin: 0; padding: 0 }
svg { display: block; width: {{.Width}}; height: {{.Height}} }
</style>
</head>
<body>
{{.SVG}}
</body>
</html>
`))

// PrintHTML writes a page that prints the document, without its background
// image, at the physical size of paper.
func PrintHTML(w io.Writer, src BackgroundStripper, paper units.Paper, title string) error {
	if err := paper.Validate(); err != nil {
		return err
	}
	var svg bytes.Buffer
	if err := SVG(&svg, src); err != nil {
		return err
	}
	// Drop the XML declaration; it is not valid inside HTML.
	body := svg.Bytes()
	if i := bytes.Index(body, []byte("<svg")); i > 0 {
		body = body[i:]
	}

	err := printPage.Execute(w, struct {
		Title  string
		Size   template.CSS
		Width  template.CSS
		Height template.CSS
		SVG    template.HTML
	}{
		Title:  title,
		Size:   template.CSS(paper.CSSSize()),
		Width:  template.CSS(units.Length{Value: paper.Width, Unit: paper.Unit}.String()),
		Height: template.CSS(units.Length{Value: paper.Height, Unit: paper.Unit}.String()),
		SVG:    template.HTML(body),
	})
	if err != nil {
		return fmt.Errorf("failed to write print page: %w", err)
	}
	return nil
}
