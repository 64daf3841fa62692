package export

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	posterimage "poster-editor/internal/image"
	"poster-editor/internal/scene"
	"poster-editor/pkg/colorutil"
	"poster-editor/pkg/geometry"
)

// BackgroundStripper gives temporary access to a document with its
// background image removed. The editor session implements it.
type BackgroundStripper interface {
	WithoutBackground(fn func(doc *scene.Document) error) error
}

// SVG writes the document without its background image, for printing. The
// background image is removed only while the SVG is written.
func SVG(w io.Writer, src BackgroundStripper) error {
	return src.WithoutBackground(func(doc *scene.Document) error {
		return WriteSVG(w, doc)
	})
}

// WriteSVG writes doc as an SVG whose viewBox is the canvas.
func WriteSVG(w io.Writer, doc *scene.Document) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"no\" ?>\n")
	fmt.Fprintf(bw, "<svg xmlns=\"http://www.w3.org/2000/svg\" xmlns:xlink=\"http://www.w3.org/1999/xlink\" version=\"1.1\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n",
		doc.Width, doc.Height, doc.Width, doc.Height)
	if doc.Background != "" {
		fmt.Fprintf(bw, "<rect x=\"0\" y=\"0\" width=\"100%%\" height=\"100%%\"%s/>\n", paint(doc.Background))
	}
	if bg := doc.BackgroundImage; bg != nil && bg.Src != "" {
		fmt.Fprintf(bw, "<image xlink:href=\"%s\" x=\"0\" y=\"0\" width=\"%s\" height=\"%s\" preserveAspectRatio=\"none\"/>\n",
			attr(bg.Src), num(bg.Width*bg.ScaleX), num(bg.Height*bg.ScaleY))
	}
	for _, l := range doc.Objects {
		switch l.Type {
		case scene.TypeText:
			writeText(bw, l)
		case scene.TypeImage:
			fmt.Fprintf(bw, "<image xlink:href=\"%s\" width=\"%s\" height=\"%s\"%s%s/>\n",
				attr(l.Src), num(l.Width), num(l.Height), transform(l.Transform()), opacity(l))
		}
	}
	fmt.Fprintf(bw, "</svg>\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

func writeText(w io.Writer, l *scene.Layer) {
	var style strings.Builder
	fmt.Fprintf(&style, " font-family=\"%s\" font-size=\"%s\"%s", attr(l.FontFamily), num(l.FontSize), paint(l.Fill))
	if l.Bold() {
		style.WriteString(" font-weight=\"bold\"")
	}
	if l.Italic() {
		style.WriteString(" font-style=\"italic\"")
	}
	if l.Underline {
		style.WriteString(" text-decoration=\"underline\"")
	}

	fmt.Fprintf(w, "<text xml:space=\"preserve\" dominant-baseline=\"text-before-edge\"%s%s%s>", style.String(), transform(l.Transform()), opacity(l))
	lineH := l.FontSize * posterimage.LineHeight
	for i, line := range strings.Split(l.Text, "\n") {
		fmt.Fprintf(w, "<tspan x=\"0\" y=\"%s\">%s</tspan>", num(float64(i)*lineH), attr(line))
	}
	fmt.Fprintf(w, "</text>\n")
}

func transform(t geometry.AffineTransform) string {
	if t == geometry.Identity() {
		return ""
	}
	return fmt.Sprintf(" transform=\"matrix(%s %s %s %s %s %s)\"",
		num(t.A), num(t.C), num(t.B), num(t.D), num(t.TX), num(t.TY))
}

func opacity(l *scene.Layer) string {
	if l.Opacity == 0 || l.Opacity >= 1 {
		return ""
	}
	return " opacity=\"" + num(l.Opacity) + "\""
}

// paint writes a hex color as fill, moving any alpha to fill-opacity since
// SVG 1.1 has no eight-digit colors.
func paint(hex string) string {
	rgb, alpha := colorutil.SplitAlpha(hex)
	if alpha >= 1 {
		return " fill=\"" + rgb + "\""
	}
	return " fill=\"" + rgb + "\" fill-opacity=\"" + num(math.Round(alpha*1000)/1000) + "\""
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func attr(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
