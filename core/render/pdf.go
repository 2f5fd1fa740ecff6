// Lays out the rendered fragment with gofpdf: headings get variable font
// sizes, list items get bullets, muted paragraphs are grey italics.

package render

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/dom"
)

// PDFRenderer renders a fragment as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

type pdfWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// Render converts the node tree into PDF bytes.
func (r *PDFRenderer) Render(nodes []*html.Node, meta core.FragmentMetadata) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(meta.Title, true)
	pdf.AddPage()

	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	if meta.Source != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, w.tr("Source: "+meta.Source), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)
	}

	for _, n := range nodes {
		w.block(n)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func (w *pdfWriter) block(n *html.Node) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			w.paragraph(t, false)
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	switch n.DataAtom {
	case atom.H1:
		w.heading(textOf(n), 18)
	case atom.H2:
		w.heading(textOf(n), 15)
	case atom.H3:
		w.heading(textOf(n), 13)
	case atom.P:
		w.paragraph(textOf(n), hasClass(n, "muted") || hasClass(n, "policy-meta"))
	case atom.Li:
		w.paragraph("• "+textOf(n), false)
	case atom.Hr:
		y := w.pdf.GetY() + 2
		w.pdf.SetDrawColor(200, 200, 200)
		w.pdf.Line(10, y, 200, y)
		w.pdf.Ln(5)
	default:
		if !hasBlockChild(n) {
			if t := textOf(n); t != "" {
				w.paragraph(t, false)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.block(c)
		}
		if n.DataAtom == atom.Article {
			w.pdf.Ln(4)
		}
	}
}

func (w *pdfWriter) heading(text string, size float64) {
	w.pdf.Ln(3)
	w.pdf.SetFont("Helvetica", "B", size)
	w.pdf.MultiCell(0, size*0.6, w.tr(text), "", "L", false)
	w.pdf.Ln(2)
}

func (w *pdfWriter) paragraph(text string, muted bool) {
	if muted {
		w.pdf.SetFont("Helvetica", "I", 10)
		w.pdf.SetTextColor(100, 100, 100)
	} else {
		w.pdf.SetFont("Helvetica", "", 10)
	}
	w.pdf.MultiCell(0, 5, w.tr(text), "", "L", false)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Ln(1)
}

func textOf(n *html.Node) string {
	return strings.Join(strings.Fields(dom.TextContent([]*html.Node{n})), " ")
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.P, atom.Ul, atom.Li, atom.Hr, atom.Div, atom.Section, atom.Article:
			return true
		}
	}
	return false
}
