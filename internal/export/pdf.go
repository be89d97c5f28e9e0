package export

import (
	"bytes"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily    = "Helvetica"
	titleSize     = 18.0
	headingSize   = 14.0
	bodySize      = 11.0
	lineHeight    = 6.0
	bulletIndent  = 8.0
	optionIndent  = 12.0
	sectionGap    = 4.0
	pageBreakMarg = 20.0
)

// pdfBuilder streams text blocks into a page-oriented document. Page breaks
// are handled by the underlying writer.
type pdfBuilder struct {
	doc *fpdf.Fpdf
}

func newPDFBuilder(title string) *pdfBuilder {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, pageBreakMarg)
	doc.AddPage()
	b := &pdfBuilder{doc: doc}
	b.doc.SetFont(fontFamily, "B", titleSize)
	b.doc.MultiCell(0, lineHeight+2, title, "", "L", false)
	b.doc.Ln(sectionGap)
	return b
}

func (b *pdfBuilder) heading(text string) {
	b.doc.SetFont(fontFamily, "B", headingSize)
	b.doc.MultiCell(0, lineHeight+1, text, "", "L", false)
	b.doc.Ln(1)
}

func (b *pdfBuilder) label(text string) {
	b.doc.SetFont(fontFamily, "B", bodySize)
	b.doc.MultiCell(0, lineHeight, text, "", "L", false)
}

func (b *pdfBuilder) paragraph(text string) {
	b.doc.SetFont(fontFamily, "", bodySize)
	b.doc.MultiCell(0, lineHeight, text, "", "L", false)
}

func (b *pdfBuilder) bullet(text string) {
	b.doc.SetFont(fontFamily, "", bodySize)
	b.doc.SetX(b.doc.GetX() + bulletIndent)
	b.doc.MultiCell(0, lineHeight, "- "+text, "", "L", false)
}

func (b *pdfBuilder) option(text string) {
	b.doc.SetFont(fontFamily, "", bodySize)
	b.doc.SetX(b.doc.GetX() + optionIndent)
	b.doc.MultiCell(0, lineHeight, text, "", "L", false)
}

func (b *pdfBuilder) italic(text string) {
	b.doc.SetFont(fontFamily, "I", bodySize)
	b.doc.MultiCell(0, lineHeight, text, "", "L", false)
}

func (b *pdfBuilder) spacer() {
	b.doc.Ln(sectionGap)
}

func (b *pdfBuilder) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
