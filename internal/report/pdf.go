package report

import (
	"io"

	"gonum.org/v1/plot/vg/vgpdf"
)

type pdfDocument struct {
	canvas *vgpdf.Canvas
	pages  int
}

func newPDFDocument() *pdfDocument {
	return &pdfDocument{canvas: vgpdf.New(pageWidth, pageHeight)}
}

func (d *pdfDocument) AddPage(chart Chart) error {
	p, err := newPlot(chart)
	if err != nil {
		return err
	}
	if d.pages > 0 {
		d.canvas.NextPage()
	}
	drawPage(p, d.canvas)
	d.pages++
	return nil
}

func (d *pdfDocument) Pages() int {
	return d.pages
}

func (d *pdfDocument) WriteTo(w io.Writer) (int64, error) {
	return d.canvas.WriteTo(w)
}
