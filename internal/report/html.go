package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"gonum.org/v1/plot/vg/vgsvg"
)

const htmlStyles = `<style>
body{font-family:sans-serif;margin:0;background:#f4f4f4}
.page{background:#fff;margin:1.5rem auto;padding:1rem;max-width:1180px;page-break-after:always}
.page h2{font-size:1rem;margin:0 0 .5rem}
.page svg{width:100%;height:auto}
.page table{border-collapse:collapse;font-size:.8rem;margin-top:.5rem}
.page td,.page th{border:1px solid #ddd;padding:.15rem .5rem;text-align:left}
</style>`

type htmlPage struct {
	chart Chart
	svg   string
}

type htmlDocument struct {
	title string
	pages []htmlPage
}

func newHTMLDocument(title string) *htmlDocument {
	return &htmlDocument{title: title}
}

func (d *htmlDocument) AddPage(chart Chart) error {
	p, err := newPlot(chart)
	if err != nil {
		return err
	}

	c := vgsvg.New(pageWidth, pageHeight)
	drawPage(p, c)

	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return fmt.Errorf("svg %q: %w", chart.Title, err)
	}

	svg := buf.String()
	if i := strings.Index(svg, "<svg"); i > 0 {
		svg = svg[i:]
	}

	d.pages = append(d.pages, htmlPage{chart: chart, svg: svg})
	return nil
}

func (d *htmlDocument) Pages() int {
	return len(d.pages)
}

func (d *htmlDocument) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := reportDocument(d.title, d.pages).Render(context.Background(), cw)
	return cw.n, err
}

func reportDocument(title string, pages []htmlPage) templ.Component {
	sections := make([]templ.Component, 0, len(pages))
	for i, page := range pages {
		sections = append(sections, chartSection(i+1, page))
	}
	return templ.Join(
		templ.Raw("<!DOCTYPE html>\n"),
		element("html", `lang="en"`,
			element("head", "",
				templ.Raw(`<meta charset="utf-8">`),
				element("title", "", escaped(title)),
				templ.Raw(htmlStyles),
			),
			element("body", "", sections...),
		),
		templ.Raw("\n"),
	)
}

func chartSection(n int, page htmlPage) templ.Component {
	return element("section", fmt.Sprintf(`class="page" id="page-%d"`, n),
		element("h2", "", escaped(page.chart.Title)),
		templ.Raw(page.svg),
		dataTable(page.chart),
	)
}

func dataTable(chart Chart) templ.Component {
	rows := make([]templ.Component, 0, len(chart.Bars))
	for i, bar := range chart.Bars {
		rows = append(rows, element("tr", "",
			element("td", "", escaped(strconv.Itoa(i+1))),
			element("td", "", escaped(bar.Label)),
			element("td", "", escaped(strconv.FormatFloat(bar.Value, 'f', 2, 64))),
		))
	}
	return element("table", "",
		element("thead", "", element("tr", "",
			element("th", "", escaped("#")),
			element("th", "", escaped("Label")),
			element("th", "", escaped(chart.Series)),
		)),
		element("tbody", "", rows...),
	)
}

// element wraps children in tag. attrs is written verbatim and must be
// trusted markup.
func element(tag, attrs string, children ...templ.Component) templ.Component {
	open := "<" + tag
	if attrs != "" {
		open += " " + attrs
	}
	return templ.Join(
		templ.Raw(open+">"),
		templ.Join(children...),
		templ.Raw("</"+tag+">"),
	)
}

// escaped renders s HTML-escaped.
func escaped(s string) templ.Component {
	return templ.Raw(templ.EscapeString(s))
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
