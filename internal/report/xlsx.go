package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// xlsxDocument stores each chart as a data sheet plus a chart sheet.
type xlsxDocument struct {
	file  *excelize.File
	pages int
	first string
}

func newXLSXDocument() *xlsxDocument {
	return &xlsxDocument{file: excelize.NewFile()}
}

func (d *xlsxDocument) AddPage(chart Chart) error {
	d.pages++
	data := fmt.Sprintf("Data%03d", d.pages)
	sheet := fmt.Sprintf("Chart%03d", d.pages)

	if _, err := d.file.NewSheet(data); err != nil {
		return fmt.Errorf("sheet %s: %w", data, err)
	}
	if err := d.file.SetSheetRow(data, "A1", &[]any{"Label", chart.Series, chart.Title}); err != nil {
		return fmt.Errorf("sheet %s header: %w", data, err)
	}
	for i, bar := range chart.Bars {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := d.file.SetSheetRow(data, cell, &[]any{bar.Label, bar.Value}); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", data, i+2, err)
		}
	}

	if d.first == "" {
		d.first = data
	}
	if len(chart.Bars) == 0 {
		return nil
	}

	if err := d.file.AddChartSheet(sheet, xlsxChart(chart, data)); err != nil {
		return fmt.Errorf("chart sheet %s: %w", sheet, err)
	}
	if d.first == data {
		d.first = sheet
	}
	return nil
}

func xlsxChart(chart Chart, data string) *excelize.Chart {
	last := len(chart.Bars) + 1
	c := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", data),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", data, last),
			Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", data, last),
		}},
		Title:  []excelize.RichTextRun{{Text: chart.Title}},
		Legend: excelize.ChartLegend{Position: "none"},
	}
	if chart.Orientation == Horizontal {
		c.Type = excelize.Bar
		c.XAxis.ReverseOrder = true
	}
	if chart.Legend {
		c.Legend.Position = "bottom"
	}
	return c
}

func (d *xlsxDocument) Pages() int {
	return d.pages
}

func (d *xlsxDocument) WriteTo(w io.Writer) (int64, error) {
	if d.first != "" {
		if err := d.file.DeleteSheet(defaultSheet); err != nil {
			return 0, err
		}
		idx, err := d.file.GetSheetIndex(d.first)
		if err != nil {
			return 0, err
		}
		d.file.SetActiveSheet(idx)
	}
	return d.file.WriteTo(w)
}

func (d *xlsxDocument) Close() error {
	return d.file.Close()
}
