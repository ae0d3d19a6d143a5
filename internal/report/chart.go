package report

import (
	"cmp"
	"slices"

	"pos-report/internal/services"
)

type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

type Bar struct {
	Label string
	Value float64
}

// Chart is one report page: a single bar series with a title.
type Chart struct {
	Title       string
	Series      string
	Orientation Orientation
	Legend      bool
	Bars        []Bar
}

// Ranked draws rows as bars sorted by value descending, keeping the
// first n. Equal values keep their input order.
func Ranked[T any](title, series string, rows []T, label func(T) string, value func(T) float64, o Orientation, n int) Chart {
	c := Sequence(title, series, rows, label, value, o)
	slices.SortStableFunc(c.Bars, func(a, b Bar) int {
		return cmp.Compare(b.Value, a.Value)
	})
	c.Bars = services.Top(c.Bars, n)
	return c
}

// Sequence draws rows as bars in their given order.
func Sequence[T any](title, series string, rows []T, label func(T) string, value func(T) float64, o Orientation) Chart {
	bars := make([]Bar, 0, len(rows))
	for _, row := range rows {
		bars = append(bars, Bar{Label: label(row), Value: value(row)})
	}
	return Chart{
		Title:       title,
		Series:      series,
		Orientation: o,
		Bars:        bars,
	}
}

func longestLabel(bars []Bar) int {
	longest := 0
	for _, b := range bars {
		longest = max(longest, len([]rune(b.Label)))
	}
	return longest
}
