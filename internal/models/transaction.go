package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Source string

// UndefinedService labels sales outside every service window.
const UndefinedService = "Undefined"

const (
	SourceSquare Source = "square"
	SourceToast  Source = "toast"
)

func (s Source) Title() string {
	switch s {
	case SourceSquare:
		return "Square"
	case SourceToast:
		return "Toast"
	default:
		return string(s)
	}
}

// Transaction is one normalized line-item sale.
type Transaction struct {
	Source       Source
	OrderID      string
	Date         time.Time
	Item         string
	Price        decimal.Decimal
	Service      string
	Group        string
	DiningOption string
	DineIn       bool
}

type TimeBucket struct {
	Key   int             `json:"key"`
	Label string          `json:"label"`
	Sales decimal.Decimal `json:"sales"`
}

type ServiceSales struct {
	Service        string          `json:"service"`
	Sales          decimal.Decimal `json:"sales"`
	PercentOfTotal float64         `json:"percent_of_total"`
}

// ItemSales is a row of a grouped sales table. Partition holds the
// service or group the row was ranked within, empty when the table has
// no partition.
type ItemSales struct {
	Partition          string          `json:"partition,omitempty"`
	Label              string          `json:"label"`
	Sales              decimal.Decimal `json:"sales"`
	Count              int             `json:"count"`
	Average            decimal.Decimal `json:"average"`
	PercentOfTotal     float64         `json:"percent_of_total"`
	PercentOfPartition float64         `json:"percent_of_partition,omitempty"`
}

type Pair [2]string

func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{a, b}
}

func (p Pair) Contains(label string) bool {
	return p[0] == label || p[1] == label
}

func (p Pair) String() string {
	return p[0] + " & " + p[1]
}

type PairStats struct {
	Pair        Pair            `json:"pair"`
	Frequency   int             `json:"frequency"`
	Probability float64         `json:"probability"`
	Sales       decimal.Decimal `json:"sales"`
}
