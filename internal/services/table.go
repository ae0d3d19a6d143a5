package services

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"pos-report/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Bucket accumulates the price measure of one group.
type Bucket struct {
	Sales decimal.Decimal
	Count int
}

func (b *Bucket) Add(price decimal.Decimal) {
	b.Sales = b.Sales.Add(price)
	b.Count++
}

func (b *Bucket) Average() decimal.Decimal {
	if b.Count == 0 {
		return decimal.Zero
	}
	return b.Sales.Div(decimal.NewFromInt(int64(b.Count)))
}

// Filter returns the rows keep accepts, in input order.
func Filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func GroupBy[K comparable](txs []models.Transaction, key func(models.Transaction) K) map[K]*Bucket {
	groups := make(map[K]*Bucket)
	for _, tx := range txs {
		k := key(tx)
		if groups[k] == nil {
			groups[k] = &Bucket{}
		}
		groups[k].Add(tx.Price)
	}
	return groups
}

func Total(txs []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Price)
	}
	return total
}

// Percent returns part as a percentage of total, or 0 for an empty total.
func Percent(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Div(total).Mul(hundred).InexactFloat64()
}

// Top keeps the first n rows. n <= 0 keeps everything.
func Top[T any](rows []T, n int) []T {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	return rows[:n]
}

// orderedLabels sorts labels ascending, moving any of last to the end.
func orderedLabels(labels []string, last ...string) []string {
	rank := func(s string) int {
		if slices.Contains(last, s) {
			return 1
		}
		return 0
	}
	out := slices.Clone(labels)
	slices.SortFunc(out, func(a, b string) int {
		if c := cmp.Compare(rank(a), rank(b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return slices.Compact(out)
}

func bySalesDesc(a, b models.ItemSales) int {
	if c := b.Sales.Cmp(a.Sales); c != 0 {
		return c
	}
	return cmp.Compare(a.Label, b.Label)
}
