package services

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"pos-report/internal/models"
)

type PairOptions struct {
	// Top limits the result to the most frequent pairs; 0 keeps all.
	Top int
	// Exclude is a label never paired, such as the missing-group sentinel.
	Exclude string
}

// CountPairs counts, across the transactions identified by key, every
// unordered pair of distinct labels sold together. A pair counts once per
// transaction. Probability is the pair count over the number of
// transactions, including those with fewer than two labels. Rows with an
// empty key belong to no transaction and are neither paired nor counted.
// Sales is the summed price of every row whose label belongs to the pair.
func CountPairs(txs []models.Transaction, key, label func(models.Transaction) string, opts PairOptions) []models.PairStats {
	orders := make(map[string]map[string]struct{})
	salesByLabel := make(map[string]decimal.Decimal)

	for _, tx := range txs {
		l := label(tx)
		salesByLabel[l] = salesByLabel[l].Add(tx.Price)

		k := key(tx)
		if k == "" {
			continue
		}
		set, ok := orders[k]
		if !ok {
			set = make(map[string]struct{})
			orders[k] = set
		}

		if l == "" || l == opts.Exclude {
			continue
		}
		set[l] = struct{}{}
	}

	counts := make(map[models.Pair]int)
	for _, set := range orders {
		for _, p := range pairsOf(set) {
			counts[p]++
		}
	}

	result := make([]models.PairStats, 0, len(counts))
	for pair, n := range counts {
		result = append(result, models.PairStats{
			Pair:        pair,
			Frequency:   n,
			Probability: float64(n) / float64(len(orders)),
			Sales:       salesByLabel[pair[0]].Add(salesByLabel[pair[1]]),
		})
	}

	slices.SortFunc(result, func(a, b models.PairStats) int {
		if c := cmp.Compare(b.Frequency, a.Frequency); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Pair[0], b.Pair[0]); c != 0 {
			return c
		}
		return cmp.Compare(a.Pair[1], b.Pair[1])
	})

	return Top(result, opts.Top)
}

// pairsOf returns every 2-combination of set, each pair sorted.
func pairsOf(set map[string]struct{}) []models.Pair {
	if len(set) < 2 {
		return nil
	}

	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	slices.Sort(labels)

	pairs := make([]models.Pair, 0, len(labels)*(len(labels)-1)/2)
	for i := 0; i < len(labels); i++ {
		for j := i + 1; j < len(labels); j++ {
			pairs = append(pairs, models.NewPair(labels[i], labels[j]))
		}
	}
	return pairs
}
