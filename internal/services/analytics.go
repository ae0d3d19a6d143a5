package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"pos-report/internal/models"
)

type Options struct {
	TopPairs int
	// Unknown is the sentinel for missing group labels; it is never paired.
	Unknown string
}

// SourceResults holds every table computed for one export. Item tables
// are complete and sorted; charts apply their own row limits.
type SourceResults struct {
	Source        models.Source
	Records       int
	DineInRecords int

	SalesByHour    []models.TimeBucket
	SalesByWeekday []models.TimeBucket
	SalesByService []models.ServiceSales

	Items         []models.ItemSales
	ServiceGroups []models.ItemSales
	GroupItems    []models.ItemSales
	ServiceItems  []models.ItemSales

	ItemPairs  []models.PairStats
	GroupPairs []models.PairStats

	// Services lists the dine-in services in report order.
	Services []string
}

type Results struct {
	Square      SourceResults
	Toast       SourceResults
	GeneratedAt time.Time
}

func (r *Results) Sources() []SourceResults {
	return []SourceResults{r.Square, r.Toast}
}

type Analytics struct {
	opts   Options
	logger *slog.Logger
}

func NewAnalytics(opts Options, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		opts:   opts,
		logger: logger,
	}
}

func (a *Analytics) Compute(ctx context.Context, square, toast []models.Transaction) (*Results, error) {
	sq, err := a.ComputeSource(ctx, models.SourceSquare, square)
	if err != nil {
		return nil, err
	}
	tt, err := a.ComputeSource(ctx, models.SourceToast, toast)
	if err != nil {
		return nil, err
	}
	return &Results{Square: sq, Toast: tt, GeneratedAt: time.Now()}, nil
}

func (a *Analytics) ComputeSource(ctx context.Context, source models.Source, txs []models.Transaction) (SourceResults, error) {
	start := time.Now()
	res := SourceResults{Source: source, Records: len(txs)}

	res.SalesByHour = SalesByHour(txs)
	res.SalesByWeekday = SalesByWeekday(txs)
	res.SalesByService = SalesByService(txs)

	dineIn := Filter(txs, func(tx models.Transaction) bool { return tx.DineIn })
	res.DineInRecords = len(dineIn)

	if err := ctx.Err(); err != nil {
		return SourceResults{}, fmt.Errorf("analyze %s: %w", source, err)
	}

	byService := func(tx models.Transaction) string { return tx.Service }
	byGroup := func(tx models.Transaction) string { return tx.Group }
	byItem := func(tx models.Transaction) string { return tx.Item }

	res.Items = ItemTable(dineIn, nil, byItem)
	res.ServiceGroups = ItemTable(dineIn, byService, byGroup, models.UndefinedService)
	res.GroupItems = ItemTable(dineIn, byGroup, byItem, a.opts.Unknown)
	res.ServiceItems = ItemTable(dineIn, byService, byItem, models.UndefinedService)
	res.Services = partitions(res.ServiceItems)

	if err := ctx.Err(); err != nil {
		return SourceResults{}, fmt.Errorf("analyze %s: %w", source, err)
	}

	byOrder := func(tx models.Transaction) string { return tx.OrderID }
	res.ItemPairs = CountPairs(dineIn, byOrder, byItem, PairOptions{Top: a.opts.TopPairs})
	res.GroupPairs = CountPairs(dineIn, byOrder, byGroup, PairOptions{Top: a.opts.TopPairs, Exclude: a.opts.Unknown})

	a.logger.Info("analytics computed",
		"source", source,
		"records", res.Records,
		"dine_in", res.DineInRecords,
		"items", len(res.Items),
		"item_pairs", len(res.ItemPairs),
		"group_pairs", len(res.GroupPairs),
		"duration", time.Since(start))

	return res, nil
}

func SalesByHour(txs []models.Transaction) []models.TimeBucket {
	groups := GroupBy(txs, func(tx models.Transaction) int { return tx.Date.Hour() })

	result := make([]models.TimeBucket, 0, len(groups))
	for hour, b := range groups {
		result = append(result, models.TimeBucket{
			Key:   hour,
			Label: fmt.Sprintf("%02d", hour),
			Sales: b.Sales,
		})
	}
	slices.SortFunc(result, func(a, b models.TimeBucket) int { return a.Key - b.Key })
	return result
}

// mondayFirst numbers weekdays 0 (Monday) through 6 (Sunday).
func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func SalesByWeekday(txs []models.Transaction) []models.TimeBucket {
	groups := GroupBy(txs, func(tx models.Transaction) time.Weekday { return tx.Date.Weekday() })

	result := make([]models.TimeBucket, 0, len(groups))
	for day, b := range groups {
		result = append(result, models.TimeBucket{
			Key:   mondayFirst(day),
			Label: day.String(),
			Sales: b.Sales,
		})
	}
	slices.SortFunc(result, func(a, b models.TimeBucket) int { return a.Key - b.Key })
	return result
}

func SalesByService(txs []models.Transaction) []models.ServiceSales {
	groups := GroupBy(txs, func(tx models.Transaction) string { return tx.Service })
	total := Total(txs)

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}

	result := make([]models.ServiceSales, 0, len(groups))
	for _, name := range orderedLabels(names, models.UndefinedService) {
		result = append(result, models.ServiceSales{
			Service:        name,
			Sales:          groups[name].Sales,
			PercentOfTotal: Percent(groups[name].Sales, total),
		})
	}
	return result
}

type partitionKey struct {
	partition string
	label     string
}

// ItemTable groups txs by label, optionally within a partition, and
// returns sales, count, mean and share rows. PercentOfTotal is against
// all of txs; PercentOfPartition against the row's partition. Rows are
// ordered by partition (any of last go to the end) then sales descending.
func ItemTable(txs []models.Transaction, partition, label func(models.Transaction) string, last ...string) []models.ItemSales {
	if partition == nil {
		partition = func(models.Transaction) string { return "" }
	}

	groups := GroupBy(txs, func(tx models.Transaction) partitionKey {
		return partitionKey{partition: partition(tx), label: label(tx)}
	})
	partTotals := GroupBy(txs, partition)
	total := Total(txs)

	names := make([]string, 0, len(partTotals))
	for name := range partTotals {
		names = append(names, name)
	}
	order := make(map[string]int, len(names))
	for i, name := range orderedLabels(names, last...) {
		order[name] = i
	}

	result := make([]models.ItemSales, 0, len(groups))
	for key, b := range groups {
		row := models.ItemSales{
			Partition:      key.partition,
			Label:          key.label,
			Sales:          b.Sales,
			Count:          b.Count,
			Average:        b.Average(),
			PercentOfTotal: Percent(b.Sales, total),
		}
		if key.partition != "" {
			row.PercentOfPartition = Percent(b.Sales, partTotals[key.partition].Sales)
		}
		result = append(result, row)
	}

	slices.SortFunc(result, func(a, b models.ItemSales) int {
		if c := order[a.Partition] - order[b.Partition]; c != 0 {
			return c
		}
		return bySalesDesc(a, b)
	})
	return result
}

// Partition returns the rows of one partition, keeping their order.
func Partition(rows []models.ItemSales, name string) []models.ItemSales {
	return Filter(rows, func(r models.ItemSales) bool { return r.Partition == name })
}

func partitions(rows []models.ItemSales) []string {
	var names []string
	for _, r := range rows {
		if len(names) == 0 || names[len(names)-1] != r.Partition {
			names = append(names, r.Partition)
		}
	}
	return names
}
