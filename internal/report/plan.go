package report

import (
	"fmt"

	"pos-report/internal/models"
	"pos-report/internal/services"
)

const (
	seriesSales       = "Sales Volume"
	seriesAverage     = "Average Price"
	seriesPctTotal    = "Percentage of Total Sales"
	seriesPctService  = "Percentage of Service Sales"
	seriesPctGroup    = "Percentage of Category Sales"
	seriesFrequency   = "Frequency"
	seriesProbability = "Probability of Pair Sold Together"
)

type PlanOptions struct {
	// TopItems limits ranked item charts; pair charts are already limited.
	TopItems int
}

// Plan lays out every chart page: by task, then source, then metric,
// then service.
func Plan(res *services.Results, opts PlanOptions) []Chart {
	var charts []Chart
	sources := res.Sources()

	for _, task := range []func(services.SourceResults, PlanOptions) []Chart{
		salesByTime,
		topItems,
		serviceGroups,
		topDishes,
		serviceItems,
		itemPairs,
		groupPairs,
	} {
		for _, src := range sources {
			charts = append(charts, task(src, opts)...)
		}
	}
	return charts
}

func title(task int, src models.Source, format string, args ...any) string {
	return fmt.Sprintf("#%d %s - %s", task, src.Title(), fmt.Sprintf(format, args...))
}

func sales(r models.ItemSales) float64 { return r.Sales.InexactFloat64() }
func average(r models.ItemSales) float64 { return r.Average.InexactFloat64() }
func pctTotal(r models.ItemSales) float64 { return r.PercentOfTotal }
func pctPart(r models.ItemSales) float64 { return r.PercentOfPartition }
func itemLabel(r models.ItemSales) string { return r.Label }
func pairLabel(p models.PairStats) string { return p.Pair.String() }
func frequency(p models.PairStats) float64 { return float64(p.Frequency) }
func probability(p models.PairStats) float64 { return p.Probability }
func pairSales(p models.PairStats) float64 { return p.Sales.InexactFloat64() }

func bucketLabel(b models.TimeBucket) string { return b.Label }
func bucketSales(b models.TimeBucket) float64 { return b.Sales.InexactFloat64() }

func salesByTime(src services.SourceResults, _ PlanOptions) []Chart {
	return []Chart{
		Sequence(title(3, src.Source, "Sales by hour"), seriesSales,
			src.SalesByHour, bucketLabel, bucketSales, Vertical),
		Ranked(title(3, src.Source, "Sales by service"), seriesSales,
			src.SalesByService,
			func(s models.ServiceSales) string { return s.Service },
			func(s models.ServiceSales) float64 { return s.Sales.InexactFloat64() },
			Horizontal, 0),
		Sequence(title(3, src.Source, "Sales by day of week"), seriesSales,
			src.SalesByWeekday, bucketLabel, bucketSales, Horizontal),
	}
}

func topItems(src services.SourceResults, opts PlanOptions) []Chart {
	n := opts.TopItems
	return []Chart{
		Ranked(title(4, src.Source, "Item sales volume"), seriesSales, src.Items, itemLabel, sales, Vertical, n),
		Ranked(title(4, src.Source, "Item average price"), seriesAverage, src.Items, itemLabel, average, Vertical, n),
		Ranked(title(4, src.Source, "Item percentage of total sales"), seriesPctTotal, src.Items, itemLabel, pctTotal, Vertical, n),
	}
}

func serviceGroups(src services.SourceResults, opts PlanOptions) []Chart {
	var charts []Chart
	group := groupName(src.Source)
	for _, svc := range src.Services {
		rows := services.Partition(src.ServiceGroups, svc)
		charts = append(charts,
			Ranked(title(5, src.Source, "Sales volume by %s in %s service", group, svc), seriesSales, rows, itemLabel, sales, Horizontal, opts.TopItems),
			Ranked(title(5, src.Source, "Average price by %s in %s service", group, svc), seriesAverage, rows, itemLabel, average, Horizontal, opts.TopItems),
			Ranked(title(5, src.Source, "Percentage of sales by %s in %s service", group, svc), seriesPctService, rows, itemLabel, pctPart, Horizontal, opts.TopItems),
		)
	}
	return charts
}

func topDishes(src services.SourceResults, opts PlanOptions) []Chart {
	n := opts.TopItems
	group := groupName(src.Source)
	withGroup := func(r models.ItemSales) string { return r.Partition + " / " + r.Label }
	return []Chart{
		Ranked(title(6, src.Source, "Top dishes sold"), seriesSales, src.Items, itemLabel, sales, Horizontal, n),
		Ranked(title(6, src.Source, "Top dishes sold by percentage"), seriesPctTotal, src.Items, itemLabel, pctTotal, Horizontal, n),
		Ranked(title(6, src.Source, "Top dishes (with %s) sold", group), seriesSales, src.GroupItems, withGroup, sales, Horizontal, n),
		Ranked(title(6, src.Source, "Top dishes (with %s) by percentage of %s", group, group), seriesPctGroup, src.GroupItems, withGroup, pctPart, Horizontal, n),
	}
}

func serviceItems(src services.SourceResults, opts PlanOptions) []Chart {
	var charts []Chart
	for _, svc := range src.Services {
		rows := services.Partition(src.ServiceItems, svc)
		charts = append(charts,
			Ranked(title(7, src.Source, "Gross sales in %s service", svc), seriesSales, rows, itemLabel, sales, Horizontal, opts.TopItems),
			Ranked(title(7, src.Source, "Percentage of service sales in %s service", svc), seriesPctService, rows, itemLabel, pctPart, Horizontal, opts.TopItems),
		)
	}
	return charts
}

func pairCharts(task int, src models.Source, what string, pairs []models.PairStats) []Chart {
	return []Chart{
		Ranked(title(task, src, "Top %s pairs sold together - Frequency", what), seriesFrequency, pairs, pairLabel, frequency, Horizontal, 0),
		Ranked(title(task, src, "Top %s pairs sold together - Probability", what), seriesProbability, pairs, pairLabel, probability, Horizontal, 0),
		Ranked(title(task, src, "Top %s pairs sold together - Total sales volume", what), seriesSales, pairs, pairLabel, pairSales, Horizontal, 0),
	}
}

func itemPairs(src services.SourceResults, _ PlanOptions) []Chart {
	return pairCharts(8, src.Source, "item", src.ItemPairs)
}

func groupPairs(src services.SourceResults, _ PlanOptions) []Chart {
	return pairCharts(9, src.Source, groupName(src.Source), src.GroupPairs)
}

// groupName is what each POS calls the level above menu items.
func groupName(src models.Source) string {
	if src == models.SourceToast {
		return "menu group"
	}
	return "category"
}
