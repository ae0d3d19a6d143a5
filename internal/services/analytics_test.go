package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-report/internal/models"
)

// Monday 4 March 2024.
var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

type txOpt func(*models.Transaction)

func newTx(order, item, group string, price string, opts ...txOpt) models.Transaction {
	tx := models.Transaction{
		Source:       models.SourceSquare,
		OrderID:      order,
		Date:         monday.Add(9 * time.Hour),
		Item:         item,
		Price:        decimal.RequireFromString(price),
		Service:      "Breakfast",
		Group:        group,
		DiningOption: "For Here",
		DineIn:       true,
	}
	for _, opt := range opts {
		opt(&tx)
	}
	return tx
}

func atTime(d time.Duration) txOpt {
	return func(tx *models.Transaction) { tx.Date = monday.Add(d) }
}

func service(name string) txOpt {
	return func(tx *models.Transaction) { tx.Service = name }
}

func takeOut(tx *models.Transaction) {
	tx.DiningOption = "To Go"
	tx.DineIn = false
}

func sampleTransactions() []models.Transaction {
	return []models.Transaction{
		newTx("T1", "Pancakes", "Plates", "9.50"),
		newTx("T1", "Coffee", "Drinks", "3.00"),
		newTx("T2", "Coffee", "Drinks", "3.00", atTime(9*time.Hour+30*time.Minute)),
		newTx("T3", "Burger", "Plates", "12.00", atTime(13*time.Hour), service("Dinner")),
		newTx("T3", "Fries", "Sides", "4.00", atTime(13*time.Hour), service("Dinner")),
		newTx("T4", "Burger", "Plates", "12.00", atTime(24*time.Hour+13*time.Hour), service("Dinner"), takeOut),
		newTx("T5", "Muffin", "Unknown", "2.50", atTime(7*time.Hour), service(models.UndefinedService)),
	}
}

func sumPercent[T any](rows []T, pct func(T) float64) float64 {
	var sum float64
	for _, r := range rows {
		sum += pct(r)
	}
	return sum
}

func TestNewAnalytics(t *testing.T) {
	a := NewAnalytics(Options{TopPairs: 5, Unknown: "Unknown"}, nil)
	require.NotNil(t, a)
	assert.NotNil(t, a.logger)
	assert.Equal(t, 5, a.opts.TopPairs)
}

func TestSalesByHour(t *testing.T) {
	got := SalesByHour(sampleTransactions())

	require.Len(t, got, 3)
	assert.Equal(t, []string{"07", "09", "13"}, []string{got[0].Label, got[1].Label, got[2].Label})
	assert.Equal(t, "15.5", got[1].Sales.String())
	assert.Equal(t, "28", got[2].Sales.String())
}

func TestSalesByWeekday(t *testing.T) {
	txs := sampleTransactions()
	txs = append(txs, newTx("T6", "Tea", "Drinks", "2.00", atTime(6*24*time.Hour+9*time.Hour)))

	got := SalesByWeekday(txs)

	require.Len(t, got, 3)
	assert.Equal(t, "Monday", got[0].Label)
	assert.Equal(t, 0, got[0].Key)
	assert.Equal(t, "Tuesday", got[1].Label)
	assert.Equal(t, "12", got[1].Sales.String())
	assert.Equal(t, "Sunday", got[2].Label)
	assert.Equal(t, 6, got[2].Key)
}

func TestSalesByService(t *testing.T) {
	got := SalesByService(sampleTransactions())

	require.Len(t, got, 3)
	assert.Equal(t, "Breakfast", got[0].Service)
	assert.Equal(t, "Dinner", got[1].Service)
	assert.Equal(t, models.UndefinedService, got[2].Service, "undefined service sorts last")
	assert.Equal(t, "28", got[1].Sales.String())
	assert.InDelta(t, 100, sumPercent(got, func(s models.ServiceSales) float64 { return s.PercentOfTotal }), 1e-9)
}

func TestItemTable(t *testing.T) {
	txs := sampleTransactions()
	byItem := func(tx models.Transaction) string { return tx.Item }

	got := ItemTable(txs, nil, byItem)

	require.Len(t, got, 5)
	assert.Equal(t, "Burger", got[0].Label)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "24", got[0].Sales.String())
	assert.Equal(t, "12", got[0].Average.String())
	assert.Equal(t, "Pancakes", got[1].Label)
	assert.Zero(t, got[0].PercentOfPartition)
	assert.InDelta(t, 100, sumPercent(got, func(r models.ItemSales) float64 { return r.PercentOfTotal }), 1e-9)
}

func TestItemTable_Partitioned(t *testing.T) {
	txs := sampleTransactions()
	byService := func(tx models.Transaction) string { return tx.Service }
	byItem := func(tx models.Transaction) string { return tx.Item }

	got := ItemTable(txs, byService, byItem, models.UndefinedService)

	assert.Equal(t, []string{"Breakfast", "Dinner", models.UndefinedService}, partitions(got))

	dinner := Partition(got, "Dinner")
	require.Len(t, dinner, 2)
	assert.Equal(t, "Burger", dinner[0].Label)
	assert.InDelta(t, 24.0/28.0*100, dinner[0].PercentOfPartition, 1e-9)
	assert.InDelta(t, 100, sumPercent(dinner, func(r models.ItemSales) float64 { return r.PercentOfPartition }), 1e-9)

	breakfast := Partition(got, "Breakfast")
	require.Len(t, breakfast, 2)
	assert.Equal(t, "Pancakes", breakfast[0].Label)
	assert.Equal(t, "Coffee", breakfast[1].Label)
	assert.Equal(t, 2, breakfast[1].Count)
}

func TestItemTable_TiesBreakByLabel(t *testing.T) {
	txs := []models.Transaction{
		newTx("T1", "Tea", "Drinks", "2.00"),
		newTx("T2", "Juice", "Drinks", "2.00"),
		newTx("T3", "Soda", "Drinks", "2.00"),
	}

	got := ItemTable(txs, nil, func(tx models.Transaction) string { return tx.Item })

	assert.Equal(t, []string{"Juice", "Soda", "Tea"}, []string{got[0].Label, got[1].Label, got[2].Label})
}

func TestPercent(t *testing.T) {
	assert.Zero(t, Percent(decimal.NewFromInt(5), decimal.Zero))
	assert.InDelta(t, 25, Percent(decimal.NewFromInt(1), decimal.NewFromInt(4)), 1e-9)
}

func TestTop(t *testing.T) {
	rows := []int{1, 2, 3}
	assert.Equal(t, []int{1, 2}, Top(rows, 2))
	assert.Equal(t, rows, Top(rows, 10))
	assert.Equal(t, rows, Top(rows, 0))
}

func TestBucket_AverageEmpty(t *testing.T) {
	var b Bucket
	assert.True(t, b.Average().IsZero())
}

func TestAnalytics_ComputeSource(t *testing.T) {
	a := NewAnalytics(Options{TopPairs: 20, Unknown: "Unknown"}, nil)

	res, err := a.ComputeSource(context.Background(), models.SourceSquare, sampleTransactions())
	require.NoError(t, err)

	assert.Equal(t, models.SourceSquare, res.Source)
	assert.Equal(t, 7, res.Records)
	assert.Equal(t, 6, res.DineInRecords)

	require.NotEmpty(t, res.Items)
	assert.Equal(t, "Burger", res.Items[0].Label)
	assert.Equal(t, 1, res.Items[0].Count, "take-out rows are excluded from item tables")

	assert.Equal(t, []string{"Breakfast", "Dinner", models.UndefinedService}, res.Services)

	require.Len(t, res.SalesByService, 3)
	assert.Equal(t, "28", res.SalesByService[1].Sales.String(), "service totals include take-out")

	require.Len(t, res.ItemPairs, 2)
	assert.Equal(t, models.NewPair("Burger", "Fries"), res.ItemPairs[0].Pair)
	assert.Equal(t, models.NewPair("Coffee", "Pancakes"), res.ItemPairs[1].Pair)

	for _, p := range res.GroupPairs {
		assert.False(t, p.Pair.Contains("Unknown"))
	}

	unknownLast := res.GroupItems[len(res.GroupItems)-1]
	assert.Equal(t, "Unknown", unknownLast.Partition)
}

func TestAnalytics_Compute(t *testing.T) {
	toast := sampleTransactions()
	for i := range toast {
		toast[i].Source = models.SourceToast
	}

	a := NewAnalytics(Options{TopPairs: 1, Unknown: "Unknown"}, nil)
	res, err := a.Compute(context.Background(), sampleTransactions(), toast)
	require.NoError(t, err)

	assert.Equal(t, models.SourceSquare, res.Square.Source)
	assert.Equal(t, models.SourceToast, res.Toast.Source)
	assert.Len(t, res.Toast.ItemPairs, 1)
	assert.False(t, res.GeneratedAt.IsZero())

	sources := res.Sources()
	require.Len(t, sources, 2)
	assert.Equal(t, models.SourceSquare, sources[0].Source)
}

func TestAnalytics_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnalytics(Options{}, nil).Compute(ctx, sampleTransactions(), sampleTransactions())
	assert.ErrorIs(t, err, context.Canceled)
}
