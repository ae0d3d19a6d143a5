package pos

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pos-report/internal/errors"
	"pos-report/internal/models"
)

const squareHeader = "Date,Time,Category,Item,Gross Sales,Transaction ID,Dining Option\n"

const squareCSV = squareHeader +
	"2024-03-04,08:15:00,Breakfast Plates,Pancakes,$9.50,T1,For Here\n" +
	"2024-03-04,08:15:00,Drinks,Coffee,$3.00,T1,For Here\n" +
	"2024-03-04,12:30:00,,Burger,\"$1,012.00\",T2,To Go\n" +
	"2024-03-04,06:45:00,Drinks,Coffee,$3.00,T3,for here\n"

const toastHeader = "Order Date,Order Id,Menu Item,Menu Group,Service,Dining Option,Net Price\n"

func TestReader_Square(t *testing.T) {
	r := NewReader(SquareSchema(), defaultWindows(t), nil)

	txs, err := r.Read(context.Background(), strings.NewReader(squareCSV))
	require.NoError(t, err)
	require.Len(t, txs, 4)

	first := txs[0]
	assert.Equal(t, models.SourceSquare, first.Source)
	assert.Equal(t, "T1", first.OrderID)
	assert.Equal(t, "Pancakes", first.Item)
	assert.Equal(t, "Breakfast Plates", first.Group)
	assert.Equal(t, "Breakfast", first.Service)
	assert.Equal(t, time.Date(2024, 3, 4, 8, 15, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "9.5", first.Price.String())
	assert.True(t, first.DineIn)

	burger := txs[2]
	assert.Equal(t, "Dinner", burger.Service)
	assert.Equal(t, "Unknown", burger.Group)
	assert.Equal(t, "1012", burger.Price.String())
	assert.False(t, burger.DineIn)
	assert.Equal(t, "To Go", burger.DiningOption)

	early := txs[3]
	assert.Equal(t, models.UndefinedService, early.Service)
	assert.True(t, early.DineIn, "dining option match ignores case")
}

func TestReader_ToastLatin1(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(toastHeader)
	// "Crème Brûlée" in ISO-8859-1.
	buf.Write([]byte("1/2/24 9:15 AM,1001,Cr\xe8me Br\xfbl\xe9e,Desserts,Breakfast,Dine In,$6.50\n"))
	buf.WriteString("1/2/24 7:05 PM,1002,Soup,,,Take Out,$4.00\n")

	r := NewReader(ToastSchema(), defaultWindows(t), nil)
	txs, err := r.Read(context.Background(), &buf)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "Crème Brûlée", txs[0].Item)
	assert.Equal(t, "Breakfast", txs[0].Service)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC), txs[0].Date)
	assert.True(t, txs[0].DineIn)

	assert.Equal(t, models.UndefinedService, txs[1].Service, "empty service cell is not derived from windows")
	assert.Equal(t, "Unknown", txs[1].Group)
	assert.Equal(t, 19, txs[1].Date.Hour())
	assert.False(t, txs[1].DineIn)
}

func TestReader_ByteOrderMark(t *testing.T) {
	r := NewReader(SquareSchema(), defaultWindows(t), nil)

	txs, err := r.Read(context.Background(), strings.NewReader("\ufeff"+squareCSV))
	require.NoError(t, err)
	assert.Len(t, txs, 4)
}

func TestReader_ColumnOrderIndependent(t *testing.T) {
	csv := "Dining Option,Transaction ID,Item,Gross Sales,Category,Time,Date,Notes\n" +
		"For Here,T9,Tea,$2.00,Drinks,09:00,2024-03-05,extra\n"

	r := NewReader(SquareSchema(), defaultWindows(t), nil)
	txs, err := r.Read(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Tea", txs[0].Item)
	assert.Equal(t, "Breakfast", txs[0].Service)
}

func TestReader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  apperrors.ErrorCode
	}{
		{"empty file", "", apperrors.CodeInput},
		{"header only", squareHeader, apperrors.CodeInput},
		{"missing column", "Date,Time,Category,Item,Transaction ID,Dining Option\n2024-03-04,08:00,A,B,T1,For Here\n", apperrors.CodeInput},
		{"negative price", squareHeader + "2024-03-04,08:00,A,B,-$1.00,T1,For Here\n", apperrors.CodeParse},
		{"empty price", squareHeader + "2024-03-04,08:00,A,B,,T1,For Here\n", apperrors.CodeParse},
		{"bad date", squareHeader + "04/2024,08:00,A,B,$1.00,T1,For Here\n", apperrors.CodeParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(SquareSchema(), defaultWindows(t), nil)
			_, err := r.Read(context.Background(), strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
		})
	}
}

func TestReader_ParseErrorReportsLine(t *testing.T) {
	input := squareHeader +
		"2024-03-04,08:00,A,B,$1.00,T1,For Here\n" +
		"2024-03-04,08:00,A,B,oops,T2,For Here\n"

	r := NewReader(SquareSchema(), defaultWindows(t), nil)
	_, err := r.Read(context.Background(), strings.NewReader(input))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details, "line=3")
}

func TestReader_UnsupportedEncoding(t *testing.T) {
	schema := SquareSchema()
	schema.Encoding = "ebcdic"

	_, err := NewReader(schema, defaultWindows(t), nil).Read(context.Background(), strings.NewReader(squareCSV))
	assert.Equal(t, apperrors.CodeConfig, apperrors.CodeOf(err))
}

func TestReader_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader(SquareSchema(), defaultWindows(t), nil).Read(ctx, strings.NewReader(squareCSV))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-04 08:15:00", time.Date(2024, 3, 4, 8, 15, 0, 0, time.UTC)},
		{"2024-03-04 08:15", time.Date(2024, 3, 4, 8, 15, 0, 0, time.UTC)},
		{"2024-03-04", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"3/4/24 8:15 PM", time.Date(2024, 3, 4, 20, 15, 0, 0, time.UTC)},
		{"3/4/2024 20:15", time.Date(2024, 3, 4, 20, 15, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}
