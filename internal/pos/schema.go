package pos

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"pos-report/internal/models"
)

// Columns names the export headers mapped onto a Transaction. Time is
// optional and, when set, is combined with Date. Service is optional;
// when empty the service is derived from the configured windows.
type Columns struct {
	Date         string
	Time         string
	Item         string
	Price        string
	OrderID      string
	DiningOption string
	Service      string
	Group        string
}

func (c Columns) required() []string {
	cols := []string{c.Date, c.Item, c.Price, c.OrderID, c.DiningOption, c.Group}
	for _, optional := range []string{c.Time, c.Service} {
		if optional != "" {
			cols = append(cols, optional)
		}
	}
	return cols
}

type Schema struct {
	Source   models.Source
	Encoding string
	Columns  Columns
	DineIn   string
	// Unknown replaces empty group labels.
	Unknown string
}

func SquareSchema() Schema {
	return Schema{
		Source:   models.SourceSquare,
		Encoding: "utf-8",
		Columns: Columns{
			Date:         "Date",
			Time:         "Time",
			Item:         "Item",
			Price:        "Gross Sales",
			OrderID:      "Transaction ID",
			DiningOption: "Dining Option",
			Group:        "Category",
		},
		DineIn:  "For Here",
		Unknown: "Unknown",
	}
}

func ToastSchema() Schema {
	return Schema{
		Source:   models.SourceToast,
		Encoding: "iso-8859-1",
		Columns: Columns{
			Date:         "Order Date",
			Item:         "Menu Item",
			Price:        "Net Price",
			OrderID:      "Order Id",
			DiningOption: "Dining Option",
			Service:      "Service",
			Group:        "Menu Group",
		},
		DineIn:  "Dine In",
		Unknown: "Unknown",
	}
}

// textEncoding returns nil for encodings read as-is.
func textEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "ascii":
		return nil, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	case "windows-1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported text encoding %q", name)
	}
}
