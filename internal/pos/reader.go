package pos

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	apperrors "pos-report/internal/errors"
	"pos-report/internal/models"
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"1/2/06 3:04 PM",
	"1/2/2006 3:04 PM",
	"1/2/06 3:04:05 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/06 15:04",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06",
	"1/2/2006",
}

// Reader turns one POS export into normalized transactions.
type Reader struct {
	schema  Schema
	windows Windows
	logger  *slog.Logger
}

func NewReader(schema Schema, windows Windows, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		schema:  schema,
		windows: windows,
		logger:  logger.With("source", schema.Source),
	}
}

func (r *Reader) Load(ctx context.Context, filename string) ([]models.Transaction, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, apperrors.InputWrap(err, "open export").WithDetails("source=%s file=%s", r.schema.Source, filename)
	}
	defer file.Close()

	start := time.Now()
	r.logger.Info("reading export", "filename", filename, "encoding", r.schema.Encoding)

	txs, err := r.Read(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	r.logger.Info("export loaded",
		"filename", filename,
		"records", len(txs),
		"duration", time.Since(start))
	return txs, nil
}

func (r *Reader) Read(ctx context.Context, in io.Reader) ([]models.Transaction, error) {
	enc, err := textEncoding(r.schema.Encoding)
	if err != nil {
		return nil, apperrors.ConfigWrap(err, "select text encoding")
	}
	if enc != nil {
		in = enc.NewDecoder().Reader(in)
	}

	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, apperrors.Input("empty export").WithDetails("source=%s", r.schema.Source)
	}
	if err != nil {
		return nil, apperrors.InputWrap(err, "read header").WithDetails("source=%s", r.schema.Source)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, col := range r.schema.Columns.required() {
		if _, ok := index[col]; !ok {
			return nil, apperrors.Input("missing required column").WithDetails("source=%s column=%q", r.schema.Source, col)
		}
	}

	var txs []models.Transaction
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.InputWrap(err, "malformed csv").WithDetails("source=%s", r.schema.Source)
		}

		line, _ := cr.FieldPos(0)
		tx, err := r.normalize(record, index)
		if err != nil {
			return nil, apperrors.ParseWrap(err, "invalid row").WithDetails("source=%s line=%d", r.schema.Source, line)
		}
		txs = append(txs, tx)
	}

	if len(txs) == 0 {
		return nil, apperrors.Input("no records found").WithDetails("source=%s", r.schema.Source)
	}

	return txs, nil
}

func (r *Reader) normalize(record []string, index map[string]int) (models.Transaction, error) {
	cols := r.schema.Columns
	field := func(name string) string {
		if name == "" {
			return ""
		}
		if i := index[name]; i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	price, err := ParsePrice(field(cols.Price))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("column %q: %w", cols.Price, err)
	}

	stamp := field(cols.Date)
	if cols.Time != "" {
		stamp = strings.TrimSpace(stamp + " " + field(cols.Time))
	}
	date, err := parseDate(stamp)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("column %q: %w", cols.Date, err)
	}

	var service string
	if cols.Service != "" {
		service = field(cols.Service)
		if service == "" {
			service = models.UndefinedService
		}
	} else {
		service = r.windows.Assign(date)
	}

	group := field(cols.Group)
	if group == "" {
		group = r.schema.Unknown
	}

	dining := field(cols.DiningOption)

	return models.Transaction{
		Source:       r.schema.Source,
		OrderID:      field(cols.OrderID),
		Date:         date,
		Item:         field(cols.Item),
		Price:        price,
		Service:      service,
		Group:        group,
		DiningOption: dining,
		DineIn:       strings.EqualFold(dining, r.schema.DineIn),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
