package pos

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"pos-report/internal/models"
)

type Export struct {
	Path   string
	Schema Schema
}

type Dataset struct {
	Square []models.Transaction
	Toast  []models.Transaction
}

func (d Dataset) Len() int {
	return len(d.Square) + len(d.Toast)
}

// LoadAll reads both exports concurrently. The first failure cancels the
// other read and is returned.
func LoadAll(ctx context.Context, square, toast Export, windows Windows, logger *slog.Logger) (Dataset, error) {
	var ds Dataset

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := NewReader(square.Schema, windows, logger).Load(gctx, square.Path)
		ds.Square = txs
		return err
	})
	g.Go(func() error {
		txs, err := NewReader(toast.Schema, windows, logger).Load(gctx, toast.Path)
		ds.Toast = txs
		return err
	})

	if err := g.Wait(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}
