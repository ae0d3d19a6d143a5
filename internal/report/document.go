package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "pos-report/internal/errors"
)

// Document collects chart pages in order and serializes them.
type Document interface {
	AddPage(chart Chart) error
	Pages() int
	WriteTo(w io.Writer) (int64, error)
}

func NewDocument(format, title string) (Document, error) {
	switch strings.ToLower(format) {
	case ".pdf", "pdf":
		return newPDFDocument(), nil
	case ".xlsx", "xlsx":
		return newXLSXDocument(), nil
	case ".html", "html", ".htm":
		return newHTMLDocument(title), nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// Write renders every chart and writes the document to path. Pages are
// rendered before the file is created; if writing fails the partial
// file is removed.
func Write(ctx context.Context, path string, charts []Chart, logger *slog.Logger) (err error) {
	start := time.Now()

	doc, err := NewDocument(filepath.Ext(path), "POS sales report")
	if err != nil {
		return apperrors.RenderWrap(err, "select report format").WithDetails("path=%s", path)
	}
	if c, ok := doc.(io.Closer); ok {
		defer c.Close()
	}

	for i, chart := range charts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := doc.AddPage(chart); err != nil {
			return apperrors.RenderWrap(err, "render chart").WithDetails("page=%d title=%q", i+1, chart.Title)
		}
		logger.Debug("chart rendered", "page", i+1, "title", chart.Title, "bars", len(chart.Bars))
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.RenderWrap(err, "create report").WithDetails("path=%s", path)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = apperrors.RenderWrap(cerr, "close report").WithDetails("path=%s", path)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	n, err := doc.WriteTo(file)
	if err != nil {
		return apperrors.RenderWrap(err, "write report").WithDetails("path=%s", path)
	}

	logger.Info("report written",
		"path", path,
		"pages", doc.Pages(),
		"bytes", n,
		"duration", time.Since(start))
	return nil
}
