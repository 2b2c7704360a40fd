// Package export writes the product table as CSV.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gorm.io/gorm"

	"github.com/angelmondragon/stockkeeper/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockkeeper/pkg/errors"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
	"github.com/angelmondragon/stockkeeper/pkg/metrics"
)

// FileName is the attachment name offered to browsers.
const FileName = "inventory.csv"

var header = []string{"ID", "Product", "Quantity", "Price"}

// Exporter renders every product, ascending by id.
type Exporter struct {
	db      *gorm.DB
	path    string
	logg    *logger.Logger
	metrics *metrics.InventoryMetrics
}

// NewExporter returns an exporter that writes files to path.
func NewExporter(db *gorm.DB, path string, logg *logger.Logger, m *metrics.InventoryMetrics) (*Exporter, error) {
	if db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database required")
	}
	if path == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "export path required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Exporter{db: db, path: path, logg: logg, metrics: m}, nil
}

// Path is the file WriteFile overwrites.
func (e *Exporter) Path() string {
	return e.path
}

// WriteFile replaces the export file with the current product table and
// returns its path.
func (e *Exporter) WriteFile(ctx context.Context) (string, error) {
	rows, err := e.rows(ctx)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(e.path)
	tmp, err := os.CreateTemp(dir, ".inventory-*.csv")
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create export file")
	}
	defer os.Remove(tmp.Name())

	if err := writeCSV(tmp, rows); err != nil {
		_ = tmp.Close()
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write export file")
	}
	if err := tmp.Close(); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close export file")
	}
	if err := os.Rename(tmp.Name(), e.path); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace export file")
	}

	e.metrics.IncExport()
	e.logg.Info(e.logg.WithFields(ctx, map[string]any{
		"path": e.path,
		"rows": len(rows),
	}), "export.written")
	return e.path, nil
}

// Write streams the same CSV to w without touching the export file.
func (e *Exporter) Write(ctx context.Context, w io.Writer) error {
	rows, err := e.rows(ctx)
	if err != nil {
		return err
	}
	if err := writeCSV(w, rows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write export")
	}
	return nil
}

func (e *Exporter) rows(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := e.db.WithContext(ctx).
		Select("id", "product_name", "quantity", "price").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products for export")
	}
	return rows, nil
}

func writeCSV(w io.Writer, rows []models.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.ID, 10),
			row.Name,
			strconv.Itoa(row.Quantity),
			row.Price.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("product %d: %w", row.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
