package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/multierr"

	"github.com/angelmondragon/stockkeeper/pkg/db"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
)

const (
	VersionCreateInventoryTables        int64 = 1
	VersionBackfillPurchaseOrderColumns int64 = 2
)

func migrationName(version int64) string {
	switch version {
	case VersionCreateInventoryTables:
		return "create_inventory_tables"
	case VersionBackfillPurchaseOrderColumns:
		return "backfill_purchase_order_columns"
	default:
		return ""
	}
}

// Migrations returns the ordered Go migrations for dialect.
func Migrations(dialect string, logg *logger.Logger) []*goose.Migration {
	if logg == nil {
		logg = logger.Nop()
	}
	return []*goose.Migration{
		goose.NewGoMigration(VersionCreateInventoryTables,
			&goose.GoFunc{RunTx: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx, createTableStatements(dialect))
			}},
			&goose.GoFunc{RunTx: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx, []string{
					`DROP TABLE IF EXISTS purchase_orders`,
					`DROP TABLE IF EXISTS vendors`,
					`DROP TABLE IF EXISTS products`,
				})
			}},
		),
		goose.NewGoMigration(VersionBackfillPurchaseOrderColumns,
			&goose.GoFunc{RunTx: func(ctx context.Context, tx *sql.Tx) error {
				return backfillColumns(ctx, tx, dialect, logg, "purchase_orders", purchaseOrderColumns)
			}},
			// Added columns are kept on rollback.
			&goose.GoFunc{RunTx: func(context.Context, *sql.Tx) error { return nil }},
		),
	}
}

func createTableStatements(dialect string) []string {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	priceType := "REAL"
	if dialect == db.DialectPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
		priceType = "NUMERIC(12,2)"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS products (
	%s,
	product_name TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price %s NOT NULL
)`, idColumn, priceType),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS vendors (
	%s,
	vendor_name TEXT NOT NULL,
	contact TEXT
)`, idColumn),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS purchase_orders (
	%s,
	product_id INTEGER REFERENCES products(id) ON DELETE SET NULL,
	vendor_id INTEGER REFERENCES vendors(id) ON DELETE SET NULL,
	quantity INTEGER NOT NULL DEFAULT 0,
	date TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'Pending'
)`, idColumn),
	}
}

type columnSpec struct {
	Name       string
	Definition string
}

// purchaseOrderColumns are the columns a purchase_orders table created by
// older releases may be missing.
var purchaseOrderColumns = []columnSpec{
	{Name: "product_id", Definition: "product_id INTEGER"},
	{Name: "vendor_id", Definition: "vendor_id INTEGER"},
	{Name: "quantity", Definition: "quantity INTEGER NOT NULL DEFAULT 0"},
	{Name: "date", Definition: "date TEXT NOT NULL DEFAULT ''"},
	{Name: "status", Definition: "status TEXT NOT NULL DEFAULT 'Pending'"},
}

// backfillColumns adds each missing column to table. A column that cannot be
// added is logged and skipped; only failing to inspect the table is fatal.
func backfillColumns(ctx context.Context, tx *sql.Tx, dialect string, logg *logger.Logger, table string, columns []columnSpec) error {
	existing, err := columnNames(ctx, tx, dialect, table)
	if err != nil {
		return err
	}

	addClause := "ADD COLUMN"
	if dialect == db.DialectPostgres {
		// a failed statement aborts the whole transaction on postgres
		addClause = "ADD COLUMN IF NOT EXISTS"
	}

	var skipped error
	added := 0
	for _, col := range columns {
		if existing[col.Name] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s %s %s", table, addClause, col.Definition)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			if db.IsDuplicateColumn(err) {
				continue
			}
			skipped = multierr.Append(skipped, fmt.Errorf("add column %s.%s: %w", table, col.Name, err))
			continue
		}
		added++
	}

	if skipped != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"table": table,
			"error": skipped.Error(),
		}), "some columns could not be added")
	}
	if added > 0 {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"table": table,
			"added": added,
		}), "backfilled missing columns")
	}
	return nil
}

func execAll(ctx context.Context, tx *sql.Tx, statements []string) error {
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
