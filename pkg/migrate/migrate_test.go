package migrate

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockkeeper/pkg/db"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
)

func newSQLiteClient(t *testing.T) *db.Client {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "inventory.db"))
	require.NoError(t, err)
	client := db.NewFromGorm(conn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func columnsOf(t *testing.T, client *db.Client, table string) map[string]bool {
	t.Helper()
	var names []string
	require.NoError(t, client.DB().Raw("SELECT name FROM pragma_table_info(?)", table).Scan(&names).Error)
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

func TestUpCreatesInventoryTables(t *testing.T) {
	client := newSQLiteClient(t)
	ctx := context.Background()

	require.NoError(t, Up(ctx, client, logger.Nop()))

	assert.Equal(t, map[string]bool{"id": true, "product_name": true, "quantity": true, "price": true}, columnsOf(t, client, "products"))
	assert.Equal(t, map[string]bool{"id": true, "vendor_name": true, "contact": true}, columnsOf(t, client, "vendors"))
	assert.Equal(t, map[string]bool{
		"id": true, "product_id": true, "vendor_id": true,
		"quantity": true, "date": true, "status": true,
	}, columnsOf(t, client, "purchase_orders"))
}

func TestUpIsIdempotent(t *testing.T) {
	client := newSQLiteClient(t)
	ctx := context.Background()

	require.NoError(t, Up(ctx, client, logger.Nop()))
	require.NoError(t, client.DB().Exec("INSERT INTO products (product_name, quantity, price) VALUES ('Widget', 10, 2.5)").Error)
	require.NoError(t, Up(ctx, client, logger.Nop()))

	var count int64
	require.NoError(t, client.DB().Table("products").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpBackfillsLegacyPurchaseOrders(t *testing.T) {
	client := newSQLiteClient(t)
	ctx := context.Background()

	require.NoError(t, client.DB().Exec(`CREATE TABLE purchase_orders (id INTEGER PRIMARY KEY AUTOINCREMENT, product_id INTEGER)`).Error)
	require.NoError(t, client.DB().Exec(`INSERT INTO purchase_orders (product_id) VALUES (7)`).Error)

	require.NoError(t, Up(ctx, client, logger.Nop()))

	cols := columnsOf(t, client, "purchase_orders")
	for _, name := range []string{"vendor_id", "quantity", "date", "status"} {
		assert.True(t, cols[name], "missing column %s", name)
	}

	var status string
	var quantity int
	row := client.DB().Raw("SELECT status, quantity FROM purchase_orders WHERE id = 1").Row()
	require.NoError(t, row.Scan(&status, &quantity))
	assert.Equal(t, "Pending", status)
	assert.Equal(t, 0, quantity)
}

func TestBackfillColumnsSkipsFailures(t *testing.T) {
	client := newSQLiteClient(t)
	ctx := context.Background()
	require.NoError(t, client.DB().Exec(`CREATE TABLE legacy (id INTEGER PRIMARY KEY)`).Error)
	// a NOT NULL column without a default cannot be added once rows exist
	require.NoError(t, client.DB().Exec(`INSERT INTO legacy (id) VALUES (1)`).Error)

	sqlDB, err := client.SQL()
	require.NoError(t, err)
	tx, err := sqlDB.BeginTx(ctx, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})

	err = backfillColumns(ctx, tx, db.DialectSQLite, logg, "legacy", []columnSpec{
		{Name: "broken", Definition: "broken INTEGER NOT NULL"},
		{Name: "note", Definition: "note TEXT"},
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	cols := columnsOf(t, client, "legacy")
	assert.False(t, cols["broken"])
	assert.True(t, cols["note"])
	assert.Contains(t, buf.String(), "some columns could not be added")
	assert.Contains(t, buf.String(), "add column legacy.broken")
	assert.Contains(t, buf.String(), `"added":1`)
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	client := newSQLiteClient(t)
	err := Run(context.Background(), client, logger.Nop(), "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}

func TestMigrateToVersion(t *testing.T) {
	client := newSQLiteClient(t)
	ctx := context.Background()

	require.NoError(t, MigrateToVersion(ctx, client, logger.Nop(), "1"))
	assert.True(t, columnsOf(t, client, "purchase_orders")["status"])

	require.NoError(t, MigrateToVersion(ctx, client, logger.Nop(), "2"))
	require.NoError(t, MigrateToVersion(ctx, client, logger.Nop(), "0"))
	assert.Empty(t, columnsOf(t, client, "products"))

	require.Error(t, MigrateToVersion(ctx, client, logger.Nop(), "abc"))
}
