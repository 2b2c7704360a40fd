// Package dbtest opens throwaway sqlite databases with the inventory schema
// applied.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/stockkeeper/pkg/db"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
	"github.com/angelmondragon/stockkeeper/pkg/migrate"
)

// legacySchema is the layout of inventory databases that predate the
// migrations: purchase_orders references carry no ON DELETE action.
var legacySchema = []string{
	`CREATE TABLE products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_name TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price REAL NOT NULL
)`,
	`CREATE TABLE vendors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	vendor_name TEXT NOT NULL,
	contact TEXT
)`,
	`CREATE TABLE purchase_orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id INTEGER,
	vendor_id INTEGER,
	quantity INTEGER,
	date TEXT,
	status TEXT DEFAULT 'Pending',
	FOREIGN KEY (product_id) REFERENCES products(id),
	FOREIGN KEY (vendor_id) REFERENCES vendors(id)
)`,
}

// NewClient returns a migrated sqlite client backed by a file in t.TempDir.
func NewClient(t testing.TB) *db.Client {
	t.Helper()
	client := open(t)
	up(t, client)
	return client
}

// NewLegacyClient creates the pre-migration schema first and then migrates,
// the way an existing inventory.db is adopted.
func NewLegacyClient(t testing.TB) *db.Client {
	t.Helper()
	client := open(t)
	for _, stmt := range legacySchema {
		if err := client.DB().Exec(stmt).Error; err != nil {
			t.Fatalf("legacy schema: %v", err)
		}
	}
	up(t, client)
	return client
}

func open(t testing.TB) *db.Client {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "inventory.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	client := db.NewFromGorm(conn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func up(t testing.TB, client *db.Client) {
	t.Helper()
	if err := migrate.Up(context.Background(), client, logger.Nop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}
