package shop

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tmaselli/galleria/pkg/storage/sqlite"
)

const testCashierId = "d6d76f35-02fa-40b7-92ea-21d86c32b6a3"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	connection, err := sql.Open("sqlite3", "file::memory:?_fk=on")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	// a single connection keeps the in-memory database alive and shared
	connection.SetMaxOpenConns(1)
	if err = sqlite.CreateSchema(connection); err != nil {
		t.Fatalf("creating schema: %v", err)
	}
	if err = sqlite.SeedRoles(connection); err != nil {
		t.Fatalf("seeding roles: %v", err)
	}

	// sales reference the recording cashier
	now := time.Now()
	if _, err = connection.Exec(`
		INSERT INTO users (id, alias, name, email, password, role, deleted, created, updated)
		VALUES (?, 'tillone', 'Till Operator', 'till@example.com', 'hash', 'cashier', FALSE, ?, ?)`,
		testCashierId, now, now); err != nil {
		t.Fatalf("inserting cashier: %v", err)
	}

	t.Cleanup(func() { _ = connection.Close() })
	return NewStore(connection)
}

func TestRecordSaleDecrementsStock(t *testing.T) {
	store := newTestStore(t)

	catalogue, err := store.AddProduct(AddProductData{Name: "Exhibition Catalogue", Price: 24.5, Stock: 5})
	if err != nil {
		t.Fatalf("adding product: %v", err)
	}
	postcard, err := store.AddProduct(AddProductData{Name: "Postcard Set", Price: 6, Stock: 10})
	if err != nil {
		t.Fatalf("adding product: %v", err)
	}

	sale, err := store.RecordSale(testCashierId, RecordSaleData{Items: []SaleItemData{
		{ProductId: catalogue.Id, Quantity: 2},
		{ProductId: postcard.Id, Quantity: 3},
	}})
	if err != nil {
		t.Fatalf("recording sale: %v", err)
	}

	if expected := 2*24.5 + 3*6; sale.Total != expected {
		t.Fatalf("expected a total of %.2f, got %.2f", expected, sale.Total)
	}

	var stock int
	if err = store.Connection.QueryRow(`SELECT stock FROM products WHERE id = ?`, catalogue.Id).Scan(&stock); err != nil {
		t.Fatalf("fetching stock: %v", err)
	}
	if stock != 3 {
		t.Fatalf("expected 3 catalogues left, got %d", stock)
	}
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	store := newTestStore(t)

	product, err := store.AddProduct(AddProductData{Name: "Poster", Price: 12, Stock: 1})
	if err != nil {
		t.Fatalf("adding product: %v", err)
	}

	_, err = store.RecordSale(testCashierId, RecordSaleData{Items: []SaleItemData{
		{ProductId: product.Id, Quantity: 2},
	}})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// the failed sale must leave no trace
	var stock, sales int
	if err = store.Connection.QueryRow(`SELECT stock FROM products WHERE id = ?`, product.Id).Scan(&stock); err != nil {
		t.Fatalf("fetching stock: %v", err)
	}
	if err = store.Connection.QueryRow(`SELECT count(*) FROM sales`).Scan(&sales); err != nil {
		t.Fatalf("counting sales: %v", err)
	}
	if stock != 1 || sales != 0 {
		t.Fatalf("expected an untouched shop, got stock %d and %d sales", stock, sales)
	}
}

func TestRecordSaleUnknownProduct(t *testing.T) {
	store := newTestStore(t)

	_, err := store.RecordSale(testCashierId, RecordSaleData{Items: []SaleItemData{
		{ProductId: "e7e76f35-02fa-40b7-92ea-21d86c32b6a4", Quantity: 1},
	}})
	if !errors.Is(err, ErrNoProduct) {
		t.Fatalf("expected ErrNoProduct, got %v", err)
	}
}
