package shop

import (
	"database/sql"
	"errors"

	"github.com/tmaselli/galleria/pkg/ntime"
	"github.com/tmaselli/galleria/pkg/rest"
)

type ShopRepository interface {
	GetProducts() ([]Product, error)
	AddProduct(data AddProductData) (*Product, error)
	UpdateProduct(id string, data UpdateProductData) error
	DeleteProduct(id string) error
	RecordSale(cashierId string, data RecordSaleData) (*Sale, error)
	GetSales() ([]Sale, error)
}

type Store struct {
	Connection *sql.DB
}

var (
	ErrNoProduct         = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

func NewStore(connection *sql.DB) *Store {
	return &Store{connection}
}

func closeRows(rows *sql.Rows) {
	_ = rows.Close()
}

func (ss *Store) GetProducts() ([]Product, error) {
	rows, err := ss.Connection.Query(`
		SELECT id, name, price, stock, created, updated FROM products
		WHERE deleted = FALSE ORDER BY name`)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	var products = make([]Product, 0)
	for rows.Next() {
		var product Product
		if err = rows.Scan(&product.Id, &product.Name, &product.Price, &product.Stock,
			&product.Created, &product.Updated); err != nil {
			return products, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (ss *Store) AddProduct(data AddProductData) (*Product, error) {
	var id = rest.MustGetNewUUID()
	var now = ntime.Now()
	if _, err := ss.Connection.Exec(`
		INSERT INTO products (id, name, price, stock, deleted, created, updated)
		VALUES (?, ?, ?, ?, FALSE, ?, ?)`,
		id, data.Name, data.Price, data.Stock, now, now); err != nil {
		return nil, err
	}
	return &Product{id, data.Name, data.Price, data.Stock, now, now}, nil
}

func (ss *Store) UpdateProduct(id string, data UpdateProductData) error {
	result, err := ss.Connection.Exec(`
		UPDATE products SET name = ?, price = ?, stock = ?, updated = ?
		WHERE id = ? AND deleted = FALSE`,
		data.Name, data.Price, data.Stock, ntime.Now(), id)
	if err != nil {
		return err
	}
	if affected, e := result.RowsAffected(); e != nil {
		return e
	} else if affected == 0 {
		return ErrNoProduct
	}
	return nil
}

func (ss *Store) DeleteProduct(id string) error {
	result, err := ss.Connection.Exec(`
		UPDATE products SET deleted = TRUE, updated = ? WHERE id = ? AND deleted = FALSE`,
		ntime.Now(), id)
	if err != nil {
		return err
	}
	if affected, e := result.RowsAffected(); e != nil {
		return e
	} else if affected == 0 {
		return ErrNoProduct
	}
	return nil
}

/*
RecordSale registers a till transaction in one database transaction: each line item decrements
its product's stock through a guarded update, so overselling fails the whole sale rather than
leaving a negative inventory. Prices are read server-side at sale time; the client never
supplies amounts.
*/
func (ss *Store) RecordSale(cashierId string, data RecordSaleData) (*Sale, error) {

	tx, err := ss.Connection.Begin()
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = tx.Rollback()
	}()

	var saleId = rest.MustGetNewUUID()
	var date = ntime.Now()
	var total float64
	var items = make([]SaleItem, 0, len(data.Items))

	// the sale row precedes its items to satisfy the foreign key; the total follows below
	if _, err = tx.Exec(`
		INSERT INTO sales (id, cashier, total, date) VALUES (?, ?, 0, ?)`,
		saleId, cashierId, date); err != nil {
		return nil, err
	}

	for _, item := range data.Items {

		var name string
		var price float64
		err = tx.QueryRow(`
			SELECT name, price FROM products WHERE id = ? AND deleted = FALSE`,
			item.ProductId).Scan(&name, &price)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoProduct
		}
		if err != nil {
			return nil, err
		}

		// the guarded decrement serialises concurrent sales of the same product
		result, err := tx.Exec(`
			UPDATE products SET stock = stock - ?, updated = ? WHERE id = ? AND stock >= ?`,
			item.Quantity, date, item.ProductId, item.Quantity)
		if err != nil {
			return nil, err
		}
		if decremented, e := result.RowsAffected(); e != nil {
			return nil, e
		} else if decremented == 0 {
			return nil, ErrInsufficientStock
		}

		if _, err = tx.Exec(`
			INSERT INTO sale_items (sale, product, quantity, price) VALUES (?, ?, ?, ?)`,
			saleId, item.ProductId, item.Quantity, price); err != nil {
			return nil, err
		}

		total += price * float64(item.Quantity)
		items = append(items, SaleItem{item.ProductId, name, item.Quantity, price})
	}

	if _, err = tx.Exec(`
		UPDATE sales SET total = ? WHERE id = ?`, total, saleId); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &Sale{saleId, cashierId, total, date, items}, nil
}

func (ss *Store) GetSales() ([]Sale, error) {
	rows, err := ss.Connection.Query(`
		SELECT id, cashier, total, date FROM sales ORDER BY date DESC`)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	var sales = make([]Sale, 0)
	for rows.Next() {
		var sale Sale
		if err = rows.Scan(&sale.Id, &sale.Cashier, &sale.Total, &sale.Date); err != nil {
			return sales, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}
