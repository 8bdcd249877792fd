// Package db stores orders and order items in a project-local sqlite database.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcus/ordr/internal/models"
	_ "modernc.org/sqlite"
)

const (
	dbFile = ".ordr/orders.db"

	// DefaultDriver is the pure-Go sqlite driver.
	DefaultDriver = "sqlite"
)

// ErrOrderExists is returned when saving an order id that is already stored.
var ErrOrderExists = errors.New("order already exists")

// ErrOrderNotFound is returned when an order id is not stored.
var ErrOrderNotFound = errors.New("order not found")

// DB wraps the database connection
type DB struct {
	conn *sql.DB
	path string
}

// Path returns the database path under baseDir.
func Path(baseDir string) string {
	return filepath.Join(baseDir, dbFile)
}

// Open opens the project database and runs any pending migrations
func Open(baseDir string) (*DB, error) {
	dbPath := Path(baseDir)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: run 'ordr init' first")
	}
	return OpenWithDriver(DefaultDriver, dbPath)
}

// Initialize creates the project database if needed and opens it.
func Initialize(baseDir string) (*DB, error) {
	dbPath := Path(baseDir)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return OpenWithDriver(DefaultDriver, dbPath)
}

// OpenWithDriver opens dbPath with the named database/sql driver,
// creates the schema, and runs migrations.
func OpenWithDriver(driver, dbPath string) (*DB, error) {
	conn, err := sql.Open(driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads while writes are serialized
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	// Slightly faster writes, still safe with WAL
	conn.Exec("PRAGMA synchronous=NORMAL")

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	db := &DB{conn: conn, path: dbPath}

	if _, err := db.RunMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

// Close closes the database
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Save inserts an order header. Items are stored separately by SaveMany.
func (db *DB) Save(ctx context.Context, order models.Order) error {
	var exists int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE id = ?`, order.ID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("%w: %d", ErrOrderExists, order.ID)
	}

	_, err = db.conn.ExecContext(ctx, `INSERT INTO orders (id, client_id) VALUES (?, ?)`, order.ID, order.ClientID)
	return err
}

// SaveMany inserts the items of orderID in one transaction.
func (db *DB) SaveMany(ctx context.Context, orderID int64, items []models.OrderItem) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO order_items (order_id, id, product_id, quantity) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, orderID, item.ID, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("insert item %d: %w", item.ID, err)
		}
	}

	return tx.Commit()
}

// GetOrder returns an order with its items.
func (db *DB) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	order := models.Order{ID: id}
	err := db.conn.QueryRowContext(ctx, `SELECT client_id FROM orders WHERE id = ?`, id).Scan(&order.ClientID)
	if err == sql.ErrNoRows {
		return models.Order{}, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	if err != nil {
		return models.Order{}, err
	}

	items, err := db.itemsFor(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	order.Items = items
	return order, nil
}

// ListOrders returns every stored order ordered by id.
func (db *DB) ListOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, client_id FROM orders ORDER BY id`)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.ClientID); err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range orders {
		items, err := db.itemsFor(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (db *DB) itemsFor(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, product_id, quantity FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
