package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/dataguard/pkg/entity"
)

// TxStarter is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxStarter interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

const (
	selectUsers    = `SELECT id, name, email, created_at, is_active, age FROM users`
	selectProducts = `SELECT id, name, sku, price, stock, COALESCE(description, ''), created_at FROM products`
	selectOrders   = `SELECT id, user_id, status, total_amount, created_at FROM orders`
	selectItems    = `SELECT id, order_id, product_id, quantity, price FROM order_items`
)

// Load reads all four entity tables in one REPEATABLE READ, READ ONLY
// transaction so the snapshot is consistent across tables. The snapshot's
// capture time is the transaction timestamp.
func Load(ctx context.Context, db TxStarter) (*entity.Snapshot, error) {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, errors.Join(ErrLoadSnapshot, err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	var capturedAt time.Time
	if err := tx.QueryRow(ctx, `SELECT now()`).Scan(&capturedAt); err != nil {
		return nil, errors.Join(ErrLoadSnapshot, err)
	}

	users, err := collect(ctx, tx, selectUsers, func(row pgx.CollectableRow) (entity.User, error) {
		var u entity.User
		err := row.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.IsActive, &u.Age)
		return u, err
	})
	if err != nil {
		return nil, err
	}
	products, err := collect(ctx, tx, selectProducts, func(row pgx.CollectableRow) (entity.Product, error) {
		var p entity.Product
		err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.Stock, &p.Description, &p.CreatedAt)
		return p, err
	})
	if err != nil {
		return nil, err
	}
	orders, err := collect(ctx, tx, selectOrders, func(row pgx.CollectableRow) (entity.Order, error) {
		var (
			o      entity.Order
			status string
		)
		err := row.Scan(&o.ID, &o.UserID, &status, &o.TotalAmount, &o.CreatedAt)
		o.Status = entity.OrderStatus(status)
		return o, err
	})
	if err != nil {
		return nil, err
	}
	items, err := collect(ctx, tx, selectItems, func(row pgx.CollectableRow) (entity.OrderItem, error) {
		var i entity.OrderItem
		err := row.Scan(&i.ID, &i.OrderID, &i.ProductID, &i.Quantity, &i.Price)
		return i, err
	})
	if err != nil {
		return nil, err
	}

	snap, err := entity.NewSnapshot(users, products, orders, items, entity.WithCapturedAt(capturedAt))
	if err != nil {
		return nil, errors.Join(ErrLoadSnapshot, err)
	}
	return snap, nil
}

func collect[T any](ctx context.Context, tx pgx.Tx, query string, scan pgx.RowToFunc[T]) ([]T, error) {
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, errors.Join(ErrLoadSnapshot, fmt.Errorf("query %q: %w", query, err))
	}
	out, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, errors.Join(ErrLoadSnapshot, fmt.Errorf("scan %q: %w", query, err))
	}
	return out, nil
}
