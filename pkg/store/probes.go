package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/dataguard/pkg/probe"
)

// ConstraintProbes returns the probes that check the constraints declared by
// the entity schema. Each probe creates its own fixtures inside the probe
// transaction.
func ConstraintProbes() []probe.Probe {
	return []probe.Probe{
		{
			Name:        "duplicate_email",
			Constraint:  probe.ConstraintUnique,
			Description: "two users with the same email",
			Exercise: func(ctx context.Context, tx pgx.Tx) error {
				email := probeEmail()
				if _, err := insertUser(ctx, tx, email); err != nil {
					return err
				}
				_, err := insertUser(ctx, tx, email)
				return err
			},
		},
		{
			Name:        "duplicate_sku",
			Constraint:  probe.ConstraintUnique,
			Description: "two products with the same SKU",
			Exercise: func(ctx context.Context, tx pgx.Tx) error {
				sku := probeSKU()
				if _, err := insertProduct(ctx, tx, sku); err != nil {
					return err
				}
				_, err := insertProduct(ctx, tx, sku)
				return err
			},
		},
		{
			Name:        "null_user_name",
			Constraint:  probe.ConstraintNotNull,
			Description: "user without a name",
			Exercise: func(ctx context.Context, tx pgx.Tx) error {
				_, err := tx.Exec(ctx, `INSERT INTO users (name, email) VALUES (NULL, $1)`, probeEmail())
				return err
			},
		},
		{
			Name:        "null_user_email",
			Constraint:  probe.ConstraintNotNull,
			Description: "user without an email",
			Exercise: func(ctx context.Context, tx pgx.Tx) error {
				_, err := tx.Exec(ctx, `INSERT INTO users (name, email) VALUES ('probe', NULL)`)
				return err
			},
		},
		{
			Name:        "null_product_price",
			Constraint:  probe.ConstraintNotNull,
			Description: "product without a price",
			Exercise: func(ctx context.Context, tx pgx.Tx) error {
				_, err := tx.Exec(ctx, `INSERT INTO products (name, sku, price) VALUES ('probe', $1, NULL)`, probeSKU())
				return err
			},
		},
		{
			Name:        "dangling_order_user",
			Constraint:  probe.ConstraintForeignKey,
			Description: "order referencing a missing user",
			Exercise: func(ctx context.Context, tx pgx.Tx) error {
				_, err := tx.Exec(ctx,
					`INSERT INTO orders (user_id, status, total_amount) VALUES ($1, 'pending', 100)`,
					missingID)
				return err
			},
		},
		{
			Name:        "dangling_item_order",
			Constraint:  probe.ConstraintForeignKey,
			Description: "order item referencing a missing order",
			Exercise: func(ctx context.Context, tx pgx.Tx) error {
				productID, err := insertProduct(ctx, tx, probeSKU())
				if err != nil {
					return err
				}
				_, err = tx.Exec(ctx,
					`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, 1, 10)`,
					missingID, productID)
				return err
			},
		},
		{
			Name:        "dangling_item_product",
			Constraint:  probe.ConstraintForeignKey,
			Description: "order item referencing a missing product",
			Exercise: func(ctx context.Context, tx pgx.Tx) error {
				userID, err := insertUser(ctx, tx, probeEmail())
				if err != nil {
					return err
				}
				orderID, err := insertOrder(ctx, tx, userID)
				if err != nil {
					return err
				}
				_, err = tx.Exec(ctx,
					`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, 1, 10)`,
					orderID, missingID)
				return err
			},
		},
		{
			Name:        "delete_user_with_orders",
			Constraint:  probe.ConstraintDeleteBehavior,
			Description: "deleting a user that still has orders must not orphan them",
			Exercise:    deleteUserWithOrders,
		},
	}
}

// missingID is far above any id a BIGSERIAL sequence hands out in practice.
const missingID int64 = 9_000_000_000_000_000_000

// deleteUserWithOrders distinguishes the three possible schema behaviours:
// RESTRICT / NO ACTION rejects the delete, CASCADE removes the orders, and
// anything else leaves orphans behind.
func deleteUserWithOrders(ctx context.Context, tx pgx.Tx) error {
	userID, err := insertUser(ctx, tx, probeEmail())
	if err != nil {
		return err
	}
	if _, err := insertOrder(ctx, tx, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return err
	}

	var remaining int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM orders WHERE user_id = $1`, userID).Scan(&remaining); err != nil {
		return err
	}
	if remaining == 0 {
		return &probe.Preserved{Reason: "orders were removed together with their user"}
	}
	return nil
}

func probeEmail() string {
	return fmt.Sprintf("probe-%s@dataguard.invalid", uuid.NewString())
}

func probeSKU() string {
	return "PROBE-" + uuid.NewString()[:8]
}

func insertUser(ctx context.Context, tx pgx.Tx, email string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `INSERT INTO users (name, email) VALUES ('probe', $1) RETURNING id`, email).Scan(&id)
	return id, err
}

func insertProduct(ctx context.Context, tx pgx.Tx, sku string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `INSERT INTO products (name, sku, price, stock) VALUES ('probe', $1, 10, 1) RETURNING id`, sku).Scan(&id)
	return id, err
}

func insertOrder(ctx context.Context, tx pgx.Tx, userID int64) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, status, total_amount) VALUES ($1, 'pending', 10) RETURNING id`,
		userID).Scan(&id)
	return id, err
}
