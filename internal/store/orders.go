package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-service/internal/models"
)

// CreateOrder persists an order and its line items in one transaction
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, user_id, address_id, amount, payment_mode, paid)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	row := tx.QueryRowxContext(ctx, query,
		order.ID, order.UserID, order.AddressID, order.Amount, order.PaymentMode, order.Paid)
	if err := row.Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		err := tx.GetContext(ctx, &items[i].ID,
			"INSERT INTO order_items (order_id, product_id, quantity) VALUES ($1, $2, $3) RETURNING id",
			items[i].OrderID, items[i].ProductID, items[i].Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkOrderPaid sets the paid flag. A single unconditional UPDATE so that
// duplicate webhook deliveries stay harmless.
func (s *Store) MarkOrderPaid(ctx context.Context, orderID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET paid = true, updated_at = NOW() WHERE id = $1", orderID)
	return err
}

// DeleteOrder removes an order and its line items. Deleting an already
// deleted order is a no-op, not an error.
func (s *Store) DeleteOrder(ctx context.Context, orderID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return tx.Commit()
}

// GetOrdersByUserID retrieves a user's visible orders, newest first.
// Unpaid gateway orders are excluded from buyer history.
func (s *Store) GetOrdersByUserID(ctx context.Context, userID string) ([]models.OrderDetail, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		`SELECT * FROM orders
		 WHERE user_id = $1 AND (payment_mode = $2 OR paid = true)
		 ORDER BY created_at DESC`,
		userID, models.PaymentModeCOD)
	if err != nil {
		return nil, err
	}
	return s.populateOrders(ctx, orders)
}

// GetAllOrders retrieves all visible orders for the seller queue, newest first
func (s *Store) GetAllOrders(ctx context.Context) ([]models.OrderDetail, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		`SELECT * FROM orders
		 WHERE payment_mode = $1 OR paid = true
		 ORDER BY created_at DESC`,
		models.PaymentModeCOD)
	if err != nil {
		return nil, err
	}
	return s.populateOrders(ctx, orders)
}

// populateOrders attaches line items with product details and the shipping
// address to each order
func (s *Store) populateOrders(ctx context.Context, orders []models.Order) ([]models.OrderDetail, error) {
	details := make([]models.OrderDetail, 0, len(orders))

	for _, order := range orders {
		var items []models.OrderItem
		err := s.db.SelectContext(ctx, &items,
			"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", order.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load items for order %s: %w", order.ID, err)
		}

		productIDs := make([]string, len(items))
		for i, item := range items {
			productIDs[i] = item.ProductID
		}

		products, err := s.GetProductsByIDs(ctx, productIDs)
		if err != nil {
			return nil, err
		}
		productMap := make(map[string]models.Product, len(products))
		for _, p := range products {
			productMap[p.ID] = p
		}

		lines := make([]models.OrderLine, 0, len(items))
		for _, item := range items {
			lines = append(lines, models.OrderLine{
				Product:  productMap[item.ProductID],
				Quantity: item.Quantity,
			})
		}

		detail := models.OrderDetail{Order: order, Items: lines}
		if address, err := s.GetAddressByID(ctx, order.AddressID); err == nil {
			detail.Address = address
		}

		details = append(details, detail)
	}

	return details, nil
}
