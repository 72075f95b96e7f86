package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, customer_name, customer_phone, delivery_address, subtotal, delivery_fee, total_amount,
       payment_method, payment_status, payment_ref, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.DeliveryAddress,
		&o.Subtotal,
		&o.DeliveryFee,
		&o.TotalAmount,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.PaymentRef,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

const orderItemColumns = `id, order_id, product_id, name, quantity, price, position`

func scanOrderItem(row interface{ Scan(...any) error }) (OrderItem, error) {
	var i OrderItem
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.ProductID,
		&i.Name,
		&i.Quantity,
		&i.Price,
		&i.Position,
	)
	return i, err
}

const createOrder = `INSERT INTO orders (
    customer_name, customer_phone, delivery_address,
    subtotal, delivery_fee, total_amount,
    payment_method, payment_status, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + orderColumns

type CreateOrderParams struct {
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	Subtotal        int64
	DeliveryFee     int64
	TotalAmount     int64
	PaymentMethod   string
	PaymentStatus   string
	Status          string
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, createOrder,
		arg.CustomerName,
		arg.CustomerPhone,
		arg.DeliveryAddress,
		arg.Subtotal,
		arg.DeliveryFee,
		arg.TotalAmount,
		arg.PaymentMethod,
		arg.PaymentStatus,
		arg.Status,
	))
}

const createOrderItem = `INSERT INTO order_items (order_id, product_id, name, quantity, price, position)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + orderItemColumns

type CreateOrderItemParams struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Name      string
	Quantity  int32
	Price     int64
	Position  int32
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	return scanOrderItem(q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID,
		arg.ProductID,
		arg.Name,
		arg.Quantity,
		arg.Price,
		arg.Position,
	))
}

const getOrder = `SELECT ` + orderColumns + `
FROM orders
WHERE id = $1`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const listOrders = `SELECT ` + orderColumns + `
FROM orders
WHERE ($1::text IS NULL OR status = $1::text)
  AND ($2::text IS NULL
       OR customer_name ILIKE '%' || $2::text || '%'
       OR customer_phone LIKE '%' || $2::text || '%')
  AND ($3::timestamptz IS NULL OR created_at >= $3::timestamptz)
ORDER BY created_at DESC`

type ListOrdersParams struct {
	Status pgtype.Text
	Search pgtype.Text
	Since  pgtype.Timestamptz
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders, arg.Status, arg.Search, arg.Since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listOrderItemsByOrder = `SELECT ` + orderItemColumns + `
FROM order_items
WHERE order_id = $1
ORDER BY position`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderItem{}
	for rows.Next() {
		i, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listOrderItemsByOrders = `SELECT ` + orderItemColumns + `
FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY order_id, position`

func (q *Queries) ListOrderItemsByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrders, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderItem{}
	for rows.Next() {
		i, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countOrdersByPhone = `SELECT count(*) FROM orders WHERE customer_phone = $1`

func (q *Queries) CountOrdersByPhone(ctx context.Context, customerPhone string) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countOrdersByPhone, customerPhone).Scan(&n)
	return n, err
}

// updateOrder only touches the columns whose parameter is non-NULL.
// ExpectedStatus, when set, turns the update into a compare-and-swap on status.
const updateOrder = `UPDATE orders
SET status         = COALESCE($2::text, status),
    payment_status = COALESCE($3::text, payment_status),
    payment_ref    = COALESCE($4::text, payment_ref),
    updated_at     = now()
WHERE id = $1
  AND ($5::text IS NULL OR status = $5::text)
RETURNING ` + orderColumns

type UpdateOrderParams struct {
	ID             uuid.UUID
	Status         pgtype.Text
	PaymentStatus  pgtype.Text
	PaymentRef     pgtype.Text
	ExpectedStatus pgtype.Text
}

func (q *Queries) UpdateOrder(ctx context.Context, arg UpdateOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrder,
		arg.ID,
		arg.Status,
		arg.PaymentStatus,
		arg.PaymentRef,
		arg.ExpectedStatus,
	))
}

const deleteOrder = `DELETE FROM orders WHERE id = $1`

// DeleteOrder returns the number of removed rows; 0 means it was already gone.
func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteOrder, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
