package database

import (
	"context"
)

const getOrderSummary = `SELECT
    count(*)                                                              AS total_orders,
    count(*) FILTER (WHERE status = 'Pending')                            AS pending_orders,
    count(*) FILTER (WHERE status IN ('Received', 'Packed', 'On The Way')) AS processing_orders,
    count(*) FILTER (WHERE status = 'Delivered')                          AS delivered_orders,
    COALESCE(sum(total_amount), 0)::bigint                                AS total_revenue
FROM orders`

type GetOrderSummaryRow struct {
	TotalOrders      int64
	PendingOrders    int64
	ProcessingOrders int64
	DeliveredOrders  int64
	TotalRevenue     int64
}

func (q *Queries) GetOrderSummary(ctx context.Context) (GetOrderSummaryRow, error) {
	var r GetOrderSummaryRow
	err := q.db.QueryRow(ctx, getOrderSummary).Scan(
		&r.TotalOrders,
		&r.PendingOrders,
		&r.ProcessingOrders,
		&r.DeliveredOrders,
		&r.TotalRevenue,
	)
	return r, err
}
