package database

import (
	"context"

	"github.com/google/uuid"
)

const productColumns = `id, name, description, price, image_url, category, maker, in_stock, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.ImageUrl,
		&p.Category,
		&p.Maker,
		&p.InStock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

const listInStockProducts = `SELECT ` + productColumns + `
FROM products
WHERE in_stock = TRUE
ORDER BY created_at, name`

func (q *Queries) ListInStockProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listInStockProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getProduct = `SELECT ` + productColumns + `
FROM products
WHERE id = $1`

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProduct, id))
}

const updateProductStock = `UPDATE products
SET in_stock = $2, updated_at = now()
WHERE id = $1
RETURNING ` + productColumns

type UpdateProductStockParams struct {
	ID      uuid.UUID
	InStock bool
}

func (q *Queries) UpdateProductStock(ctx context.Context, arg UpdateProductStockParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, updateProductStock, arg.ID, arg.InStock))
}

const createProduct = `INSERT INTO products (name, description, price, image_url, category, maker)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + productColumns

type CreateProductParams struct {
	Name        string
	Description string
	Price       int64
	ImageUrl    string
	Category    string
	Maker       string
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, createProduct,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.ImageUrl,
		arg.Category,
		arg.Maker,
	))
}

const countProducts = `SELECT count(*) FROM products`

func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countProducts).Scan(&n)
	return n, err
}
