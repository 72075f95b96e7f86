package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       int64
	ImageUrl    string
	Category    string
	Maker       string
	InStock     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Order struct {
	ID              uuid.UUID
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	Subtotal        int64
	DeliveryFee     int64
	TotalAmount     int64
	PaymentMethod   string
	PaymentStatus   string
	PaymentRef      pgtype.Text
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Name      string
	Quantity  int32
	Price     int64
	Position  int32
}
