package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vamshi335235/priya-Traders-project/internal/database"
	"github.com/vamshi335235/priya-Traders-project/internal/enum"
	"github.com/vamshi335235/priya-Traders-project/internal/pricing"
)

// Errors returned by the order service.
var (
	ErrMissingName          = errors.New("customerName is required")
	ErrMissingPhone         = errors.New("customerPhone is required")
	ErrInvalidPhone         = errors.New("invalid customerPhone")
	ErrMissingAddress       = errors.New("deliveryAddress is required")
	ErrEmptyItems           = errors.New("items are required")
	ErrInvalidQuantity      = errors.New("quantity must be >= 1")
	ErrInvalidProductID     = errors.New("invalid productId")
	ErrProductNotFound      = errors.New("product not found")
	ErrProductOutOfStock    = errors.New("product is out of stock")
	ErrInvalidPaymentMethod = errors.New("invalid paymentMethod")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to price and create orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetProduct(ctx context.Context, id uuid.UUID) (database.Product, error)
	CountOrdersByPhone(ctx context.Context, customerPhone string) (int64, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the checkout payload. The client-side totals are
// advisory: they are compared with the server quote and then discarded.
type CreateOrderRequest struct {
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	PaymentMethod   string
	Items           []CreateOrderItemRequest

	ClientSubtotal    *int64
	ClientDeliveryFee *int64
	ClientTotal       *int64
}

// CreateOrderItemRequest is a single cart line.
type CreateOrderItemRequest struct {
	ProductID string
	Quantity  int32
}

// QuoteRequest prices a cart without placing it.
type QuoteRequest struct {
	CustomerPhone string
	Items         []CreateOrderItemRequest
}

// QuoteResult is the priced cart plus the lines as they would be frozen.
type QuoteResult struct {
	Quote             pricing.Quote
	HasPreviousOrders bool
	Threshold         int64
	Lines             []PricedLine
}

// PricedLine is a cart line resolved against the catalog.
type PricedLine struct {
	ProductID uuid.UUID
	Name      string
	Price     int64
	Quantity  int32
}

// CreateOrderResult is the persisted order with its items.
type CreateOrderResult struct {
	Order database.Order
	Items []database.OrderItem
	Quote pricing.Quote
}

// OrderService handles order intake.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
	policy   pricing.Policy
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore, policy pricing.Policy) *OrderService {
	return &OrderService{pool: pool, newStore: newStore, policy: policy}
}

// CreateOrder validates the checkout, prices it against the catalog and
// persists order and items in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, ErrMissingName
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return nil, ErrMissingPhone
	}
	phone, err := NormalizePhone(req.CustomerPhone)
	if err != nil {
		return nil, err
	}
	address := strings.TrimSpace(req.DeliveryAddress)
	if address == "" {
		return nil, ErrMissingAddress
	}

	method, paymentStatus, err := resolvePayment(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	priced, err := s.price(ctx, store, phone, req.Items)
	if err != nil {
		return nil, err
	}
	quote := priced.Quote

	if mismatch := describeMismatch(req, quote); mismatch != "" {
		log.Printf("WARN: client totals for %s differ from server quote: %s", phone, mismatch)
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		CustomerName:    name,
		CustomerPhone:   phone,
		DeliveryAddress: address,
		Subtotal:        quote.Subtotal,
		DeliveryFee:     quote.DeliveryFee,
		TotalAmount:     quote.Total,
		PaymentMethod:   method,
		PaymentStatus:   paymentStatus,
		Status:          enum.OrderStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	items := make([]database.OrderItem, 0, len(priced.Lines))
	for i, line := range priced.Lines {
		item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Position:  int32(i),
		})
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{Order: order, Items: items, Quote: quote}, nil
}

// Quote prices a cart for the given phone without writing anything.
func (s *OrderService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResult, error) {
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return nil, ErrMissingPhone
	}
	phone, err := NormalizePhone(req.CustomerPhone)
	if err != nil {
		return nil, err
	}
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	return s.price(ctx, s.newStore(tx), phone, req.Items)
}

// price resolves every line against the catalog and applies the policy.
func (s *OrderService) price(ctx context.Context, store OrderStore, phone string, reqItems []CreateOrderItemRequest) (*QuoteResult, error) {
	prior, err := store.CountOrdersByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("count previous orders: %w", err)
	}

	lines := make([]PricedLine, 0, len(reqItems))
	pricingLines := make([]pricing.Line, 0, len(reqItems))
	for i, item := range reqItems {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidProductID)
		}

		product, err := store.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item[%d]: %w", i, ErrProductNotFound)
			}
			return nil, fmt.Errorf("item[%d]: get product: %w", i, err)
		}
		if !product.InStock {
			return nil, fmt.Errorf("item[%d]: %s: %w", i, product.Name, ErrProductOutOfStock)
		}

		lines = append(lines, PricedLine{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
		pricingLines = append(pricingLines, pricing.Line{Price: product.Price, Quantity: item.Quantity})
	}

	hasPrevious := prior > 0
	return &QuoteResult{
		Quote:             s.policy.Quote(pricingLines, hasPrevious),
		HasPreviousOrders: hasPrevious,
		Threshold:         s.policy.FreeDeliveryThreshold,
		Lines:             lines,
	}, nil
}

// --- Helpers ---

func validateItems(items []CreateOrderItemRequest) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	for i, item := range items {
		if item.Quantity < 1 {
			return fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}
	}
	return nil
}

// resolvePayment defaults an empty method to online and derives the
// initial payment status.
func resolvePayment(method string) (string, string, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "", enum.PaymentMethodOnline:
		return enum.PaymentMethodOnline, enum.PaymentStatusPending, nil
	case enum.PaymentMethodCOD:
		return enum.PaymentMethodCOD, enum.PaymentStatusCOD, nil
	}
	return "", "", ErrInvalidPaymentMethod
}

func describeMismatch(req CreateOrderRequest, q pricing.Quote) string {
	var parts []string
	if req.ClientSubtotal != nil && *req.ClientSubtotal != q.Subtotal {
		parts = append(parts, fmt.Sprintf("subtotal %d != %d", *req.ClientSubtotal, q.Subtotal))
	}
	if req.ClientDeliveryFee != nil && *req.ClientDeliveryFee != q.DeliveryFee {
		parts = append(parts, fmt.Sprintf("deliveryFee %d != %d", *req.ClientDeliveryFee, q.DeliveryFee))
	}
	if req.ClientTotal != nil && *req.ClientTotal != q.Total {
		parts = append(parts, fmt.Sprintf("totalAmount %d != %d", *req.ClientTotal, q.Total))
	}
	return strings.Join(parts, ", ")
}
