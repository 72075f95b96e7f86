package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vamshi335235/priya-Traders-project/internal/database"
	"github.com/vamshi335235/priya-Traders-project/internal/enum"
	"github.com/vamshi335235/priya-Traders-project/internal/pricing"
)

// --- Mock implementations ---

// mockTx implements pgx.Tx with only the methods we need.
// The unused methods panic so we catch accidental calls.
type mockTx struct {
	commitErr   error
	rollbackErr error
	committed   bool
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitErr == nil {
		m.committed = true
	}
	return m.commitErr
}
func (m *mockTx) Rollback(ctx context.Context) error { return m.rollbackErr }
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *mockTx) Conn() *pgx.Conn { panic("not implemented") }

// mockTxBeginner implements TxBeginner.
type mockTxBeginner struct {
	tx  pgx.Tx
	err error
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.tx, m.err
}

// mockOrderStore implements OrderStore with configurable behavior.
type mockOrderStore struct {
	getProductFn         func(ctx context.Context, id uuid.UUID) (database.Product, error)
	countOrdersByPhoneFn func(ctx context.Context, phone string) (int64, error)
	createOrderFn        func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	createOrderItemFn    func(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
}

func (m *mockOrderStore) GetProduct(ctx context.Context, id uuid.UUID) (database.Product, error) {
	return m.getProductFn(ctx, id)
}
func (m *mockOrderStore) CountOrdersByPhone(ctx context.Context, phone string) (int64, error) {
	return m.countOrdersByPhoneFn(ctx, phone)
}
func (m *mockOrderStore) CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
	return m.createOrderFn(ctx, arg)
}
func (m *mockOrderStore) CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
	return m.createOrderItemFn(ctx, arg)
}

// --- Test helpers ---

var testPolicy = pricing.Policy{DeliveryFee: 20, FreeDeliveryThreshold: 210}

// newTestService creates an OrderService with mocked dependencies.
func newTestService(store *mockOrderStore) (*OrderService, *mockTx) {
	tx := &mockTx{}
	pool := &mockTxBeginner{tx: tx}
	newStore := func(db database.DBTX) OrderStore { return store }
	return NewOrderService(pool, newStore, testPolicy), tx
}

// defaultStore knows a single in-stock product priced at 70 and a phone
// with no previous orders.
func defaultStore(productID uuid.UUID) *mockOrderStore {
	return &mockOrderStore{
		getProductFn: func(ctx context.Context, id uuid.UUID) (database.Product, error) {
			if id == productID {
				return database.Product{
					ID:       productID,
					Name:     "Premium Idly Batter",
					Price:    70,
					Category: enum.CategoryBatter,
					InStock:  true,
				}, nil
			}
			return database.Product{}, pgx.ErrNoRows
		},
		countOrdersByPhoneFn: func(ctx context.Context, phone string) (int64, error) {
			return 0, nil
		},
		createOrderFn: func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
			return database.Order{
				ID:              uuid.New(),
				CustomerName:    arg.CustomerName,
				CustomerPhone:   arg.CustomerPhone,
				DeliveryAddress: arg.DeliveryAddress,
				Subtotal:        arg.Subtotal,
				DeliveryFee:     arg.DeliveryFee,
				TotalAmount:     arg.TotalAmount,
				PaymentMethod:   arg.PaymentMethod,
				PaymentStatus:   arg.PaymentStatus,
				Status:          arg.Status,
			}, nil
		},
		createOrderItemFn: func(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
			return database.OrderItem{
				ID:        uuid.New(),
				OrderID:   arg.OrderID,
				ProductID: arg.ProductID,
				Name:      arg.Name,
				Quantity:  arg.Quantity,
				Price:     arg.Price,
				Position:  arg.Position,
			}, nil
		},
	}
}

func basicReq(productID string, qty int32) CreateOrderRequest {
	return CreateOrderRequest{
		CustomerName:    "Asha",
		CustomerPhone:   "9000000001",
		DeliveryAddress: "12 MG Road",
		PaymentMethod:   "online",
		Items: []CreateOrderItemRequest{
			{ProductID: productID, Quantity: qty},
		},
	}
}

// =====================
// Validation tests
// =====================

func TestCreateOrder_MissingFields(t *testing.T) {
	productID := uuid.New()
	tests := []struct {
		name   string
		mutate func(r *CreateOrderRequest)
		want   error
	}{
		{"name", func(r *CreateOrderRequest) { r.CustomerName = "  " }, ErrMissingName},
		{"phone", func(r *CreateOrderRequest) { r.CustomerPhone = "" }, ErrMissingPhone},
		{"short phone", func(r *CreateOrderRequest) { r.CustomerPhone = "12345" }, ErrInvalidPhone},
		{"address", func(r *CreateOrderRequest) { r.DeliveryAddress = "" }, ErrMissingAddress},
		{"payment method", func(r *CreateOrderRequest) { r.PaymentMethod = "card" }, ErrInvalidPaymentMethod},
		{"items", func(r *CreateOrderRequest) { r.Items = nil }, ErrEmptyItems},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(defaultStore(productID))
			req := basicReq(productID.String(), 1)
			tt.mutate(&req)
			_, err := svc.CreateOrder(context.Background(), req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got: %v", tt.want, err)
			}
		})
	}
}

func TestCreateOrder_ZeroQuantity(t *testing.T) {
	productID := uuid.New()
	svc, _ := newTestService(defaultStore(productID))

	_, err := svc.CreateOrder(context.Background(), basicReq(productID.String(), 0))
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got: %v", err)
	}
}

func TestCreateOrder_InvalidProductID(t *testing.T) {
	svc, _ := newTestService(defaultStore(uuid.New()))

	_, err := svc.CreateOrder(context.Background(), basicReq("not-a-uuid", 1))
	if !errors.Is(err, ErrInvalidProductID) {
		t.Fatalf("expected ErrInvalidProductID, got: %v", err)
	}
}

func TestCreateOrder_ProductNotFound(t *testing.T) {
	svc, _ := newTestService(defaultStore(uuid.New()))

	_, err := svc.CreateOrder(context.Background(), basicReq(uuid.New().String(), 1))
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got: %v", err)
	}
}

func TestCreateOrder_OutOfStock(t *testing.T) {
	productID := uuid.New()
	store := defaultStore(productID)
	store.getProductFn = func(ctx context.Context, id uuid.UUID) (database.Product, error) {
		return database.Product{ID: id, Name: "Crispy Dosa Batter", Price: 70, InStock: false}, nil
	}
	svc, _ := newTestService(store)

	_, err := svc.CreateOrder(context.Background(), basicReq(productID.String(), 1))
	if !errors.Is(err, ErrProductOutOfStock) {
		t.Fatalf("expected ErrProductOutOfStock, got: %v", err)
	}
}

// =====================
// Pricing tests
// =====================

func TestCreateOrder_FirstOrderOverThresholdIsFree(t *testing.T) {
	idly := uuid.New()
	dosa := uuid.New()
	store := defaultStore(idly)
	store.getProductFn = func(ctx context.Context, id uuid.UUID) (database.Product, error) {
		switch id {
		case idly:
			return database.Product{ID: idly, Name: "Premium Idly Batter", Price: 70, InStock: true}, nil
		case dosa:
			return database.Product{ID: dosa, Name: "Crispy Dosa Batter", Price: 70, InStock: true}, nil
		}
		return database.Product{}, pgx.ErrNoRows
	}

	var captured database.CreateOrderParams
	base := store.createOrderFn
	store.createOrderFn = func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
		captured = arg
		return base(ctx, arg)
	}
	var capturedItems []database.CreateOrderItemParams
	baseItem := store.createOrderItemFn
	store.createOrderItemFn = func(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
		capturedItems = append(capturedItems, arg)
		return baseItem(ctx, arg)
	}

	svc, tx := newTestService(store)
	req := basicReq(idly.String(), 1)
	req.Items = append(req.Items, CreateOrderItemRequest{ProductID: dosa.String(), Quantity: 2})

	result, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.Subtotal != 210 || captured.DeliveryFee != 0 || captured.TotalAmount != 210 {
		t.Errorf("totals: got %d/%d/%d, want 210/0/210", captured.Subtotal, captured.DeliveryFee, captured.TotalAmount)
	}
	if !result.Quote.FreeDelivery {
		t.Error("expected free delivery on first order at threshold")
	}
	if captured.CustomerPhone != "919000000001" {
		t.Errorf("phone: got %q, want normalized 919000000001", captured.CustomerPhone)
	}
	if captured.Status != enum.OrderStatusPending || captured.PaymentStatus != enum.PaymentStatusPending {
		t.Errorf("status/paymentStatus: got %q/%q", captured.Status, captured.PaymentStatus)
	}
	if len(capturedItems) != 2 {
		t.Fatalf("expected 2 items, got %d", len(capturedItems))
	}
	if capturedItems[1].Name != "Crispy Dosa Batter" || capturedItems[1].Price != 70 || capturedItems[1].Position != 1 {
		t.Errorf("second item not frozen from catalog: %+v", capturedItems[1])
	}
	if !tx.committed {
		t.Error("expected transaction to be committed")
	}
}

func TestCreateOrder_ReturningCustomerPaysFee(t *testing.T) {
	productID := uuid.New()
	store := defaultStore(productID)
	var countedPhone string
	store.countOrdersByPhoneFn = func(ctx context.Context, phone string) (int64, error) {
		countedPhone = phone
		return 1, nil
	}

	svc, _ := newTestService(store)
	req := basicReq(productID.String(), 3)
	req.CustomerPhone = "+91 90000 00001"

	result, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if countedPhone != "919000000001" {
		t.Errorf("previous orders looked up by %q, want normalized phone", countedPhone)
	}
	if result.Order.Subtotal != 210 || result.Order.DeliveryFee != 20 || result.Order.TotalAmount != 230 {
		t.Errorf("totals: got %d/%d/%d, want 210/20/230",
			result.Order.Subtotal, result.Order.DeliveryFee, result.Order.TotalAmount)
	}
}

func TestCreateOrder_BelowThresholdPaysFee(t *testing.T) {
	productID := uuid.New()
	svc, _ := newTestService(defaultStore(productID))

	result, err := svc.CreateOrder(context.Background(), basicReq(productID.String(), 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Quote != (pricing.Quote{Subtotal: 140, DeliveryFee: 20, Total: 160}) {
		t.Errorf("quote: got %+v", result.Quote)
	}
}

func TestCreateOrder_ClientTotalsIgnored(t *testing.T) {
	productID := uuid.New()
	svc, _ := newTestService(defaultStore(productID))

	req := basicReq(productID.String(), 1)
	bogus := int64(1)
	req.ClientSubtotal = &bogus
	req.ClientTotal = &bogus

	result, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Order.TotalAmount != 90 {
		t.Errorf("total: got %d, want 90 from catalog prices", result.Order.TotalAmount)
	}
}

func TestCreateOrder_CODPaymentStatus(t *testing.T) {
	productID := uuid.New()
	svc, _ := newTestService(defaultStore(productID))

	req := basicReq(productID.String(), 1)
	req.PaymentMethod = "COD"

	result, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Order.PaymentMethod != enum.PaymentMethodCOD || result.Order.PaymentStatus != enum.PaymentStatusCOD {
		t.Errorf("payment: got %q/%q", result.Order.PaymentMethod, result.Order.PaymentStatus)
	}
}

func TestCreateOrder_DefaultsToOnline(t *testing.T) {
	productID := uuid.New()
	svc, _ := newTestService(defaultStore(productID))

	req := basicReq(productID.String(), 1)
	req.PaymentMethod = ""

	result, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Order.PaymentMethod != enum.PaymentMethodOnline {
		t.Errorf("paymentMethod: got %q, want online", result.Order.PaymentMethod)
	}
}

// =====================
// Failure handling
// =====================

func TestCreateOrder_BeginError(t *testing.T) {
	productID := uuid.New()
	store := defaultStore(productID)
	pool := &mockTxBeginner{err: errors.New("pool closed")}
	svc := NewOrderService(pool, func(db database.DBTX) OrderStore { return store }, testPolicy)

	_, err := svc.CreateOrder(context.Background(), basicReq(productID.String(), 1))
	if err == nil || !strings.Contains(err.Error(), "begin tx") {
		t.Fatalf("expected begin tx error, got: %v", err)
	}
}

func TestCreateOrder_ItemInsertFailureNotCommitted(t *testing.T) {
	productID := uuid.New()
	store := defaultStore(productID)
	store.createOrderItemFn = func(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
		return database.OrderItem{}, errors.New("disk full")
	}

	svc, tx := newTestService(store)
	_, err := svc.CreateOrder(context.Background(), basicReq(productID.String(), 1))
	if err == nil || !strings.Contains(err.Error(), "create order item") {
		t.Fatalf("expected create order item error, got: %v", err)
	}
	if tx.committed {
		t.Error("transaction must not commit when an item insert fails")
	}
}

func TestCreateOrder_CommitError(t *testing.T) {
	productID := uuid.New()
	svc, tx := newTestService(defaultStore(productID))
	tx.commitErr = errors.New("serialization failure")

	_, err := svc.CreateOrder(context.Background(), basicReq(productID.String(), 1))
	if err == nil || !strings.Contains(err.Error(), "commit tx") {
		t.Fatalf("expected commit tx error, got: %v", err)
	}
}

// =====================
// Quote tests
// =====================

func TestQuote_DoesNotWrite(t *testing.T) {
	productID := uuid.New()
	store := defaultStore(productID)
	store.createOrderFn = func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
		t.Fatal("Quote must not create orders")
		return database.Order{}, nil
	}

	svc, tx := newTestService(store)
	result, err := svc.Quote(context.Background(), QuoteRequest{
		CustomerPhone: "9000000001",
		Items:         []CreateOrderItemRequest{{ProductID: productID.String(), Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Quote.Total != 210 || !result.Quote.FreeDelivery || result.HasPreviousOrders {
		t.Errorf("quote: got %+v hasPrevious=%v", result.Quote, result.HasPreviousOrders)
	}
	if len(result.Lines) != 1 || result.Lines[0].Name != "Premium Idly Batter" {
		t.Errorf("lines: got %+v", result.Lines)
	}
	if tx.committed {
		t.Error("Quote must not commit")
	}
}

func TestQuote_RequiresPhone(t *testing.T) {
	svc, _ := newTestService(defaultStore(uuid.New()))

	_, err := svc.Quote(context.Background(), QuoteRequest{
		Items: []CreateOrderItemRequest{{ProductID: uuid.New().String(), Quantity: 1}},
	})
	if !errors.Is(err, ErrMissingPhone) {
		t.Fatalf("expected ErrMissingPhone, got: %v", err)
	}
}
