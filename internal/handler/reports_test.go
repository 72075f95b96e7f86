package handler_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/vamshi335235/priya-Traders-project/internal/database"
	"github.com/vamshi335235/priya-Traders-project/internal/enum"
	"github.com/vamshi335235/priya-Traders-project/internal/handler"
)

// --- Mock ReportsStore ---

type mockReportsStore struct {
	summaryFn    func(ctx context.Context) (database.GetOrderSummaryRow, error)
	listOrdersFn func(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
}

func (m *mockReportsStore) GetOrderSummary(ctx context.Context) (database.GetOrderSummaryRow, error) {
	return m.summaryFn(ctx)
}

func (m *mockReportsStore) ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
	if m.listOrdersFn != nil {
		return m.listOrdersFn(ctx, arg)
	}
	return []database.Order{}, nil
}

func setupReportsRouter(store *mockReportsStore) *chi.Mux {
	h := handler.NewReportsHandler(store, testBusiness)
	r := chi.NewRouter()
	r.Route("/api/reports", h.RegisterRoutes)
	return r
}

func salesOrders() []database.Order {
	at := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	return []database.Order{
		{ID: uuid.New(), CustomerName: "Asha", CustomerPhone: "919000000001", TotalAmount: 230,
			PaymentMethod: enum.PaymentMethodOnline, PaymentRef: pgtype.Text{String: "UTR1", Valid: true},
			Status: enum.OrderStatusDelivered, CreatedAt: at},
		{ID: uuid.New(), CustomerName: "Ravi", CustomerPhone: "919000000002", TotalAmount: 160,
			PaymentMethod: enum.PaymentMethodCOD, Status: enum.OrderStatusPacked, CreatedAt: at},
		{ID: uuid.New(), CustomerName: "Meena", CustomerPhone: "919000000003", TotalAmount: 210,
			PaymentMethod: enum.PaymentMethodOnline, Status: enum.OrderStatusPending, CreatedAt: at},
	}
}

// =====================
// Summary
// =====================

func TestReportsSummary(t *testing.T) {
	store := &mockReportsStore{
		summaryFn: func(ctx context.Context) (database.GetOrderSummaryRow, error) {
			return database.GetOrderSummaryRow{
				TotalOrders: 3, PendingOrders: 1, ProcessingOrders: 1, DeliveredOrders: 1, TotalRevenue: 600,
			}, nil
		},
	}
	router := setupReportsRouter(store)

	rr := doRequest(t, router, "GET", "/api/reports/summary", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	resp := decodeMap(t, rr)
	if resp["totalOrders"] != float64(3) || resp["processingOrders"] != float64(1) || resp["totalRevenue"] != float64(600) {
		t.Errorf("unexpected summary: %v", resp)
	}
	if resp["averageOrderValue"] != "200.00" {
		t.Errorf("averageOrderValue: got %v", resp["averageOrderValue"])
	}
}

func TestReportsSummary_NoOrders(t *testing.T) {
	store := &mockReportsStore{
		summaryFn: func(ctx context.Context) (database.GetOrderSummaryRow, error) {
			return database.GetOrderSummaryRow{}, nil
		},
	}
	rr := doRequest(t, setupReportsRouter(store), "GET", "/api/reports/summary", nil)
	if resp := decodeMap(t, rr); resp["averageOrderValue"] != "0.00" {
		t.Errorf("averageOrderValue: got %v", resp["averageOrderValue"])
	}
}

func TestReportsSummary_StoreError(t *testing.T) {
	store := &mockReportsStore{
		summaryFn: func(ctx context.Context) (database.GetOrderSummaryRow, error) {
			return database.GetOrderSummaryRow{}, errors.New("db down")
		},
	}
	rr := doRequest(t, setupReportsRouter(store), "GET", "/api/reports/summary", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rr.Code)
	}
}

// =====================
// Sales
// =====================

func TestReportsSales_Totals(t *testing.T) {
	store := &mockReportsStore{
		listOrdersFn: func(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
			return salesOrders(), nil
		},
	}
	rr := doRequest(t, setupReportsRouter(store), "GET", "/api/reports/sales?period=All", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	resp := decodeMap(t, rr)
	if resp["totalOrders"] != float64(3) || resp["totalRevenue"] != float64(600) || resp["averageOrderValue"] != "200.00" {
		t.Errorf("unexpected totals: %v", resp)
	}
	if resp["since"] != nil {
		t.Errorf("All must be unbounded, got since=%v", resp["since"])
	}

	orders := resp["orders"].([]interface{})
	if len(orders) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(orders))
	}
	wantPayment := []string{"UPI (Ref: UTR1)", "COD", "UPI"}
	for i, o := range orders {
		if got := o.(map[string]interface{})["payment"]; got != wantPayment[i] {
			t.Errorf("row %d payment: got %v, want %s", i, got, wantPayment[i])
		}
	}
}

func TestReportsSales_PeriodBounds(t *testing.T) {
	tests := []struct {
		period  string
		bounded bool
	}{
		{"", false},
		{"All", false},
		{"Today", true},
		{"Weekly", true},
		{"Monthly", true},
	}
	for _, tt := range tests {
		t.Run("period="+tt.period, func(t *testing.T) {
			var got database.ListOrdersParams
			store := &mockReportsStore{
				listOrdersFn: func(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
					got = arg
					return []database.Order{}, nil
				},
			}
			rr := doRequest(t, setupReportsRouter(store), "GET", "/api/reports/sales?period="+tt.period, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("status: got %d", rr.Code)
			}
			if got.Since.Valid != tt.bounded {
				t.Errorf("since bounded: got %v, want %v", got.Since.Valid, tt.bounded)
			}
			if tt.bounded && got.Since.Time.After(time.Now()) {
				t.Errorf("since in the future: %v", got.Since.Time)
			}
			if got.Status.Valid || got.Search.Valid {
				t.Errorf("sales must not filter by status or search: %+v", got)
			}
		})
	}
}

func TestReportsSales_InvalidPeriod(t *testing.T) {
	store := &mockReportsStore{}
	rr := doRequest(t, setupReportsRouter(store), "GET", "/api/reports/sales?period=Yearly", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

func TestReportsSales_PDF(t *testing.T) {
	store := &mockReportsStore{
		listOrdersFn: func(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
			return salesOrders(), nil
		},
	}
	rr := doRequest(t, setupReportsRouter(store), "GET", "/api/reports/sales?period=Monthly&format=pdf", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type: got %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "sales-report-monthly-") {
		t.Errorf("content disposition: got %q", cd)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}
}
