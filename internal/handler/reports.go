package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/vamshi335235/priya-Traders-project/internal/database"
	"github.com/vamshi335235/priya-Traders-project/internal/export"
)

// ReportsStore defines the database methods needed by report handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReportsStore interface {
	GetOrderSummary(ctx context.Context) (database.GetOrderSummaryRow, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
}

// Report periods offered by the admin dashboard.
const (
	PeriodToday   = "Today"
	PeriodWeekly  = "Weekly"
	PeriodMonthly = "Monthly"
	PeriodAll     = "All"
)

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	store ReportsStore
	biz   Business
	now   func() time.Time
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(store ReportsStore, biz Business) *ReportsHandler {
	if biz.Location == nil {
		biz.Location = time.UTC
	}
	return &ReportsHandler{store: store, biz: biz, now: time.Now}
}

// RegisterRoutes registers report endpoints.
// Expected to be mounted at /api/reports
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.Summary)
	r.Get("/sales", h.Sales)
}

// --- Response types ---

type summaryResponse struct {
	TotalOrders       int64  `json:"totalOrders"`
	PendingOrders     int64  `json:"pendingOrders"`
	ProcessingOrders  int64  `json:"processingOrders"`
	DeliveredOrders   int64  `json:"deliveredOrders"`
	TotalRevenue      int64  `json:"totalRevenue"`
	AverageOrderValue string `json:"averageOrderValue"`
}

type salesRowResponse struct {
	ID            uuid.UUID `json:"_id"`
	CreatedAt     time.Time `json:"createdAt"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	PaymentMethod string    `json:"paymentMethod"`
	PaymentRef    *string   `json:"paymentRef"`
	Payment       string    `json:"payment"`
	TotalAmount   int64     `json:"totalAmount"`
	Status        string    `json:"status"`
}

type salesResponse struct {
	Period            string             `json:"period"`
	Since             *time.Time         `json:"since"`
	TotalOrders       int                `json:"totalOrders"`
	TotalRevenue      int64              `json:"totalRevenue"`
	AverageOrderValue string             `json:"averageOrderValue"`
	Orders            []salesRowResponse `json:"orders"`
}

// --- Handlers ---

// Summary handles GET /api/reports/summary.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	row, err := h.store.GetOrderSummary(r.Context())
	if err != nil {
		writeInternal(w, "order summary", err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		TotalOrders:       row.TotalOrders,
		PendingOrders:     row.PendingOrders,
		ProcessingOrders:  row.ProcessingOrders,
		DeliveredOrders:   row.DeliveredOrders,
		TotalRevenue:      row.TotalRevenue,
		AverageOrderValue: average(row.TotalRevenue, row.TotalOrders),
	})
}

// Sales handles GET /api/reports/sales?period=Today|Weekly|Monthly|All.
// format=pdf returns the printable report instead of JSON.
func (h *ReportsHandler) Sales(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = PeriodAll
	}
	now := h.now().In(h.biz.Location)
	since, ok := periodStart(period, now)
	if !ok {
		writeError(w, http.StatusBadRequest, "period must be one of Today, Weekly, Monthly, All")
		return
	}

	params := database.ListOrdersParams{}
	if !since.IsZero() {
		params.Since = pgtype.Timestamptz{Time: since, Valid: true}
	}
	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		writeInternal(w, "sales report", err)
		return
	}

	var revenue int64
	rows := make([]salesRowResponse, len(orders))
	for i, o := range orders {
		revenue += o.TotalAmount
		rows[i] = salesRowResponse{
			ID:            o.ID,
			CreatedAt:     o.CreatedAt,
			CustomerName:  o.CustomerName,
			CustomerPhone: o.CustomerPhone,
			PaymentMethod: o.PaymentMethod,
			Payment:       export.PaymentLabel(o.PaymentMethod, o.PaymentRef.String),
			TotalAmount:   o.TotalAmount,
			Status:        o.Status,
		}
		if o.PaymentRef.Valid {
			rows[i].PaymentRef = &o.PaymentRef.String
		}
	}
	avg := average(revenue, int64(len(orders)))

	if strings.EqualFold(r.URL.Query().Get("format"), "pdf") {
		h.writeSalesPDF(w, period, now, orders, revenue, avg)
		return
	}

	resp := salesResponse{
		Period:            period,
		TotalOrders:       len(orders),
		TotalRevenue:      revenue,
		AverageOrderValue: avg,
		Orders:            rows,
	}
	if !since.IsZero() {
		resp.Since = &since
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ReportsHandler) writeSalesPDF(w http.ResponseWriter, period string, now time.Time, orders []database.Order, revenue int64, avg string) {
	rows := make([]export.ReportRow, len(orders))
	for i, o := range orders {
		rows[i] = export.ReportRow{
			Date:          o.CreatedAt.In(h.biz.Location),
			Customer:      o.CustomerName,
			Phone:         o.CustomerPhone,
			PaymentMethod: o.PaymentMethod,
			PaymentRef:    o.PaymentRef.String,
			Amount:        o.TotalAmount,
			Status:        o.Status,
		}
	}

	var buf bytes.Buffer
	err := export.SalesReport(&buf, export.ReportData{
		BusinessName: h.biz.Links.BusinessName,
		Period:       period,
		GeneratedAt:  now,
		TotalOrders:  len(orders),
		Revenue:      revenue,
		Average:      avg,
		Rows:         rows,
	})
	if err != nil {
		writeInternal(w, "render sales report", err)
		return
	}

	writePDF(w, fmt.Sprintf("sales-report-%s-%s.pdf", strings.ToLower(period), now.Format("2006-01-02")), buf.Bytes())
}

// --- Helpers ---

// periodStart returns the inclusive lower bound for period in now's
// location. The zero time means unbounded.
func periodStart(period string, now time.Time) (time.Time, bool) {
	switch period {
	case PeriodToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case PeriodWeekly:
		return now.AddDate(0, 0, -7), true
	case PeriodMonthly:
		return now.AddDate(0, -1, 0), true
	case PeriodAll:
		return time.Time{}, true
	}
	return time.Time{}, false
}

func average(total, count int64) string {
	if count == 0 {
		return decimal.Zero.StringFixed(2)
	}
	return decimal.NewFromInt(total).Div(decimal.NewFromInt(count)).StringFixed(2)
}
