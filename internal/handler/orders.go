package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/vamshi335235/priya-Traders-project/internal/database"
	"github.com/vamshi335235/priya-Traders-project/internal/deeplink"
	"github.com/vamshi335235/priya-Traders-project/internal/enum"
	"github.com/vamshi335235/priya-Traders-project/internal/export"
	"github.com/vamshi335235/priya-Traders-project/internal/service"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
	Quote(ctx context.Context, req service.QuoteRequest) (*service.QuoteResult, error)
}

// OrderStore defines the database methods needed by order read/update handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListOrderItemsByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]database.OrderItem, error)
	CountOrdersByPhone(ctx context.Context, customerPhone string) (int64, error)
	UpdateOrder(ctx context.Context, arg database.UpdateOrderParams) (database.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (int64, error)
}

// Business is the storefront identity printed on invoices and reports.
type Business struct {
	Links    deeplink.Builder
	Email    string
	Location *time.Location
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc    OrderServicer
	store  OrderStore
	biz    Business
	events Broadcaster
}

// NewOrderHandler creates a new OrderHandler. events may be nil.
func NewOrderHandler(svc OrderServicer, store OrderStore, biz Business, events Broadcaster) *OrderHandler {
	if biz.Location == nil {
		biz.Location = time.UTC
	}
	return &OrderHandler{svc: svc, store: store, biz: biz, events: events}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /api/orders
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Post("/quote", h.Quote)
	r.Get("/check/{phone}", h.CheckPrevious)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Post("/{id}/advance", h.Advance)
	r.Post("/{id}/payment", h.ConfirmPayment)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/links", h.Links)
	r.Get("/{id}/invoice", h.Invoice)
}

// --- Request / Response types ---

type createOrderItemRequest struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
	Price     *int64 `json:"price"`
}

type createOrderRequest struct {
	CustomerName    string                   `json:"customerName"`
	CustomerPhone   string                   `json:"customerPhone"`
	DeliveryAddress string                   `json:"deliveryAddress"`
	PaymentMethod   string                   `json:"paymentMethod"`
	Items           []createOrderItemRequest `json:"items"`
	Subtotal        *int64                   `json:"subtotal"`
	DeliveryFee     *int64                   `json:"deliveryFee"`
	TotalAmount     *int64                   `json:"totalAmount"`
}

type quoteRequest struct {
	CustomerPhone string                   `json:"customerPhone"`
	Items         []createOrderItemRequest `json:"items"`
}

// updateOrderRequest is the whole set of fields an admin may overwrite.
type updateOrderRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"paymentStatus"`
	PaymentRef    *string `json:"paymentRef"`
}

type confirmPaymentRequest struct {
	PaymentRef string `json:"paymentRef"`
}

type orderItemResponse struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Quantity  int32     `json:"quantity"`
	Price     int64     `json:"price"`
}

type orderResponse struct {
	ID              uuid.UUID           `json:"_id"`
	CustomerName    string              `json:"customerName"`
	CustomerPhone   string              `json:"customerPhone"`
	DeliveryAddress string              `json:"deliveryAddress"`
	Items           []orderItemResponse `json:"items"`
	Subtotal        int64               `json:"subtotal"`
	DeliveryFee     int64               `json:"deliveryFee"`
	TotalAmount     int64               `json:"totalAmount"`
	PaymentMethod   string              `json:"paymentMethod"`
	PaymentStatus   string              `json:"paymentStatus"`
	PaymentRef      *string             `json:"paymentRef"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type orderLinksResponse struct {
	WhatsApp string `json:"whatsapp"`
	UPI      string `json:"upi,omitempty"`
}

type createOrderResponse struct {
	orderResponse
	FreeDelivery bool               `json:"freeDelivery"`
	Links        orderLinksResponse `json:"links"`
}

type updateOrderResponse struct {
	orderResponse
	NotifyURL string `json:"notifyUrl,omitempty"`
}

type quoteLineResponse struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Quantity  int32     `json:"quantity"`
	Price     int64     `json:"price"`
}

type quoteResponse struct {
	Subtotal              int64               `json:"subtotal"`
	DeliveryFee           int64               `json:"deliveryFee"`
	TotalAmount           int64               `json:"totalAmount"`
	FreeDelivery          bool                `json:"freeDelivery"`
	HasPreviousOrders     bool                `json:"hasPreviousOrders"`
	FreeDeliveryThreshold int64               `json:"freeDeliveryThreshold"`
	Items                 []quoteLineResponse `json:"items"`
}

type linksResponse struct {
	WhatsAppOrder  string `json:"whatsappOrder"`
	WhatsAppStatus string `json:"whatsappStatus,omitempty"`
	UPI            string `json:"upi,omitempty"`
}

// --- Handlers ---

// Create handles POST /api/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		CustomerName:      req.CustomerName,
		CustomerPhone:     req.CustomerPhone,
		DeliveryAddress:   req.DeliveryAddress,
		PaymentMethod:     req.PaymentMethod,
		Items:             toServiceItems(req.Items),
		ClientSubtotal:    req.Subtotal,
		ClientDeliveryFee: req.DeliveryFee,
		ClientTotal:       req.TotalAmount,
	})
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeInternal(w, "create order", err)
		return
	}

	resp := createOrderResponse{
		orderResponse: toOrderResponse(result.Order, result.Items),
		FreeDelivery:  result.Quote.FreeDelivery,
		Links: orderLinksResponse{
			WhatsApp: h.biz.Links.OrderLink(result.Order, result.Items),
		},
	}
	if upi, ok := h.biz.Links.UPI(result.Order); ok {
		resp.Links.UPI = upi
	}

	publish(h.events, "order.created", resp.orderResponse)
	writeJSON(w, http.StatusCreated, resp)
}

// Quote handles POST /api/orders/quote.
func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Quote(r.Context(), service.QuoteRequest{
		CustomerPhone: req.CustomerPhone,
		Items:         toServiceItems(req.Items),
	})
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeInternal(w, "quote order", err)
		return
	}

	lines := make([]quoteLineResponse, len(result.Lines))
	for i, l := range result.Lines {
		lines[i] = quoteLineResponse{ProductID: l.ProductID, Name: l.Name, Quantity: l.Quantity, Price: l.Price}
	}
	writeJSON(w, http.StatusOK, quoteResponse{
		Subtotal:              result.Quote.Subtotal,
		DeliveryFee:           result.Quote.DeliveryFee,
		TotalAmount:           result.Quote.Total,
		FreeDelivery:          result.Quote.FreeDelivery,
		HasPreviousOrders:     result.HasPreviousOrders,
		FreeDeliveryThreshold: result.Threshold,
		Items:                 lines,
	})
}

// List handles GET /api/orders. Newest first; ?status= (or "All") and ?q=
// narrow the list.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	params := database.ListOrdersParams{}

	if s := r.URL.Query().Get("status"); s != "" && s != "All" {
		if !service.IsValidStatus(s) {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		params.Status = pgtype.Text{String: s, Valid: true}
	}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		params.Search = pgtype.Text{String: q, Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		writeInternal(w, "list orders", err)
		return
	}

	resp := make([]orderResponse, len(orders))
	if len(orders) == 0 {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	items, err := h.store.ListOrderItemsByOrders(r.Context(), ids)
	if err != nil {
		writeInternal(w, "list order items", err)
		return
	}
	byOrder := make(map[uuid.UUID][]database.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	for i, o := range orders {
		resp[i] = toOrderResponse(o, byOrder[o.ID])
	}
	writeJSON(w, http.StatusOK, resp)
}

// CheckPrevious handles GET /api/orders/check/{phone}.
func (h *OrderHandler) CheckPrevious(w http.ResponseWriter, r *http.Request) {
	phone, err := service.NormalizePhone(chi.URLParam(r, "phone"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.store.CountOrdersByPhone(r.Context(), phone)
	if err != nil {
		writeInternal(w, "check previous orders", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"hasPreviousOrders": n > 0})
}

// Get handles GET /api/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, items, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order, items))
}

// Update handles PATCH /api/orders/{id}. Only status, paymentStatus and
// paymentRef may change.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req updateOrderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: only status, paymentStatus and paymentRef can be updated")
		return
	}
	if req.Status == nil && req.PaymentStatus == nil && req.PaymentRef == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	params := database.UpdateOrderParams{ID: id}
	if req.Status != nil {
		if !service.IsValidStatus(*req.Status) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", *req.Status))
			return
		}
		params.Status = pgtype.Text{String: *req.Status, Valid: true}
	}
	if req.PaymentStatus != nil {
		if !service.IsValidPaymentStatus(*req.PaymentStatus) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid paymentStatus %q", *req.PaymentStatus))
			return
		}
		params.PaymentStatus = pgtype.Text{String: *req.PaymentStatus, Valid: true}
	}
	if req.PaymentRef != nil {
		params.PaymentRef = pgtype.Text{String: strings.TrimSpace(*req.PaymentRef), Valid: true}
	}

	updated, err := h.store.UpdateOrder(r.Context(), params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternal(w, "update order", err)
		return
	}

	h.respondUpdated(w, r, updated, req.Status != nil)
}

// Advance handles POST /api/orders/{id}/advance: one step along the
// fulfilment flow, rejected if someone else moved the order first.
func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	current, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternal(w, "get order", err)
		return
	}

	next, err := service.NextStatus(current.Status)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	updated, err := h.store.UpdateOrder(r.Context(), database.UpdateOrderParams{
		ID:             id,
		Status:         pgtype.Text{String: next, Valid: true},
		ExpectedStatus: pgtype.Text{String: current.Status, Valid: true},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusConflict, "order was changed concurrently, reload and retry")
			return
		}
		writeInternal(w, "advance order", err)
		return
	}

	h.respondUpdated(w, r, updated, true)
}

// ConfirmPayment handles POST /api/orders/{id}/payment.
func (h *OrderHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	// The body is optional.
	var req confirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := database.UpdateOrderParams{
		ID:            id,
		PaymentStatus: pgtype.Text{String: enum.PaymentStatusPaid, Valid: true},
	}
	if ref := strings.TrimSpace(req.PaymentRef); ref != "" {
		params.PaymentRef = pgtype.Text{String: ref, Valid: true}
	}

	updated, err := h.store.UpdateOrder(r.Context(), params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternal(w, "confirm payment", err)
		return
	}

	h.respondUpdated(w, r, updated, false)
}

// Delete handles DELETE /api/orders/{id}. Deleting a missing order succeeds.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	n, err := h.store.DeleteOrder(r.Context(), id)
	if err != nil {
		writeInternal(w, "delete order", err)
		return
	}
	if n > 0 {
		publish(h.events, "order.deleted", map[string]uuid.UUID{"_id": id})
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Order deleted successfully"})
}

// Links handles GET /api/orders/{id}/links.
func (h *OrderHandler) Links(w http.ResponseWriter, r *http.Request) {
	order, items, ok := h.loadOrder(w, r)
	if !ok {
		return
	}

	resp := linksResponse{WhatsAppOrder: h.biz.Links.OrderLink(order, items)}
	if link, ok := h.biz.Links.StatusLink(order); ok {
		resp.WhatsAppStatus = link
	}
	if upi, ok := h.biz.Links.UPI(order); ok {
		resp.UPI = upi
	}
	writeJSON(w, http.StatusOK, resp)
}

// Invoice handles GET /api/orders/{id}/invoice and returns a PDF.
func (h *OrderHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	order, items, ok := h.loadOrder(w, r)
	if !ok {
		return
	}

	lines := make([]export.InvoiceItem, len(items))
	for i, item := range items {
		lines[i] = export.InvoiceItem{Name: item.Name, Quantity: item.Quantity, Price: item.Price}
	}
	ref := deeplink.ShortID(order)

	var buf bytes.Buffer
	err := export.Invoice(&buf, export.InvoiceData{
		BusinessName:    h.biz.Links.BusinessName,
		BusinessPhone:   h.biz.Links.BusinessPhone,
		BusinessEmail:   h.biz.Email,
		Reference:       ref,
		PlacedAt:        order.CreatedAt.In(h.biz.Location),
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		DeliveryAddress: order.DeliveryAddress,
		Status:          order.Status,
		PaymentMethod:   order.PaymentMethod,
		PaymentStatus:   order.PaymentStatus,
		PaymentRef:      order.PaymentRef.String,
		Items:           lines,
		Subtotal:        order.Subtotal,
		DeliveryFee:     order.DeliveryFee,
		Total:           order.TotalAmount,
	})
	if err != nil {
		writeInternal(w, "render invoice", err)
		return
	}

	writePDF(w, fmt.Sprintf("invoice-%s.pdf", ref), buf.Bytes())
}

// --- Helpers ---

// loadOrder resolves {id} to the order and its items, writing the error
// response itself when it returns false.
func (h *OrderHandler) loadOrder(w http.ResponseWriter, r *http.Request) (database.Order, []database.OrderItem, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return database.Order{}, nil, false
	}

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return database.Order{}, nil, false
		}
		writeInternal(w, "get order", err)
		return database.Order{}, nil, false
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), id)
	if err != nil {
		writeInternal(w, "list order items", err)
		return database.Order{}, nil, false
	}
	return order, items, true
}

func (h *OrderHandler) respondUpdated(w http.ResponseWriter, r *http.Request, order database.Order, statusChanged bool) {
	items, err := h.store.ListOrderItemsByOrder(r.Context(), order.ID)
	if err != nil {
		writeInternal(w, "list order items", err)
		return
	}

	resp := updateOrderResponse{orderResponse: toOrderResponse(order, items)}
	if statusChanged {
		if link, ok := h.biz.Links.StatusLink(order); ok {
			resp.NotifyURL = link
		}
	}

	publish(h.events, "order.updated", resp.orderResponse)
	writeJSON(w, http.StatusOK, resp)
}

func writePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

func toServiceItems(items []createOrderItemRequest) []service.CreateOrderItemRequest {
	out := make([]service.CreateOrderItemRequest, len(items))
	for i, item := range items {
		out[i] = service.CreateOrderItemRequest{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return out
}

// isValidationError checks if the error is a known validation error
// from the service layer that should result in 400 Bad Request.
func isValidationError(err error) bool {
	return errors.Is(err, service.ErrMissingName) ||
		errors.Is(err, service.ErrMissingPhone) ||
		errors.Is(err, service.ErrInvalidPhone) ||
		errors.Is(err, service.ErrMissingAddress) ||
		errors.Is(err, service.ErrEmptyItems) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrInvalidProductID) ||
		errors.Is(err, service.ErrProductNotFound) ||
		errors.Is(err, service.ErrProductOutOfStock) ||
		errors.Is(err, service.ErrInvalidPaymentMethod)
}

func toOrderResponse(o database.Order, items []database.OrderItem) orderResponse {
	resp := orderResponse{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		DeliveryAddress: o.DeliveryAddress,
		Items:           make([]orderItemResponse, len(items)),
		Subtotal:        o.Subtotal,
		DeliveryFee:     o.DeliveryFee,
		TotalAmount:     o.TotalAmount,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.PaymentRef.Valid {
		resp.PaymentRef = &o.PaymentRef.String
	}
	for i, item := range items {
		resp.Items[i] = orderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	return resp
}
