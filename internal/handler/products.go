package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vamshi335235/priya-Traders-project/internal/cache"
	"github.com/vamshi335235/priya-Traders-project/internal/database"
)

// ProductStore defines the database methods needed by product handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ProductStore interface {
	ListInStockProducts(ctx context.Context) ([]database.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (database.Product, error)
	UpdateProductStock(ctx context.Context, arg database.UpdateProductStockParams) (database.Product, error)
}

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	store ProductStore
	cache cache.Cache
	ttl   time.Duration
}

// NewProductHandler creates a new ProductHandler. c may be nil, which
// disables caching of the in-stock listing.
func NewProductHandler(store ProductStore, c cache.Cache, ttl time.Duration) *ProductHandler {
	return &ProductHandler{store: store, cache: c, ttl: ttl}
}

// RegisterRoutes registers catalog endpoints on the given Chi router.
// Expected to be mounted at /api/products
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/stock", h.UpdateStock)
}

// --- Request / Response types ---

type updateStockRequest struct {
	InStock *bool `json:"inStock"`
}

type productResponse struct {
	ID          uuid.UUID `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	Maker       string    `json:"maker"`
	InStock     bool      `json:"inStock"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toProductResponse(p database.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.ImageUrl,
		Category:    p.Category,
		Maker:       p.Maker,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
	}
}

func (h *ProductHandler) listKey() string {
	return h.cache.GenerateKey("products", "in-stock")
}

// --- Handlers ---

// List handles GET /api/products. Only in-stock products are returned.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		cached, err := h.cache.Get(ctx, h.listKey())
		if err != nil {
			log.Printf("WARN: product cache get: %v", err)
		} else if cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(cached)) //nolint:errcheck
			return
		}
	}

	products, err := h.store.ListInStockProducts(ctx)
	if err != nil {
		writeInternal(w, "list products", err)
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}

	if h.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := h.cache.Set(ctx, h.listKey(), data, h.ttl); err != nil {
				log.Printf("WARN: product cache set: %v", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeInternal(w, "get product", err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// UpdateStock handles PATCH /api/products/{id}/stock.
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req updateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InStock == nil {
		writeError(w, http.StatusBadRequest, "inStock is required")
		return
	}

	product, err := h.store.UpdateProductStock(r.Context(), database.UpdateProductStockParams{
		ID:      id,
		InStock: *req.InStock,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeInternal(w, "update product stock", err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Delete(r.Context(), h.listKey()); err != nil {
			log.Printf("WARN: product cache invalidate: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}
