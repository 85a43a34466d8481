package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/digimarket/backend/internal/domain"
)

type productRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       *float64  `json:"price"`
	Stock       *int      `json:"stock"`
	CategoryID  uuid.UUID `json:"category_id"`
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CategoryID  string    `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type productListResponse struct {
	Products    []productResponse `json:"products"`
	Total       int               `json:"total"`
	Pages       int               `json:"pages"`
	CurrentPage int               `json:"current_page"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.Amount.InexactFloat64(),
		Stock:       p.Stock,
		CategoryID:  p.CategoryID.String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := domain.ProductFilter{
		NamePattern: r.URL.Query().Get("q"),
	}

	if raw := r.URL.Query().Get("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		filter.CategoryID = &categoryID
	}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filter.Page = n
		}
	}
	if raw := r.URL.Query().Get("per_page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filter.PerPage = n
		}
	}
	filter = filter.Normalize()

	products, total, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	responses := make([]productResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toProductResponse(p))
	}

	pages := (total + filter.PerPage - 1) / filter.PerPage

	writeJSON(w, http.StatusOK, productListResponse{
		Products:    responses,
		Total:       total,
		Pages:       pages,
		CurrentPage: filter.Page,
	})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Name == "" || req.Price == nil || req.Stock == nil || req.CategoryID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "name, price, stock and category_id are required")
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), caller, domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       domain.Money{Amount: decimal.NewFromFloat(*req.Price), Currency: domain.DefaultCurrency},
		Stock:       *req.Stock,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	// partial update: absent fields keep their current value
	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = domain.Money{Amount: decimal.NewFromFloat(*req.Price), Currency: product.Price.Currency}
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.CategoryID != uuid.Nil {
		product.CategoryID = req.CategoryID
	}

	updated, err := h.catalog.UpdateProduct(r.Context(), caller, product)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(updated))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), caller, productID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "product deleted"})
}
