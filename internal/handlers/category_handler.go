package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/digimarket/backend/internal/domain"
)

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type categoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toCategoryResponse(c domain.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
	}
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	responses := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, toCategoryResponse(c))
	}

	writeJSON(w, http.StatusOK, responses)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}

	category, err := h.catalog.GetCategory(r.Context(), categoryID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "category name is required")
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), caller, domain.Category{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	categoryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	category, err := h.catalog.GetCategory(r.Context(), categoryID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Description != "" {
		category.Description = req.Description
	}

	updated, err := h.catalog.UpdateCategory(r.Context(), caller, category)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCategoryResponse(updated))
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	categoryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}

	if err := h.catalog.DeleteCategory(r.Context(), caller, categoryID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "category deleted"})
}
