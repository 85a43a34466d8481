package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/digimarket/backend/internal/domain"
	"github.com/digimarket/backend/internal/service"
)

type Handler struct {
	auth    *service.AuthService
	catalog *service.CatalogService
	orders  *service.OrderService
	logger  *zap.Logger
}

func New(auth *service.AuthService, catalog *service.CatalogService, orders *service.OrderService, logger *zap.Logger) *Handler {
	return &Handler{
		auth:    auth,
		catalog: catalog,
		orders:  orders,
		logger:  logger,
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
	OrderID string `json:"order_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data) //nolint:errcheck // headers already sent
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeDomainError maps the service error taxonomy onto HTTP statuses.
// Anything unrecognized is a storage or programming failure: the mutation
// has already been rolled back, report 500 and log the cause.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var stockErr domain.InsufficientStockError

	switch {
	case errors.As(err, &stockErr):
		writeError(w, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "admin access required")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "resource already exists")
	default:
		h.logger.Error("internal failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
