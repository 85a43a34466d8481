package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/digimarket/backend/internal/domain"
)

type createOrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type createOrderRequest struct {
	Items              []createOrderItem `json:"items"`
	ShippingAddress    string            `json:"shipping_address"`
	ShippingCity       string            `json:"shipping_city"`
	ShippingPostalCode string            `json:"shipping_postal_code"`
	ShippingCountry    string            `json:"shipping_country"`
}

type orderItemResponse struct {
	ProductID    string  `json:"product_id"`
	Quantity     int     `json:"quantity"`
	PriceAtOrder float64 `json:"price_at_order"`
}

type orderResponse struct {
	ID                 string              `json:"id"`
	UserID             string              `json:"user_id"`
	OrderDate          time.Time           `json:"order_date"`
	TotalAmount        float64             `json:"total_amount"`
	Status             string              `json:"status"`
	ShippingAddress    string              `json:"shipping_address"`
	ShippingCity       string              `json:"shipping_city"`
	ShippingPostalCode string              `json:"shipping_postal_code"`
	ShippingCountry    string              `json:"shipping_country"`
	Items              []orderItemResponse `json:"items"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID:    item.ProductID.String(),
			Quantity:     item.Quantity,
			PriceAtOrder: item.PriceAtOrder.Amount.InexactFloat64(),
		})
	}

	return orderResponse{
		ID:                 order.ID.String(),
		UserID:             order.OwnerID.String(),
		OrderDate:          order.CreatedAt,
		TotalAmount:        order.Total.Amount.InexactFloat64(),
		Status:             string(order.Status),
		ShippingAddress:    order.Shipping.Address,
		ShippingCity:       order.Shipping.City,
		ShippingPostalCode: order.Shipping.PostalCode,
		ShippingCountry:    order.Shipping.Country,
		Items:              items,
	}
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	lines := make([]domain.OrderLineRequest, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, domain.OrderLineRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	shipping := domain.ShippingInfo{
		Address:    req.ShippingAddress,
		City:       req.ShippingCity,
		PostalCode: req.ShippingPostalCode,
		Country:    req.ShippingCountry,
	}

	order, err := h.orders.Create(r.Context(), caller, shipping, lines)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{
		Message: "order created",
		OrderID: order.ID.String(),
	})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orders, err := h.orders.List(r.Context(), caller)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	responses := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}

	writeJSON(w, http.StatusOK, responses)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}

	order, err := h.orders.Get(r.Context(), caller, orderID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) GetOrderItems(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}

	items, err := h.orders.ListItems(r.Context(), caller, orderID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	responses := make([]orderItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, orderItemResponse{
			ProductID:    item.ProductID.String(),
			Quantity:     item.Quantity,
			PriceAtOrder: item.PriceAtOrder.Amount.InexactFloat64(),
		})
	}

	writeJSON(w, http.StatusOK, responses)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	status, err := domain.ToOrderStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), caller, orderID, status)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}

	if err := h.orders.Delete(r.Context(), caller, orderID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "order deleted"})
}
