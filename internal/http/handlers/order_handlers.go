package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	models "github.com/fabbrica-mes/backoffice/internal/models"
	repo "github.com/fabbrica-mes/backoffice/internal/repo"
)

// FilterOrdersHandler godoc
// @Summary Filter and paginate production orders
// @Tags orders
// @Produce json
// @Param search query string false "Search in production number"
// @Param status query string false "Comma-separated status values (e.g. 2,3,4)"
// @Param customer query string false "Filter by customer UUID"
// @Param from query string false "Created-at lower bound (RFC 3339 or YYYY-MM-DD)"
// @Param to query string false "Created-at upper bound (RFC 3339 or YYYY-MM-DD)"
// @Param sort query string false "Sort field"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} OrdersSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /orders [get]
func FilterOrdersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var statuses []models.OrderStatus
	for _, v := range parseStatuses(q.Get("status")) {
		statuses = append(statuses, models.OrderStatus(v))
	}

	filter := repo.OrderFilter{
		Search:       q.Get("search"),
		Statuses:     statuses,
		CustomerUUID: parseUUIDPtr(q.Get("customer")),
		From:         parseTimePtr(q.Get("from")),
		To:           parseTimePtr(q.Get("to")),
		Sort:         q.Get("sort"),
		Offset:       parseIntPtr(q.Get("offset")),
		Limit:        parseIntPtr(q.Get("limit")),
	}
	if !validatePagination(w, filter.Offset, filter.Limit) {
		return
	}

	orders, total, err := orderRepo.Filter(filter)
	if err != nil {
		http.Error(w, "could not filter orders", http.StatusInternalServerError)
		return
	}

	resp := OrdersSearchResult{
		Data: make([]OrderResponse, len(orders)),
		Meta: Meta{TotalCount: total},
	}
	for i, o := range orders {
		resp.Data[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetOrderByUUIDHandler godoc
// @Summary Get order by UUID
// @Tags orders
// @Produce json
// @Param uuid path string true "Order UUID"
// @Success 200 {object} OrderResponse
// @Failure 400 {string} string "Invalid UUID"
// @Failure 404 {string} string "Not found"
// @Router /orders/{uuid} [get]
func GetOrderByUUIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid order UUID", http.StatusBadRequest)
		return
	}

	order, err := orderRepo.GetByUUID(id)
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch order", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// UpdateOrderHandler godoc
// @Summary Update an order's contracted quantity and delivery date
// @Tags orders
// @Accept json
// @Produce json
// @Param uuid path string true "Order UUID"
// @Param order body OrderRequest true "Order data"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {string} string "Not found"
// @Router /orders/{uuid} [put]
func UpdateOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid order UUID", http.StatusBadRequest)
		return
	}

	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		http.Error(w, "quantity must be greater than zero", http.StatusBadRequest)
		return
	}

	existing, err := orderRepo.GetByUUID(id)
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch order", http.StatusInternalServerError)
		return
	}
	if req.Quantity < existing.WorkedQuantity {
		http.Error(w, "quantity cannot be below the worked quantity", http.StatusBadRequest)
		return
	}

	existing.Quantity = req.Quantity
	if !req.DeliveryDate.IsZero() {
		existing.DeliveryDate = req.DeliveryDate
	}

	updated, err := orderRepo.Update(existing)
	if err != nil {
		http.Error(w, "could not update order", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

// DeleteOrderHandler godoc
// @Summary Delete an order
// @Tags orders
// @Param uuid path string true "Order UUID"
// @Success 204 "No Content"
// @Failure 400 {string} string "Invalid UUID"
// @Failure 404 {string} string "Not found"
// @Router /orders/{uuid} [delete]
func DeleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid order UUID", http.StatusBadRequest)
		return
	}

	if err := orderRepo.Delete(id); err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete order", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
