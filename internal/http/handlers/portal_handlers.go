package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fabbrica-mes/backoffice/internal/cache"
	mw "github.com/fabbrica-mes/backoffice/internal/http/middleware"
	"github.com/fabbrica-mes/backoffice/internal/portal"
)

// PortalAuthenticateHandler godoc
// @Summary Authenticate a production-floor employee
// @Description Accepts either matriculation number + password or a pair of scanned codes (employee badge EAN + order production number). Scanned-code sessions are bound to that order.
// @Tags portal
// @Accept json
// @Produce json
// @Param credentials body PortalLoginRequest true "Credentials or scanned codes"
// @Success 200 {object} portal.AuthResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {object} portal.AuthResult
// @Router /portal/authenticate [post]
func PortalAuthenticateHandler(w http.ResponseWriter, r *http.Request) {
	var req PortalLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	var result portal.AuthResult
	var err error
	switch {
	case req.MatriculationNumber != "" && req.Password != "":
		result, err = portalService.AuthenticateCredentials(req.MatriculationNumber, req.Password)
	case req.EmployeeCode != "" && req.OrderCode != "":
		result, err = portalService.AuthenticateCodes(req.EmployeeCode, req.OrderCode)
	default:
		http.Error(w, "either credentials or scanned codes are required", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "could not authenticate", http.StatusInternalServerError)
		return
	}
	if !result.OK {
		writeJSON(w, http.StatusUnauthorized, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// PortalDashboardHandler godoc
// @Summary Orders the session can work on
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Success 200 {array} OrderResponse
// @Failure 500 {string} string "Internal error"
// @Router /portal/dashboard [get]
func PortalDashboardHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := mw.GetSession(r)
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	orders, err := portalService.InFlightOrders(session)
	if err != nil {
		http.Error(w, "could not fetch orders", http.StatusInternalServerError)
		return
	}

	resp := make([]OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// PortalOrderHandler godoc
// @Summary Order detail for the portal
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Order UUID"
// @Success 200 {object} OrderResponse
// @Failure 400 {string} string "Invalid UUID"
// @Failure 403 {string} string "Session bound to another order"
// @Failure 404 {string} string "Not found"
// @Router /portal/orders/{uuid} [get]
func PortalOrderHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := mw.GetSession(r)
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid order UUID", http.StatusBadRequest)
		return
	}

	order, msg, err := portalService.GetOrder(session, id)
	if err != nil {
		http.Error(w, "could not fetch order", http.StatusInternalServerError)
		return
	}
	if msg == "order not found" {
		http.Error(w, msg, http.StatusNotFound)
		return
	}
	if msg != "" {
		http.Error(w, msg, http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// PortalAddPalletHandler godoc
// @Summary Record a full pallet against an order
// @Description Advances worked quantity by the article's pallet increment and returns the label print URL.
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Order UUID"
// @Success 200 {object} portal.ActionResult
// @Failure 400 {string} string "Invalid UUID"
// @Failure 422 {object} portal.ActionResult
// @Router /portal/orders/{uuid}/pallet [post]
func PortalAddPalletHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := mw.GetSession(r)
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid order UUID", http.StatusBadRequest)
		return
	}

	result, err := portalService.AddPalletQuantity(session, id)
	if err != nil {
		http.Error(w, "could not record pallet", http.StatusInternalServerError)
		return
	}
	if !result.OK {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// PortalAddQuantityHandler godoc
// @Summary Record an explicit worked quantity against an order
// @Tags portal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Order UUID"
// @Param quantity body PortalQuantityRequest true "Quantity to add"
// @Success 200 {object} portal.ActionResult
// @Failure 400 {string} string "Invalid input"
// @Failure 422 {object} portal.ActionResult
// @Router /portal/orders/{uuid}/quantity [post]
func PortalAddQuantityHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := mw.GetSession(r)
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid order UUID", http.StatusBadRequest)
		return
	}

	var req PortalQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		http.Error(w, "quantity must be greater than zero", http.StatusBadRequest)
		return
	}

	result, err := portalService.AddManualQuantity(session, id, req.Quantity)
	if err != nil {
		http.Error(w, "could not record quantity", http.StatusInternalServerError)
		return
	}
	if !result.OK {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// PortalSuspendHandler godoc
// @Summary Suspend an order
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Order UUID"
// @Success 200 {object} portal.ActionResult
// @Failure 400 {string} string "Invalid UUID"
// @Failure 422 {object} portal.ActionResult
// @Router /portal/orders/{uuid}/suspend [post]
func PortalSuspendHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := mw.GetSession(r)
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid order UUID", http.StatusBadRequest)
		return
	}

	result, err := portalService.SuspendOrder(session, id)
	if err != nil {
		http.Error(w, "could not suspend order", http.StatusInternalServerError)
		return
	}
	if !result.OK {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// PortalAutocontrolloHandler godoc
// @Summary Confirm the quality self-check on an order
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Order UUID"
// @Success 200 {object} portal.ActionResult
// @Failure 400 {string} string "Invalid UUID"
// @Failure 422 {object} portal.ActionResult
// @Router /portal/orders/{uuid}/autocontrollo [post]
func PortalAutocontrolloHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := mw.GetSession(r)
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid order UUID", http.StatusBadRequest)
		return
	}

	result, err := portalService.ConfirmAutocontrollo(session, id)
	if err != nil {
		http.Error(w, "could not confirm autocontrollo", http.StatusInternalServerError)
		return
	}
	if !result.OK {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// PortalLogoutHandler godoc
// @Summary End the portal session
// @Description Revokes the current token; it stops working immediately even though it has not expired.
// @Tags portal
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 500 {string} string "Internal error"
// @Router /portal/logout [post]
func PortalLogoutHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := mw.GetSession(r)
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	if cacheStore != nil && session.TokenID != "" {
		if err := cacheStore.Set(r.Context(), cache.KeyRevokedToken(session.TokenID), true, sessionTTL); err != nil {
			http.Error(w, "could not revoke session", http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
