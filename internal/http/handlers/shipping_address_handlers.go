package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	models "github.com/fabbrica-mes/backoffice/internal/models"
	repo "github.com/fabbrica-mes/backoffice/internal/repo"
)

// CreateShippingAddressHandler godoc
// @Summary Create a shipping address under a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param uuid path string true "Customer UUID"
// @Param address body ShippingAddressRequest true "Address to add"
// @Success 201 {object} models.CustomerShippingAddress
// @Failure 400 {object} map[string]string
// @Failure 404 {string} string "Not found"
// @Router /customers/{uuid}/shipping-addresses [post]
func CreateShippingAddressHandler(w http.ResponseWriter, r *http.Request) {
	customerUUID, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid customer UUID", http.StatusBadRequest)
		return
	}
	if _, err := customerRepo.GetByUUID(customerUUID); err != nil {
		if errors.Is(err, repo.ErrCustomerNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch customer", http.StatusInternalServerError)
		return
	}

	var req ShippingAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateShippingAddress(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	created, err := shippingAddressRepo.Create(models.CustomerShippingAddress{
		CustomerUUID: customerUUID,
		DivisionUUID: req.DivisionUUID,
		Label:        req.Label,
		Street:       req.Street,
		City:         req.City,
		ZipCode:      req.ZipCode,
		Province:     req.Province,
		Country:      req.Country,
	})
	if err != nil {
		http.Error(w, "could not create shipping address", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetShippingAddressesByCustomerHandler godoc
// @Summary List a customer's shipping addresses
// @Tags customers
// @Produce json
// @Param uuid path string true "Customer UUID"
// @Success 200 {array} models.CustomerShippingAddress
// @Failure 400 {string} string "Invalid UUID"
// @Failure 500 {string} string "Internal error"
// @Router /customers/{uuid}/shipping-addresses [get]
func GetShippingAddressesByCustomerHandler(w http.ResponseWriter, r *http.Request) {
	customerUUID, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid customer UUID", http.StatusBadRequest)
		return
	}

	addresses, err := shippingAddressRepo.GetByCustomer(customerUUID)
	if err != nil {
		http.Error(w, "could not fetch shipping addresses", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, addresses)
}

// UpdateShippingAddressHandler godoc
// @Summary Update a shipping address
// @Tags customers
// @Accept json
// @Produce json
// @Param uuid path string true "Shipping address UUID"
// @Param address body ShippingAddressRequest true "Address data"
// @Success 200 {object} models.CustomerShippingAddress
// @Failure 400 {object} map[string]string
// @Failure 404 {string} string "Not found"
// @Router /shipping-addresses/{uuid} [put]
func UpdateShippingAddressHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid shipping address UUID", http.StatusBadRequest)
		return
	}

	var req ShippingAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateShippingAddress(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	existing, err := shippingAddressRepo.GetByUUID(id)
	if err != nil {
		if errors.Is(err, repo.ErrShippingAddressNotFound) {
			http.Error(w, "shipping address not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch shipping address", http.StatusInternalServerError)
		return
	}

	existing.DivisionUUID = req.DivisionUUID
	existing.Label = req.Label
	existing.Street = req.Street
	existing.City = req.City
	existing.ZipCode = req.ZipCode
	existing.Province = req.Province
	existing.Country = req.Country

	updated, err := shippingAddressRepo.Update(existing)
	if err != nil {
		http.Error(w, "could not update shipping address", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteShippingAddressHandler godoc
// @Summary Delete a shipping address
// @Tags customers
// @Param uuid path string true "Shipping address UUID"
// @Success 204 "No Content"
// @Failure 400 {string} string "Invalid UUID"
// @Failure 404 {string} string "Not found"
// @Router /shipping-addresses/{uuid} [delete]
func DeleteShippingAddressHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid shipping address UUID", http.StatusBadRequest)
		return
	}

	if err := shippingAddressRepo.Delete(id); err != nil {
		if errors.Is(err, repo.ErrShippingAddressNotFound) {
			http.Error(w, "shipping address not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete shipping address", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
