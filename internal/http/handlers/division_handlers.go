package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	models "github.com/fabbrica-mes/backoffice/internal/models"
	repo "github.com/fabbrica-mes/backoffice/internal/repo"
)

// CreateDivisionHandler godoc
// @Summary Create a division under a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param uuid path string true "Customer UUID"
// @Param division body DivisionRequest true "Division to add"
// @Success 201 {object} models.CustomerDivision
// @Failure 400 {object} map[string]string
// @Failure 404 {string} string "Not found"
// @Router /customers/{uuid}/divisions [post]
func CreateDivisionHandler(w http.ResponseWriter, r *http.Request) {
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

	var req DivisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateDivision(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	created, err := divisionRepo.Create(models.CustomerDivision{
		CustomerUUID: customerUUID,
		Name:         req.Name,
		Code:         req.Code,
	})
	if err != nil {
		http.Error(w, "could not create division", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetDivisionsByCustomerHandler godoc
// @Summary List a customer's divisions
// @Tags customers
// @Produce json
// @Param uuid path string true "Customer UUID"
// @Success 200 {array} models.CustomerDivision
// @Failure 400 {string} string "Invalid UUID"
// @Failure 500 {string} string "Internal error"
// @Router /customers/{uuid}/divisions [get]
func GetDivisionsByCustomerHandler(w http.ResponseWriter, r *http.Request) {
	customerUUID, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid customer UUID", http.StatusBadRequest)
		return
	}

	divisions, err := divisionRepo.GetByCustomer(customerUUID)
	if err != nil {
		http.Error(w, "could not fetch divisions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, divisions)
}

// UpdateDivisionHandler godoc
// @Summary Update a division
// @Tags customers
// @Accept json
// @Produce json
// @Param uuid path string true "Division UUID"
// @Param division body DivisionRequest true "Division data"
// @Success 200 {object} models.CustomerDivision
// @Failure 400 {object} map[string]string
// @Failure 404 {string} string "Not found"
// @Router /divisions/{uuid} [put]
func UpdateDivisionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid division UUID", http.StatusBadRequest)
		return
	}

	var req DivisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateDivision(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	existing, err := divisionRepo.GetByUUID(id)
	if err != nil {
		if errors.Is(err, repo.ErrDivisionNotFound) {
			http.Error(w, "division not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch division", http.StatusInternalServerError)
		return
	}

	existing.Name = req.Name
	existing.Code = req.Code

	updated, err := divisionRepo.Update(existing)
	if err != nil {
		http.Error(w, "could not update division", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteDivisionHandler godoc
// @Summary Delete a division
// @Tags customers
// @Param uuid path string true "Division UUID"
// @Success 204 "No Content"
// @Failure 400 {string} string "Invalid UUID"
// @Failure 404 {string} string "Not found"
// @Router /divisions/{uuid} [delete]
func DeleteDivisionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid division UUID", http.StatusBadRequest)
		return
	}

	if err := divisionRepo.Delete(id); err != nil {
		if errors.Is(err, repo.ErrDivisionNotFound) {
			http.Error(w, "division not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete division", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
