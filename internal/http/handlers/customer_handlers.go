package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	models "github.com/fabbrica-mes/backoffice/internal/models"
	repo "github.com/fabbrica-mes/backoffice/internal/repo"
)

// CreateCustomerHandler godoc
// @Summary Create a new customer
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body CustomerRequest true "Customer to add"
// @Success 201 {object} models.Customer
// @Failure 400 {object} map[string]string
// @Router /customers [post]
func CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateCustomer(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	customer := models.Customer{
		CompanyName: req.CompanyName,
		VATNumber:   req.VATNumber,
		Email:       req.Email,
		Phone:       req.Phone,
		Street:      req.Street,
		City:        req.City,
		ZipCode:     req.ZipCode,
		Province:    req.Province,
		Country:     req.Country,
	}
	created, err := customerRepo.Create(customer)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "could not create customer: VAT number duplicated", http.StatusConflict)
			return
		}
		http.Error(w, "could not create customer", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// FilterCustomersHandler godoc
// @Summary Filter and paginate customers
// @Tags customers
// @Produce json
// @Param search query string false "Search in company name, VAT number and email"
// @Param sort query string false "Sort field"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} CustomersSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /customers [get]
func FilterCustomersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repo.CustomerFilter{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
		Offset: parseIntPtr(q.Get("offset")),
		Limit:  parseIntPtr(q.Get("limit")),
	}
	if !validatePagination(w, filter.Offset, filter.Limit) {
		return
	}

	customers, total, err := customerRepo.Filter(filter)
	if err != nil {
		http.Error(w, "could not filter customers", http.StatusInternalServerError)
		return
	}

	resp := CustomersSearchResult{Data: customers, Meta: Meta{TotalCount: total}}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// GetCustomerByUUIDHandler godoc
// @Summary Get customer by UUID
// @Tags customers
// @Produce json
// @Param uuid path string true "Customer UUID"
// @Success 200 {object} models.Customer
// @Failure 400 {string} string "Invalid UUID"
// @Failure 404 {string} string "Not found"
// @Router /customers/{uuid} [get]
func GetCustomerByUUIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid customer UUID", http.StatusBadRequest)
		return
	}

	customer, err := customerRepo.GetByUUID(id)
	if err != nil {
		if errors.Is(err, repo.ErrCustomerNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch customer", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

// UpdateCustomerHandler godoc
// @Summary Update a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param uuid path string true "Customer UUID"
// @Param customer body CustomerRequest true "Customer data"
// @Success 200 {object} models.Customer
// @Failure 400 {object} map[string]string
// @Failure 404 {string} string "Not found"
// @Router /customers/{uuid} [put]
func UpdateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid customer UUID", http.StatusBadRequest)
		return
	}

	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateCustomer(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	existing, err := customerRepo.GetByUUID(id)
	if err != nil {
		if errors.Is(err, repo.ErrCustomerNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch customer", http.StatusInternalServerError)
		return
	}

	existing.CompanyName = req.CompanyName
	existing.VATNumber = req.VATNumber
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.Street = req.Street
	existing.City = req.City
	existing.ZipCode = req.ZipCode
	existing.Province = req.Province
	existing.Country = req.Country

	updated, err := customerRepo.Update(existing)
	if err != nil {
		http.Error(w, "could not update customer", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteCustomerHandler godoc
// @Summary Delete a customer
// @Description Marks the customer as removed; its rows stay in the database but disappear from every listing.
// @Tags customers
// @Param uuid path string true "Customer UUID"
// @Success 204 "No Content"
// @Failure 400 {string} string "Invalid UUID"
// @Failure 404 {string} string "Not found"
// @Router /customers/{uuid} [delete]
func DeleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid customer UUID", http.StatusBadRequest)
		return
	}

	if err := customerRepo.Delete(id); err != nil {
		if errors.Is(err, repo.ErrCustomerNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete customer", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetCustomersForSelectHandler godoc
// @Summary List customers as uuid/label pairs for dropdowns
// @Tags customers
// @Produce json
// @Success 200 {array} repo.SelectOption
// @Failure 500 {string} string "Internal error"
// @Router /customers/select [get]
func GetCustomersForSelectHandler(w http.ResponseWriter, r *http.Request) {
	options, err := customerRepo.GetForSelect()
	if err != nil {
		http.Error(w, "could not fetch customers", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// GetCustomerFormOptionsHandler godoc
// @Summary Lookup lists for the customer forms
// @Tags customers
// @Produce json
// @Success 200 {object} repo.FormOptions
// @Failure 500 {string} string "Internal error"
// @Router /customers/form-options [get]
func GetCustomerFormOptionsHandler(w http.ResponseWriter, r *http.Request) {
	options, err := customerRepo.GetFormOptions()
	if err != nil {
		http.Error(w, "could not fetch form options", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, options)
}
