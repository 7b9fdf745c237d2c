package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	models "github.com/fabbrica-mes/backoffice/internal/models"
	repo "github.com/fabbrica-mes/backoffice/internal/repo"
)

// CreateEmployeeHandler godoc
// @Summary Create a new employee
// @Tags employees
// @Accept json
// @Produce json
// @Param employee body EmployeeRequest true "Employee to add"
// @Success 201 {object} models.Employee
// @Failure 400 {object} map[string]string
// @Failure 409 {string} string "Duplicated matriculation or EAN code"
// @Router /employees [post]
func CreateEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateEmployee(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "could not create employee", http.StatusInternalServerError)
		return
	}

	created, err := employeeRepo.Create(models.Employee{
		MatriculationNumber: req.MatriculationNumber,
		EANCode:             req.EANCode,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		PasswordHash:        string(hash),
		Active:              req.Active,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "could not create employee: matriculation number or EAN code duplicated", http.StatusConflict)
			return
		}
		http.Error(w, "could not create employee", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// FilterEmployeesHandler godoc
// @Summary Filter and paginate employees
// @Tags employees
// @Produce json
// @Param search query string false "Search in name and matriculation number"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} EmployeesSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /employees [get]
func FilterEmployeesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repo.EmployeeFilter{
		Search: q.Get("search"),
		Offset: parseIntPtr(q.Get("offset")),
		Limit:  parseIntPtr(q.Get("limit")),
	}
	if !validatePagination(w, filter.Offset, filter.Limit) {
		return
	}

	employees, total, err := employeeRepo.Filter(filter)
	if err != nil {
		http.Error(w, "could not filter employees", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, EmployeesSearchResult{Data: employees, Meta: Meta{TotalCount: total}})
}

// GetEmployeeByUUIDHandler godoc
// @Summary Get employee by UUID
// @Tags employees
// @Produce json
// @Param uuid path string true "Employee UUID"
// @Success 200 {object} models.Employee
// @Failure 400 {string} string "Invalid UUID"
// @Failure 404 {string} string "Not found"
// @Router /employees/{uuid} [get]
func GetEmployeeByUUIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid employee UUID", http.StatusBadRequest)
		return
	}

	employee, err := employeeRepo.GetByUUID(id)
	if err != nil {
		if errors.Is(err, repo.ErrEmployeeNotFound) {
			http.Error(w, "employee not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch employee", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, employee)
}

// UpdateEmployeeHandler godoc
// @Summary Update an employee
// @Description Updates the employee's data; the password only changes when a new one is supplied.
// @Tags employees
// @Accept json
// @Produce json
// @Param uuid path string true "Employee UUID"
// @Param employee body EmployeeRequest true "Employee data"
// @Success 200 {object} models.Employee
// @Failure 400 {object} map[string]string
// @Failure 404 {string} string "Not found"
// @Router /employees/{uuid} [put]
func UpdateEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid employee UUID", http.StatusBadRequest)
		return
	}

	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	existing, err := employeeRepo.GetByUUID(id)
	if err != nil {
		if errors.Is(err, repo.ErrEmployeeNotFound) {
			http.Error(w, "employee not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch employee", http.StatusInternalServerError)
		return
	}

	existing.MatriculationNumber = req.MatriculationNumber
	existing.EANCode = req.EANCode
	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	existing.Active = req.Active
	if req.Password != "" {
		if len(req.Password) < 8 {
			http.Error(w, "password must be at least 8 characters", http.StatusBadRequest)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "could not update employee", http.StatusInternalServerError)
			return
		}
		existing.PasswordHash = string(hash)
	}

	updated, err := employeeRepo.Update(existing)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "could not update employee: matriculation number or EAN code duplicated", http.StatusConflict)
			return
		}
		http.Error(w, "could not update employee", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteEmployeeHandler godoc
// @Summary Delete an employee
// @Tags employees
// @Param uuid path string true "Employee UUID"
// @Success 204 "No Content"
// @Failure 400 {string} string "Invalid UUID"
// @Failure 404 {string} string "Not found"
// @Router /employees/{uuid} [delete]
func DeleteEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid employee UUID", http.StatusBadRequest)
		return
	}

	if err := employeeRepo.Delete(id); err != nil {
		if errors.Is(err, repo.ErrEmployeeNotFound) {
			http.Error(w, "employee not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete employee", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
