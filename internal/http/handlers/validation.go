package handlers

import (
	"strings"

	"github.com/google/uuid"

	models "github.com/fabbrica-mes/backoffice/internal/models"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateCustomer(c CustomerRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(c.CompanyName) == "" {
		errs = append(errs, ValidationError{Field: "CompanyName", Description: "Company name is required"})
	}
	if strings.TrimSpace(c.VATNumber) == "" {
		errs = append(errs, ValidationError{Field: "VATNumber", Description: "VAT number is required"})
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		errs = append(errs, ValidationError{Field: "Email", Description: "Email is not valid"})
	}
	return errs
}

func validateDivision(d DivisionRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, ValidationError{Field: "Name", Description: "Name is required"})
	}
	return errs
}

func validateShippingAddress(a ShippingAddressRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(a.Street) == "" {
		errs = append(errs, ValidationError{Field: "Street", Description: "Street is required"})
	}
	if strings.TrimSpace(a.City) == "" {
		errs = append(errs, ValidationError{Field: "City", Description: "City is required"})
	}
	return errs
}

func validateOffer(o OfferRequest) []ValidationError {
	errs := []ValidationError{}
	if o.CustomerUUID == uuid.Nil {
		errs = append(errs, ValidationError{Field: "CustomerUUID", Description: "Customer is required"})
	}
	if strings.TrimSpace(o.Number) == "" {
		errs = append(errs, ValidationError{Field: "Number", Description: "Number is required"})
	}
	switch models.OfferStatus(o.Status) {
	case "", models.OfferDraft, models.OfferSent, models.OfferAccepted, models.OfferFulfilled, models.OfferRejected:
	default:
		errs = append(errs, ValidationError{Field: "Status", Description: "Status is not valid"})
	}
	if o.Amount.IsNegative() {
		errs = append(errs, ValidationError{Field: "Amount", Description: "Amount cannot be negative"})
	}
	return errs
}

func validateArticle(a ArticleRequest) []ValidationError {
	errs := []ValidationError{}
	if a.OfferUUID == uuid.Nil {
		errs = append(errs, ValidationError{Field: "OfferUUID", Description: "Offer is required"})
	}
	if strings.TrimSpace(a.Code) == "" {
		errs = append(errs, ValidationError{Field: "Code", Description: "Code is required"})
	}
	if a.Quantity <= 0 {
		errs = append(errs, ValidationError{Field: "Quantity", Description: "Quantity must be greater than zero"})
	}
	if a.PiecesPerPackage < 0 {
		errs = append(errs, ValidationError{Field: "PiecesPerPackage", Description: "Pieces per package cannot be negative"})
	}
	if a.PackagesPerPallet < 0 {
		errs = append(errs, ValidationError{Field: "PackagesPerPallet", Description: "Packages per pallet cannot be negative"})
	}
	if a.UnitPrice.IsNegative() {
		errs = append(errs, ValidationError{Field: "UnitPrice", Description: "Unit price cannot be negative"})
	}
	return errs
}

func validateEmployee(e EmployeeRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(e.MatriculationNumber) == "" {
		errs = append(errs, ValidationError{Field: "MatriculationNumber", Description: "Matriculation number is required"})
	}
	if strings.TrimSpace(e.FirstName) == "" {
		errs = append(errs, ValidationError{Field: "FirstName", Description: "First name is required"})
	}
	if strings.TrimSpace(e.LastName) == "" {
		errs = append(errs, ValidationError{Field: "LastName", Description: "Last name is required"})
	}
	if len(e.Password) < 8 {
		errs = append(errs, ValidationError{Field: "Password", Description: "Password must be at least 8 characters"})
	}
	return errs
}
