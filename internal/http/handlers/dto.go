package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	models "github.com/fabbrica-mes/backoffice/internal/models"
)

type CustomerRequest struct {
	CompanyName string `json:"company_name"`
	VATNumber   string `json:"vat_number"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Street      string `json:"street"`
	City        string `json:"city"`
	ZipCode     string `json:"zip_code"`
	Province    string `json:"province"`
	Country     string `json:"country"`
}

type DivisionRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type ShippingAddressRequest struct {
	DivisionUUID *uuid.UUID `json:"division_uuid,omitempty"`
	Label        string     `json:"label"`
	Street       string     `json:"street"`
	City         string     `json:"city"`
	ZipCode      string     `json:"zip_code"`
	Province     string     `json:"province"`
	Country      string     `json:"country"`
}

type OfferRequest struct {
	CustomerUUID uuid.UUID       `json:"customer_uuid"`
	DivisionUUID *uuid.UUID      `json:"division_uuid,omitempty"`
	Number       string          `json:"number"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	OfferDate    time.Time       `json:"offer_date"`
}

type ArticleRequest struct {
	OfferUUID         uuid.UUID       `json:"offer_uuid"`
	Code              string          `json:"code"`
	EANCode           string          `json:"ean_code"`
	Description       string          `json:"description"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Quantity          int             `json:"quantity"`
	PiecesPerPackage  int             `json:"pieces_per_package"`
	PackagesPerPallet int             `json:"packages_per_pallet"`
	DeliveryDate      time.Time       `json:"delivery_date"`
}

type OrderRequest struct {
	Quantity     int       `json:"quantity"`
	DeliveryDate time.Time `json:"delivery_date"`
}

type EmployeeRequest struct {
	MatriculationNumber string `json:"matriculation_number"`
	EANCode             string `json:"ean_code"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Password            string `json:"password"`
	Active              bool   `json:"active"`
}

// OrderResponse adds the derived fields the back-office lists display.
type OrderResponse struct {
	models.Order
	StatusLabel       string `json:"status_label"`
	RemainingQuantity int    `json:"remaining_quantity"`
}

func toOrderResponse(o models.Order) OrderResponse {
	return OrderResponse{
		Order:             o,
		StatusLabel:       o.Status.Label(),
		RemainingQuantity: o.RemainingQuantity(),
	}
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type CustomersSearchResult struct {
	Data []models.Customer `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type OffersSearchResult struct {
	Data []models.Offer `json:"data"`
	Meta Meta           `json:"meta,omitempty"`
}

type ArticlesSearchResult struct {
	Data []models.Article `json:"data"`
	Meta Meta             `json:"meta,omitempty"`
}

type OrdersSearchResult struct {
	Data []OrderResponse `json:"data"`
	Meta Meta            `json:"meta,omitempty"`
}

type EmployeesSearchResult struct {
	Data []models.Employee `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

// PortalLoginRequest carries either credentials or a pair of scanned codes.
type PortalLoginRequest struct {
	MatriculationNumber string `json:"matriculation_number,omitempty"`
	Password            string `json:"password,omitempty"`
	EmployeeCode        string `json:"employee_code,omitempty"`
	OrderCode           string `json:"order_code,omitempty"`
}

type PortalQuantityRequest struct {
	Quantity int `json:"quantity"`
}
