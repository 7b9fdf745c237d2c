package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	models "github.com/fabbrica-mes/backoffice/internal/models"
	repo "github.com/fabbrica-mes/backoffice/internal/repo"
)

// CreateOfferHandler godoc
// @Summary Create a new offer
// @Tags offers
// @Accept json
// @Produce json
// @Param offer body OfferRequest true "Offer to add"
// @Success 201 {object} models.Offer
// @Failure 400 {object} map[string]string
// @Router /offers [post]
func CreateOfferHandler(w http.ResponseWriter, r *http.Request) {
	var req OfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateOffer(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	status := models.OfferStatus(req.Status)
	if status == "" {
		status = models.OfferDraft
	}

	created, err := offerRepo.Create(models.Offer{
		CustomerUUID: req.CustomerUUID,
		DivisionUUID: req.DivisionUUID,
		Number:       req.Number,
		Description:  req.Description,
		Status:       status,
		Amount:       req.Amount,
		OfferDate:    req.OfferDate,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "could not create offer: number duplicated", http.StatusConflict)
			return
		}
		http.Error(w, "could not create offer", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// FilterOffersHandler godoc
// @Summary Filter and paginate offers
// @Tags offers
// @Produce json
// @Param search query string false "Search in number and description"
// @Param customer query string false "Filter by customer UUID"
// @Param status query string false "Filter by offer status"
// @Param sort query string false "Sort field"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} OffersSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /offers [get]
func FilterOffersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repo.OfferFilter{
		Search:       q.Get("search"),
		CustomerUUID: parseUUIDPtr(q.Get("customer")),
		Sort:         q.Get("sort"),
		Offset:       parseIntPtr(q.Get("offset")),
		Limit:        parseIntPtr(q.Get("limit")),
	}
	if s := q.Get("status"); s != "" {
		status := models.OfferStatus(s)
		filter.Status = &status
	}
	if !validatePagination(w, filter.Offset, filter.Limit) {
		return
	}

	offers, total, err := offerRepo.Filter(filter)
	if err != nil {
		http.Error(w, "could not filter offers", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, OffersSearchResult{Data: offers, Meta: Meta{TotalCount: total}})
}

// GetOfferByUUIDHandler godoc
// @Summary Get offer by UUID
// @Tags offers
// @Produce json
// @Param uuid path string true "Offer UUID"
// @Success 200 {object} models.Offer
// @Failure 400 {string} string "Invalid UUID"
// @Failure 404 {string} string "Not found"
// @Router /offers/{uuid} [get]
func GetOfferByUUIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid offer UUID", http.StatusBadRequest)
		return
	}

	offer, err := offerRepo.GetByUUID(id)
	if err != nil {
		if errors.Is(err, repo.ErrOfferNotFound) {
			http.Error(w, "offer not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch offer", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, offer)
}

// UpdateOfferHandler godoc
// @Summary Update an offer
// @Tags offers
// @Accept json
// @Produce json
// @Param uuid path string true "Offer UUID"
// @Param offer body OfferRequest true "Offer data"
// @Success 200 {object} models.Offer
// @Failure 400 {object} map[string]string
// @Failure 404 {string} string "Not found"
// @Router /offers/{uuid} [put]
func UpdateOfferHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid offer UUID", http.StatusBadRequest)
		return
	}

	var req OfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateOffer(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	existing, err := offerRepo.GetByUUID(id)
	if err != nil {
		if errors.Is(err, repo.ErrOfferNotFound) {
			http.Error(w, "offer not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch offer", http.StatusInternalServerError)
		return
	}

	existing.CustomerUUID = req.CustomerUUID
	existing.DivisionUUID = req.DivisionUUID
	existing.Number = req.Number
	existing.Description = req.Description
	if req.Status != "" {
		existing.Status = models.OfferStatus(req.Status)
	}
	existing.Amount = req.Amount
	existing.OfferDate = req.OfferDate

	updated, err := offerRepo.Update(existing)
	if err != nil {
		http.Error(w, "could not update offer", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteOfferHandler godoc
// @Summary Delete an offer
// @Tags offers
// @Param uuid path string true "Offer UUID"
// @Success 204 "No Content"
// @Failure 400 {string} string "Invalid UUID"
// @Failure 404 {string} string "Not found"
// @Router /offers/{uuid} [delete]
func DeleteOfferHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid offer UUID", http.StatusBadRequest)
		return
	}

	if err := offerRepo.Delete(id); err != nil {
		if errors.Is(err, repo.ErrOfferNotFound) {
			http.Error(w, "offer not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete offer", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetOffersForSelectHandler godoc
// @Summary List offers as uuid/label pairs for dropdowns
// @Tags offers
// @Produce json
// @Success 200 {array} repo.SelectOption
// @Failure 500 {string} string "Internal error"
// @Router /offers/select [get]
func GetOffersForSelectHandler(w http.ResponseWriter, r *http.Request) {
	options, err := offerRepo.GetForSelect()
	if err != nil {
		http.Error(w, "could not fetch offers", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// FulfillOfferHandler godoc
// @Summary Fulfill an offer
// @Description Marks the offer fulfilled and launches one production order per active article.
// @Tags offers
// @Produce json
// @Param uuid path string true "Offer UUID"
// @Success 201 {array} OrderResponse
// @Failure 400 {string} string "Invalid UUID"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Already fulfilled"
// @Router /offers/{uuid}/fulfill [post]
func FulfillOfferHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid offer UUID", http.StatusBadRequest)
		return
	}

	orders, err := offerRepo.Fulfill(id)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrOfferNotFound):
			http.Error(w, "offer not found", http.StatusNotFound)
		case errors.Is(err, repo.ErrOfferAlreadyFulfilled):
			http.Error(w, "offer already fulfilled", http.StatusConflict)
		default:
			http.Error(w, "could not fulfill offer", http.StatusInternalServerError)
		}
		return
	}

	resp := make([]OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusCreated, resp)
}
