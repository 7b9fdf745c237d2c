package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	models "github.com/fabbrica-mes/backoffice/internal/models"
	repo "github.com/fabbrica-mes/backoffice/internal/repo"
)

// CreateArticleHandler godoc
// @Summary Create a new article
// @Tags articles
// @Accept json
// @Produce json
// @Param article body ArticleRequest true "Article to add"
// @Success 201 {object} models.Article
// @Failure 400 {object} map[string]string
// @Failure 404 {string} string "Offer not found"
// @Router /articles [post]
func CreateArticleHandler(w http.ResponseWriter, r *http.Request) {
	var req ArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateArticle(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	if _, err := offerRepo.GetByUUID(req.OfferUUID); err != nil {
		if errors.Is(err, repo.ErrOfferNotFound) {
			http.Error(w, "offer not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch offer", http.StatusInternalServerError)
		return
	}

	created, err := articleRepo.Create(models.Article{
		OfferUUID:         req.OfferUUID,
		Code:              req.Code,
		EANCode:           req.EANCode,
		Description:       req.Description,
		UnitPrice:         req.UnitPrice,
		Quantity:          req.Quantity,
		PiecesPerPackage:  req.PiecesPerPackage,
		PackagesPerPallet: req.PackagesPerPallet,
		DeliveryDate:      req.DeliveryDate,
	})
	if err != nil {
		http.Error(w, "could not create article", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// FilterArticlesHandler godoc
// @Summary Filter and paginate articles
// @Tags articles
// @Produce json
// @Param search query string false "Search in code and description"
// @Param offer query string false "Filter by offer UUID"
// @Param sort query string false "Sort field"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ArticlesSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /articles [get]
func FilterArticlesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repo.ArticleFilter{
		Search:    q.Get("search"),
		OfferUUID: parseUUIDPtr(q.Get("offer")),
		Sort:      q.Get("sort"),
		Offset:    parseIntPtr(q.Get("offset")),
		Limit:     parseIntPtr(q.Get("limit")),
	}
	if !validatePagination(w, filter.Offset, filter.Limit) {
		return
	}

	articles, total, err := articleRepo.Filter(filter)
	if err != nil {
		http.Error(w, "could not filter articles", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ArticlesSearchResult{Data: articles, Meta: Meta{TotalCount: total}})
}

// GetArticleByUUIDHandler godoc
// @Summary Get article by UUID
// @Tags articles
// @Produce json
// @Param uuid path string true "Article UUID"
// @Success 200 {object} models.Article
// @Failure 400 {string} string "Invalid UUID"
// @Failure 404 {string} string "Not found"
// @Router /articles/{uuid} [get]
func GetArticleByUUIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid article UUID", http.StatusBadRequest)
		return
	}

	article, err := articleRepo.GetByUUID(id)
	if err != nil {
		if errors.Is(err, repo.ErrArticleNotFound) {
			http.Error(w, "article not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch article", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, article)
}

// GetArticlesByOfferHandler godoc
// @Summary List an offer's articles
// @Tags offers
// @Produce json
// @Param uuid path string true "Offer UUID"
// @Success 200 {array} models.Article
// @Failure 400 {string} string "Invalid UUID"
// @Failure 500 {string} string "Internal error"
// @Router /offers/{uuid}/articles [get]
func GetArticlesByOfferHandler(w http.ResponseWriter, r *http.Request) {
	offerUUID, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid offer UUID", http.StatusBadRequest)
		return
	}

	articles, err := articleRepo.GetByOffer(offerUUID)
	if err != nil {
		http.Error(w, "could not fetch articles", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, articles)
}

// UpdateArticleHandler godoc
// @Summary Update an article
// @Tags articles
// @Accept json
// @Produce json
// @Param uuid path string true "Article UUID"
// @Param article body ArticleRequest true "Article data"
// @Success 200 {object} models.Article
// @Failure 400 {object} map[string]string
// @Failure 404 {string} string "Not found"
// @Router /articles/{uuid} [put]
func UpdateArticleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid article UUID", http.StatusBadRequest)
		return
	}

	var req ArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateArticle(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	existing, err := articleRepo.GetByUUID(id)
	if err != nil {
		if errors.Is(err, repo.ErrArticleNotFound) {
			http.Error(w, "article not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch article", http.StatusInternalServerError)
		return
	}

	existing.Code = req.Code
	existing.EANCode = req.EANCode
	existing.Description = req.Description
	existing.UnitPrice = req.UnitPrice
	existing.Quantity = req.Quantity
	existing.PiecesPerPackage = req.PiecesPerPackage
	existing.PackagesPerPallet = req.PackagesPerPallet
	existing.DeliveryDate = req.DeliveryDate

	updated, err := articleRepo.Update(existing)
	if err != nil {
		http.Error(w, "could not update article", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteArticleHandler godoc
// @Summary Delete an article
// @Tags articles
// @Param uuid path string true "Article UUID"
// @Success 204 "No Content"
// @Failure 400 {string} string "Invalid UUID"
// @Failure 404 {string} string "Not found"
// @Router /articles/{uuid} [delete]
func DeleteArticleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r)
	if err != nil {
		http.Error(w, "invalid article UUID", http.StatusBadRequest)
		return
	}

	if err := articleRepo.Delete(id); err != nil {
		if errors.Is(err, repo.ErrArticleNotFound) {
			http.Error(w, "article not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete article", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetArticlesForSelectHandler godoc
// @Summary List articles as uuid/label pairs for dropdowns
// @Tags articles
// @Produce json
// @Success 200 {array} repo.SelectOption
// @Failure 500 {string} string "Internal error"
// @Router /articles/select [get]
func GetArticlesForSelectHandler(w http.ResponseWriter, r *http.Request) {
	options, err := articleRepo.GetForSelect()
	if err != nil {
		http.Error(w, "could not fetch articles", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, options)
}
