package repo

import (
	"sort"
	"strings"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

type InMemoryArticleRepository struct {
	articles []models.Article
}

func NewInMemoryArticleRepository() *InMemoryArticleRepository {
	return &InMemoryArticleRepository{}
}

func (r *InMemoryArticleRepository) Create(a models.Article) (models.Article, error) {
	a.UUID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	r.articles = append(r.articles, a)
	return a, nil
}

func (r *InMemoryArticleRepository) GetByUUID(id uuid.UUID) (models.Article, error) {
	for _, a := range r.articles {
		if a.UUID == id && !a.Removed {
			return a, nil
		}
	}
	return models.Article{}, ErrArticleNotFound
}

func (r *InMemoryArticleRepository) GetByOffer(offerUUID uuid.UUID) ([]models.Article, error) {
	var out []models.Article
	for _, a := range r.articles {
		if a.OfferUUID == offerUUID && !a.Removed {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *InMemoryArticleRepository) Update(a models.Article) (models.Article, error) {
	for i, existing := range r.articles {
		if existing.UUID == a.UUID && !existing.Removed {
			a.CreatedAt = existing.CreatedAt
			a.UpdatedAt = time.Now().UTC()
			r.articles[i] = a
			return a, nil
		}
	}
	return models.Article{}, ErrArticleNotFound
}

func (r *InMemoryArticleRepository) Delete(id uuid.UUID) error {
	for i, a := range r.articles {
		if a.UUID == id && !a.Removed {
			r.articles[i].Removed = true
			return nil
		}
	}
	return ErrArticleNotFound
}

func (r *InMemoryArticleRepository) Filter(f ArticleFilter) ([]models.Article, int, error) {
	var filtered []models.Article
	for _, a := range r.articles {
		if a.Removed {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(a.Code), needle) &&
				!strings.Contains(strings.ToLower(a.EANCode), needle) &&
				!strings.Contains(strings.ToLower(a.Description), needle) {
				continue
			}
		}
		if f.OfferUUID != nil && a.OfferUUID != *f.OfferUUID {
			continue
		}
		filtered = append(filtered, a)
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Code < filtered[j].Code })

	return paginate(filtered, f.Offset, f.Limit), len(filtered), nil
}

func (r *InMemoryArticleRepository) GetForSelect() ([]SelectOption, error) {
	var options []SelectOption
	for _, a := range r.articles {
		if !a.Removed {
			options = append(options, SelectOption{UUID: a.UUID, Label: a.Code})
		}
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Label < options[j].Label })
	return options, nil
}

func (r *InMemoryArticleRepository) Clear() {
	r.articles = nil
}

func (r *InMemoryArticleRepository) all() []models.Article {
	return r.articles
}
