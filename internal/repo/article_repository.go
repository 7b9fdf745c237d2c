package repo

import (
	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

type ArticleRepository interface {
	Create(article models.Article) (models.Article, error)
	GetByUUID(id uuid.UUID) (models.Article, error)
	GetByOffer(offerUUID uuid.UUID) ([]models.Article, error)
	Update(article models.Article) (models.Article, error)
	Delete(id uuid.UUID) error
	Filter(f ArticleFilter) ([]models.Article, int, error)
	GetForSelect() ([]SelectOption, error)
}
