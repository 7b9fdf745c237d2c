package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/cache"
	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

const articleColumns = `uuid, offer_uuid, code, ean_code, description, unit_price, quantity, pieces_per_package, packages_per_pallet, delivery_date, created_at, updated_at`

type PostgresArticleRepository struct {
	db    *sql.DB
	cache cache.Store
}

func NewPostgresArticleRepository(db *sql.DB, cache cache.Store) *PostgresArticleRepository {
	return &PostgresArticleRepository{db: db, cache: cache}
}

func scanArticle(row interface{ Scan(...any) error }) (models.Article, error) {
	var a models.Article
	err := row.Scan(&a.UUID, &a.OfferUUID, &a.Code, &a.EANCode, &a.Description, &a.UnitPrice,
		&a.Quantity, &a.PiecesPerPackage, &a.PackagesPerPallet, &a.DeliveryDate, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *PostgresArticleRepository) Create(a models.Article) (models.Article, error) {
	query := `INSERT INTO articles (uuid, offer_uuid, code, ean_code, description, unit_price, quantity, pieces_per_package, packages_per_pallet, delivery_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	a.UUID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt

	_, err := r.db.ExecContext(ctx, query, a.UUID, a.OfferUUID, a.Code, a.EANCode, a.Description,
		a.UnitPrice, a.Quantity, a.PiecesPerPackage, a.PackagesPerPallet, a.DeliveryDate, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return models.Article{}, err
	}

	r.invalidate(ctx)
	return a, nil
}

func (r *PostgresArticleRepository) GetByUUID(id uuid.UUID) (models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE uuid = $1 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	a, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Article{}, ErrArticleNotFound
	}
	return a, err
}

func (r *PostgresArticleRepository) GetByOffer(offerUUID uuid.UUID) ([]models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE offer_uuid = $1 AND removed = FALSE ORDER BY code`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, offerUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (r *PostgresArticleRepository) Update(a models.Article) (models.Article, error) {
	query := `UPDATE articles SET code = $1, ean_code = $2, description = $3, unit_price = $4,
		quantity = $5, pieces_per_package = $6, packages_per_pallet = $7, delivery_date = $8, updated_at = $9
		WHERE uuid = $10 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	a.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, a.Code, a.EANCode, a.Description, a.UnitPrice,
		a.Quantity, a.PiecesPerPackage, a.PackagesPerPallet, a.DeliveryDate, a.UpdatedAt, a.UUID)
	if err != nil {
		return models.Article{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Article{}, ErrArticleNotFound
	}

	r.invalidate(ctx)
	return a, nil
}

func (r *PostgresArticleRepository) Delete(id uuid.UUID) error {
	query := `UPDATE articles SET removed = TRUE, updated_at = $1 WHERE uuid = $2 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrArticleNotFound
	}

	r.invalidate(ctx)
	return nil
}

func (r *PostgresArticleRepository) Filter(f ArticleFilter) ([]models.Article, int, error) {
	conditions := ""
	args := []any{}
	argIdx := 1

	if f.Search != "" {
		conditions += fmt.Sprintf(" AND (code ILIKE $%d OR ean_code ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}
	if f.OfferUUID != nil {
		conditions += fmt.Sprintf(" AND offer_uuid = $%d", argIdx)
		args = append(args, *f.OfferUUID)
		argIdx++
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var totalCount int
	countQuery := `SELECT COUNT(*) FROM articles WHERE removed = FALSE` + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + articleColumns + ` FROM articles WHERE removed = FALSE` + conditions + ` ORDER BY code`

	if f.Limit != nil && *f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, *f.Limit)
		argIdx++
	}
	if f.Offset != nil && *f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, a)
	}
	return articles, totalCount, rows.Err()
}

func (r *PostgresArticleRepository) GetForSelect() ([]SelectOption, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var options []SelectOption
	if ok, err := r.cache.Get(ctx, cache.KeyArticlesSelect, &options); err == nil && ok {
		return options, nil
	}

	query := `SELECT uuid, code FROM articles WHERE removed = FALSE ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var o SelectOption
		if err := rows.Scan(&o.UUID, &o.Label); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, cache.KeyArticlesSelect, options, cache.DefaultTTL)
	return options, nil
}

func (r *PostgresArticleRepository) invalidate(ctx context.Context) {
	_ = r.cache.Delete(ctx, cache.KeyArticlesSelect)
}
