package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/cache"
	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

type PostgresDivisionRepository struct {
	db    *sql.DB
	cache cache.Store
}

func NewPostgresDivisionRepository(db *sql.DB, cache cache.Store) *PostgresDivisionRepository {
	return &PostgresDivisionRepository{db: db, cache: cache}
}

func (r *PostgresDivisionRepository) Create(d models.CustomerDivision) (models.CustomerDivision, error) {
	query := `INSERT INTO customer_divisions (uuid, customer_uuid, name, code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	d.UUID = uuid.New()
	d.CreatedAt = time.Now().UTC()
	d.UpdatedAt = d.CreatedAt

	if _, err := r.db.ExecContext(ctx, query, d.UUID, d.CustomerUUID, d.Name, d.Code, d.CreatedAt, d.UpdatedAt); err != nil {
		return models.CustomerDivision{}, err
	}

	r.invalidate(ctx, d.CustomerUUID)
	return d, nil
}

func (r *PostgresDivisionRepository) GetByUUID(id uuid.UUID) (models.CustomerDivision, error) {
	query := `SELECT uuid, customer_uuid, name, code, created_at, updated_at
		FROM customer_divisions WHERE uuid = $1 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var d models.CustomerDivision
	err := r.db.QueryRowContext(ctx, query, id).Scan(&d.UUID, &d.CustomerUUID, &d.Name, &d.Code, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CustomerDivision{}, ErrDivisionNotFound
	}
	return d, err
}

func (r *PostgresDivisionRepository) GetByCustomer(customerUUID uuid.UUID) ([]models.CustomerDivision, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	key := cache.KeyDivisionsByCustomer(customerUUID)
	var divisions []models.CustomerDivision
	if ok, err := r.cache.Get(ctx, key, &divisions); err == nil && ok {
		return divisions, nil
	}

	query := `SELECT uuid, customer_uuid, name, code, created_at, updated_at
		FROM customer_divisions WHERE customer_uuid = $1 AND removed = FALSE ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, customerUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d models.CustomerDivision
		if err := rows.Scan(&d.UUID, &d.CustomerUUID, &d.Name, &d.Code, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		divisions = append(divisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, key, divisions, cache.DefaultTTL)
	return divisions, nil
}

func (r *PostgresDivisionRepository) Update(d models.CustomerDivision) (models.CustomerDivision, error) {
	query := `UPDATE customer_divisions SET name = $1, code = $2, updated_at = $3
		WHERE uuid = $4 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	d.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, d.Name, d.Code, d.UpdatedAt, d.UUID)
	if err != nil {
		return models.CustomerDivision{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.CustomerDivision{}, ErrDivisionNotFound
	}

	r.invalidate(ctx, d.CustomerUUID)
	return d, nil
}

func (r *PostgresDivisionRepository) Delete(id uuid.UUID) error {
	d, err := r.GetByUUID(id)
	if err != nil {
		return err
	}

	query := `UPDATE customer_divisions SET removed = TRUE, updated_at = $1 WHERE uuid = $2 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id); err != nil {
		return err
	}

	r.invalidate(ctx, d.CustomerUUID)
	return nil
}

func (r *PostgresDivisionRepository) invalidate(ctx context.Context, customerUUID uuid.UUID) {
	_ = r.cache.Delete(ctx, cache.KeyDivisionsByCustomer(customerUUID), cache.KeyCustomerFormOptions)
}
