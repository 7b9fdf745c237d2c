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

const shippingAddressColumns = `uuid, customer_uuid, division_uuid, label, street, city, zip_code, province, country, created_at, updated_at`

type PostgresShippingAddressRepository struct {
	db    *sql.DB
	cache cache.Store
}

func NewPostgresShippingAddressRepository(db *sql.DB, cache cache.Store) *PostgresShippingAddressRepository {
	return &PostgresShippingAddressRepository{db: db, cache: cache}
}

func scanShippingAddress(row interface{ Scan(...any) error }) (models.CustomerShippingAddress, error) {
	var a models.CustomerShippingAddress
	err := row.Scan(&a.UUID, &a.CustomerUUID, &a.DivisionUUID, &a.Label, &a.Street,
		&a.City, &a.ZipCode, &a.Province, &a.Country, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *PostgresShippingAddressRepository) Create(a models.CustomerShippingAddress) (models.CustomerShippingAddress, error) {
	query := `INSERT INTO customer_shipping_addresses (uuid, customer_uuid, division_uuid, label, street, city, zip_code, province, country, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	a.UUID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt

	_, err := r.db.ExecContext(ctx, query, a.UUID, a.CustomerUUID, a.DivisionUUID, a.Label,
		a.Street, a.City, a.ZipCode, a.Province, a.Country, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return models.CustomerShippingAddress{}, err
	}

	r.invalidate(ctx, a.CustomerUUID)
	return a, nil
}

func (r *PostgresShippingAddressRepository) GetByUUID(id uuid.UUID) (models.CustomerShippingAddress, error) {
	query := `SELECT ` + shippingAddressColumns + ` FROM customer_shipping_addresses WHERE uuid = $1 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	a, err := scanShippingAddress(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.CustomerShippingAddress{}, ErrShippingAddressNotFound
	}
	return a, err
}

func (r *PostgresShippingAddressRepository) GetByCustomer(customerUUID uuid.UUID) ([]models.CustomerShippingAddress, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	key := cache.KeyAddressesByCustomer(customerUUID)
	var addresses []models.CustomerShippingAddress
	if ok, err := r.cache.Get(ctx, key, &addresses); err == nil && ok {
		return addresses, nil
	}

	query := `SELECT ` + shippingAddressColumns + ` FROM customer_shipping_addresses
		WHERE customer_uuid = $1 AND removed = FALSE ORDER BY label`
	rows, err := r.db.QueryContext(ctx, query, customerUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanShippingAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, key, addresses, cache.DefaultTTL)
	return addresses, nil
}

func (r *PostgresShippingAddressRepository) Update(a models.CustomerShippingAddress) (models.CustomerShippingAddress, error) {
	query := `UPDATE customer_shipping_addresses SET division_uuid = $1, label = $2, street = $3, city = $4,
		zip_code = $5, province = $6, country = $7, updated_at = $8 WHERE uuid = $9 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	a.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, a.DivisionUUID, a.Label, a.Street, a.City,
		a.ZipCode, a.Province, a.Country, a.UpdatedAt, a.UUID)
	if err != nil {
		return models.CustomerShippingAddress{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.CustomerShippingAddress{}, ErrShippingAddressNotFound
	}

	r.invalidate(ctx, a.CustomerUUID)
	return a, nil
}

func (r *PostgresShippingAddressRepository) Delete(id uuid.UUID) error {
	a, err := r.GetByUUID(id)
	if err != nil {
		return err
	}

	query := `UPDATE customer_shipping_addresses SET removed = TRUE, updated_at = $1 WHERE uuid = $2 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id); err != nil {
		return err
	}

	r.invalidate(ctx, a.CustomerUUID)
	return nil
}

func (r *PostgresShippingAddressRepository) invalidate(ctx context.Context, customerUUID uuid.UUID) {
	_ = r.cache.Delete(ctx, cache.KeyAddressesByCustomer(customerUUID), cache.KeyCustomerFormOptions)
}
