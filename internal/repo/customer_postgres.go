package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/cache"
	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

const customerColumns = `uuid, company_name, vat_number, email, phone, street, city, zip_code, province, country, created_at, updated_at`

type PostgresCustomerRepository struct {
	db    *sql.DB
	cache cache.Store
}

func NewPostgresCustomerRepository(db *sql.DB, cache cache.Store) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db, cache: cache}
}

func scanCustomer(row interface{ Scan(...any) error }) (models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.UUID, &c.CompanyName, &c.VATNumber, &c.Email, &c.Phone,
		&c.Street, &c.City, &c.ZipCode, &c.Province, &c.Country, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *PostgresCustomerRepository) Create(c models.Customer) (models.Customer, error) {
	query := `INSERT INTO customers (uuid, company_name, vat_number, email, phone, street, city, zip_code, province, country, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c.UUID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt

	_, err := r.db.ExecContext(ctx, query, c.UUID, c.CompanyName, c.VATNumber, c.Email, c.Phone,
		c.Street, c.City, c.ZipCode, c.Province, c.Country, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") {
			return models.Customer{}, ErrDuplicatedValueUnique
		}
		return models.Customer{}, err
	}

	r.invalidate(ctx)
	return c, nil
}

func (r *PostgresCustomerRepository) GetByUUID(id uuid.UUID) (models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE uuid = $1 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, ErrCustomerNotFound
	}
	return c, err
}

func (r *PostgresCustomerRepository) Update(c models.Customer) (models.Customer, error) {
	query := `UPDATE customers SET company_name = $1, vat_number = $2, email = $3, phone = $4,
		street = $5, city = $6, zip_code = $7, province = $8, country = $9, updated_at = $10
		WHERE uuid = $11 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, c.CompanyName, c.VATNumber, c.Email, c.Phone,
		c.Street, c.City, c.ZipCode, c.Province, c.Country, c.UpdatedAt, c.UUID)
	if err != nil {
		return models.Customer{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Customer{}, ErrCustomerNotFound
	}

	r.invalidate(ctx)
	return c, nil
}

func (r *PostgresCustomerRepository) Delete(id uuid.UUID) error {
	query := `UPDATE customers SET removed = TRUE, updated_at = $1 WHERE uuid = $2 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrCustomerNotFound
	}

	r.invalidate(ctx)
	return nil
}

func (r *PostgresCustomerRepository) Filter(f CustomerFilter) ([]models.Customer, int, error) {
	conditions := ""
	args := []any{}
	argIdx := 1

	if f.Search != "" {
		conditions += fmt.Sprintf(" AND (company_name ILIKE $%d OR vat_number ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var totalCount int
	countQuery := `SELECT COUNT(*) FROM customers WHERE removed = FALSE` + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + customerColumns + ` FROM customers WHERE removed = FALSE` + conditions
	query += customerSortClause(f.Sort)

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

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, totalCount, rows.Err()
}

// customerSortClause whitelists sortable columns; anything else falls back
// to company name.
func customerSortClause(sort string) string {
	switch sort {
	case "created_at":
		return " ORDER BY created_at ASC"
	case "-created_at":
		return " ORDER BY created_at DESC"
	case "-company_name":
		return " ORDER BY company_name DESC"
	default:
		return " ORDER BY company_name ASC"
	}
}

func (r *PostgresCustomerRepository) GetForSelect() ([]SelectOption, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var options []SelectOption
	if ok, err := r.cache.Get(ctx, cache.KeyCustomersSelect, &options); err == nil && ok {
		return options, nil
	}

	query := `SELECT uuid, company_name FROM customers WHERE removed = FALSE ORDER BY company_name`
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

	_ = r.cache.Set(ctx, cache.KeyCustomersSelect, options, cache.DefaultTTL)
	return options, nil
}

func (r *PostgresCustomerRepository) GetFormOptions() (FormOptions, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var opts FormOptions
	if ok, err := r.cache.Get(ctx, cache.KeyCustomerFormOptions, &opts); err == nil && ok {
		return opts, nil
	}

	customers, err := r.GetForSelect()
	if err != nil {
		return FormOptions{}, err
	}
	opts.Customers = customers

	rows, err := r.db.QueryContext(ctx, `SELECT uuid, customer_uuid, name, code, created_at, updated_at
		FROM customer_divisions WHERE removed = FALSE ORDER BY name`)
	if err != nil {
		return FormOptions{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var d models.CustomerDivision
		if err := rows.Scan(&d.UUID, &d.CustomerUUID, &d.Name, &d.Code, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return FormOptions{}, err
		}
		opts.Divisions = append(opts.Divisions, d)
	}
	if err := rows.Err(); err != nil {
		return FormOptions{}, err
	}

	addrRows, err := r.db.QueryContext(ctx, `SELECT uuid, customer_uuid, division_uuid, label, street, city, zip_code, province, country, created_at, updated_at
		FROM customer_shipping_addresses WHERE removed = FALSE ORDER BY label`)
	if err != nil {
		return FormOptions{}, err
	}
	defer addrRows.Close()
	for addrRows.Next() {
		var a models.CustomerShippingAddress
		if err := addrRows.Scan(&a.UUID, &a.CustomerUUID, &a.DivisionUUID, &a.Label, &a.Street,
			&a.City, &a.ZipCode, &a.Province, &a.Country, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return FormOptions{}, err
		}
		opts.ShippingAddresses = append(opts.ShippingAddresses, a)
	}
	if err := addrRows.Err(); err != nil {
		return FormOptions{}, err
	}

	_ = r.cache.Set(ctx, cache.KeyCustomerFormOptions, opts, cache.DefaultTTL)
	return opts, nil
}

func (r *PostgresCustomerRepository) invalidate(ctx context.Context) {
	_ = r.cache.Delete(ctx, cache.KeyCustomersSelect, cache.KeyCustomerFormOptions)
}
