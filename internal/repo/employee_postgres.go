package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

const employeeColumns = `uuid, matriculation_number, ean_code, first_name, last_name, password_hash, active, created_at, updated_at`

type PostgresEmployeeRepository struct {
	db *sql.DB
}

func NewPostgresEmployeeRepository(db *sql.DB) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{db: db}
}

func scanEmployee(row interface{ Scan(...any) error }) (models.Employee, error) {
	var e models.Employee
	err := row.Scan(&e.UUID, &e.MatriculationNumber, &e.EANCode, &e.FirstName, &e.LastName,
		&e.PasswordHash, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *PostgresEmployeeRepository) Create(e models.Employee) (models.Employee, error) {
	query := `INSERT INTO employees (uuid, matriculation_number, ean_code, first_name, last_name, password_hash, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	e.UUID = uuid.New()
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt

	_, err := r.db.ExecContext(ctx, query, e.UUID, e.MatriculationNumber, e.EANCode, e.FirstName,
		e.LastName, e.PasswordHash, e.Active, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") {
			return models.Employee{}, ErrDuplicatedValueUnique
		}
		return models.Employee{}, err
	}
	return e, nil
}

func (r *PostgresEmployeeRepository) GetByUUID(id uuid.UUID) (models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE uuid = $1 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

func (r *PostgresEmployeeRepository) GetByMatriculation(number string) (models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE matriculation_number = $1 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, number))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

func (r *PostgresEmployeeRepository) GetByEANCode(code string) (models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE ean_code = $1 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

func (r *PostgresEmployeeRepository) Filter(f EmployeeFilter) ([]models.Employee, int, error) {
	conditions := ""
	args := []any{}
	argIdx := 1

	if f.Search != "" {
		conditions += fmt.Sprintf(" AND (matriculation_number ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var totalCount int
	countQuery := `SELECT COUNT(*) FROM employees WHERE removed = FALSE` + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE removed = FALSE` + conditions + ` ORDER BY last_name, first_name`

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

	var employees []models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, e)
	}
	return employees, totalCount, rows.Err()
}

func (r *PostgresEmployeeRepository) Update(e models.Employee) (models.Employee, error) {
	query := `UPDATE employees SET matriculation_number = $1, ean_code = $2, first_name = $3, last_name = $4,
		password_hash = $5, active = $6, updated_at = $7 WHERE uuid = $8 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	e.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, e.MatriculationNumber, e.EANCode, e.FirstName, e.LastName,
		e.PasswordHash, e.Active, e.UpdatedAt, e.UUID)
	if err != nil {
		return models.Employee{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Employee{}, ErrEmployeeNotFound
	}
	return e, nil
}

func (r *PostgresEmployeeRepository) Delete(id uuid.UUID) error {
	query := `UPDATE employees SET removed = TRUE, updated_at = $1 WHERE uuid = $2 AND removed = FALSE`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}
