package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, number, photo_url, last_name, first_name, post, monthly_salary, email,
	shift_start, shift_end, work_days, hire_date, created_at, updated_at, deleted_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		e          employee.Employee
		shiftStart pgtype.Time
		shiftEnd   pgtype.Time
		workDays   []bool
	)
	err := row.Scan(
		&e.ID,
		&e.Number,
		&e.PhotoURL,
		&e.LastName,
		&e.FirstName,
		&e.Post,
		&e.MonthlySalary,
		&e.Email,
		&shiftStart,
		&shiftEnd,
		&workDays,
		&e.HireDate,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.DeletedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	e.ShiftStart = fromPgTime(shiftStart)
	e.ShiftEnd = fromPgTime(shiftEnd)
	e.WorkDays = workDaysFromArray(workDays)
	return e, nil
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	defer rows.Close()
	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, query string, args ...interface{}) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	e, err := scanEmployee(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1 AND deleted_at IS NULL`, id)
}

// LockForUpdate implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) LockForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id)
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return r.getOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE lower(email) = lower($1) AND deleted_at IS NULL`, email)
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE deleted_at IS NULL
			AND ($1::text = '' OR last_name ILIKE '%' || $1::text || '%' OR first_name ILIKE '%' || $1::text || '%')
			AND ($2::text = '' OR post = $2::text)
		ORDER BY number
	`
	rows, err := q.Query(ctx, query, filter.Query, filter.Post)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return collectEmployees(rows)
}

// ListByPost implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListByPost(ctx context.Context, post string) ([]employee.Employee, error) {
	return r.List(ctx, employee.EmployeeFilter{Post: post})
}

// ListByIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ANY($1::uuid[]) AND deleted_at IS NULL ORDER BY number`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by id: %w", err)
	}
	return collectEmployees(rows)
}

// ExistsByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByEmail(ctx context.Context, email string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM employees
			WHERE lower(email) = lower($1) AND deleted_at IS NULL AND ($2::uuid IS NULL OR id <> $2::uuid)
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check employee email: %w", err)
	}
	return exists, nil
}

// Create implements employee.EmployeeRepository. The number is assigned by the database.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	query := `
		INSERT INTO employees (
			id, photo_url, last_name, first_name, post, monthly_salary, email,
			shift_start, shift_end, work_days, hire_date, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + employeeColumns

	created, err := r.getOne(ctx, query,
		newEmployee.ID,
		newEmployee.PhotoURL,
		newEmployee.LastName,
		newEmployee.FirstName,
		newEmployee.Post,
		newEmployee.MonthlySalary,
		newEmployee.Email,
		toPgTime(newEmployee.ShiftStart),
		toPgTime(newEmployee.ShiftEnd),
		workDaysToArray(newEmployee.WorkDays),
		toPgDate(newEmployee.HireDate),
		newEmployee.CreatedAt,
		newEmployee.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "employees_email_active_key") {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, err
	}
	return created, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	query := `
		UPDATE employees
		SET photo_url = $2, last_name = $3, first_name = $4, post = $5, monthly_salary = $6, email = $7,
			shift_start = $8, shift_end = $9, work_days = $10, hire_date = $11, updated_at = $12
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + employeeColumns

	updated, err := r.getOne(ctx, query,
		e.ID,
		e.PhotoURL,
		e.LastName,
		e.FirstName,
		e.Post,
		e.MonthlySalary,
		e.Email,
		toPgTime(e.ShiftStart),
		toPgTime(e.ShiftEnd),
		workDaysToArray(e.WorkDays),
		toPgDate(e.HireDate),
		e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "employees_email_active_key") {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, err
	}
	return updated, nil
}

// SoftDelete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SoftDelete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
