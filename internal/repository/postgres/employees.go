package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
)

const employeeColumns = `id, name, email, role, location, hourly_rate, eligible, active, is_manager, manager_id, password_hash, created_at, updated_at, version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	employee := &domain.Employee{}
	var managerID sql.NullString

	dst := []any{
		&employee.ID, &employee.Name, &employee.Email, &employee.Role, &employee.Location, &employee.HourlyRate,
		&employee.Eligible, &employee.Active, &employee.IsManager, &managerID, &employee.PasswordHash,
		&employee.CreatedAt, &employee.UpdatedAt, &employee.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if managerID.Valid {
		employee.ManagerID = &managerID.String
	}
	return employee, nil
}

func nullableID(id *string) sql.NullString {
	if id == nil || *id == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *id, Valid: true}
}

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO employees (id, name, email, role, location, hourly_rate, eligible, active, is_manager, manager_id, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at, version
	`

	employee.ID = uuid.NewString()
	args := []any{
		employee.ID, employee.Name, employee.Email, employee.Role, employee.Location, employee.HourlyRate,
		employee.Eligible, employee.Active, employee.IsManager, nullableID(employee.ManagerID), employee.PasswordHash,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.CreatedAt, &employee.UpdatedAt, &employee.Version); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) GetEmployeeByID(id string) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	employee, err := scanEmployee(r.dbpool.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return employee, nil
}

func (r *Repository) GetEmployeeByEmail(email string) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1`

	employee, err := scanEmployee(r.dbpool.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, translateError(err)
	}
	return employee, nil
}

func (r *Repository) queryEmployees(query string, args ...any) ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) GetEmployeesByIDs(ids []string) ([]*domain.Employee, error) {
	if len(ids) == 0 {
		return []*domain.Employee{}, nil
	}
	return r.queryEmployees(`SELECT `+employeeColumns+` FROM employees WHERE id = ANY($1) ORDER BY name`, ids)
}

func (r *Repository) GetAllEmployees() ([]*domain.Employee, error) {
	return r.queryEmployees(`SELECT ` + employeeColumns + ` FROM employees ORDER BY name`)
}

func (r *Repository) queryIDs(query string, args ...any) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *Repository) GetAllEmployeeIDs() ([]string, error) {
	return r.queryIDs(`SELECT id FROM employees ORDER BY name`)
}

func (r *Repository) GetManagedEmployeeIDs(managerID string) ([]string, error) {
	return r.queryIDs(`SELECT id FROM employees WHERE manager_id = $1 ORDER BY name`, managerID)
}

func (r *Repository) UpdateEmployee(employee *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE employees
		SET
			name = $1,
			email = $2,
			role = $3,
			location = $4,
			hourly_rate = $5,
			eligible = $6,
			active = $7,
			is_manager = $8,
			manager_id = $9,
			password_hash = $10,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING updated_at, version
	`

	args := []any{
		employee.Name, employee.Email, employee.Role, employee.Location, employee.HourlyRate, employee.Eligible,
		employee.Active, employee.IsManager, nullableID(employee.ManagerID), employee.PasswordHash, employee.ID, employee.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.UpdatedAt, &employee.Version); err != nil {
		err = translateError(err)
		if err == repository.ErrNotFound {
			// either the row is gone or someone else bumped the version first
			return repository.ErrEditConflict
		}
		return err
	}

	return nil
}

func (r *Repository) DeleteEmployee(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	// availability, shift and time-off rows cascade, reports are unlinked by ON DELETE SET NULL
	result, err := r.dbpool.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
