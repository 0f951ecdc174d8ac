package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
)

const shiftColumns = `id, employee_id, date, start_time, end_time, location, status, created_at, updated_at`

func scanShift(row rowScanner) (*domain.Shift, error) {
	s := &domain.Shift{}
	dst := []any{&s.ID, &s.EmployeeID, &s.Date, &s.StartTime, &s.EndTime, &s.Location, &s.Status, &s.CreatedAt, &s.UpdatedAt}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repository) GetShifts(employeeIDs []string) ([]*domain.Shift, error) {
	if len(employeeIDs) == 0 {
		return []*domain.Shift{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE employee_id = ANY($1) ORDER BY date, start_time`

	rows, err := r.dbpool.QueryContext(ctx, query, employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) GetShiftByID(id string) (*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	s, err := scanShift(r.dbpool.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id))
	if err != nil {
		return nil, translateError(err)
	}
	return s, nil
}

func (r *Repository) CreateShift(shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO shifts (id, employee_id, date, start_time, end_time, location, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	shift.ID = uuid.NewString()
	args := []any{shift.ID, shift.EmployeeID, shift.Date, shift.StartTime, shift.EndTime, shift.Location, shift.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&shift.CreatedAt, &shift.UpdatedAt); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) UpdateShift(shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE shifts
		SET employee_id = $1, date = $2, start_time = $3, end_time = $4, location = $5, status = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	args := []any{shift.EmployeeID, shift.Date, shift.StartTime, shift.EndTime, shift.Location, shift.Status, shift.ID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&shift.UpdatedAt); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) DeleteShift(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return err
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
