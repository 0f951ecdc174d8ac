package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
)

func (r *Repository) GetAvailabilities(employeeIDs []string) ([]*domain.Availability, error) {
	if len(employeeIDs) == 0 {
		return []*domain.Availability{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, employee_id, day_of_week, start_time, end_time, created_at, updated_at
		FROM availabilities
		WHERE employee_id = ANY($1)
		ORDER BY day_of_week, start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query, employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	availabilities := make([]*domain.Availability, 0)
	for rows.Next() {
		a := &domain.Availability{}
		dst := []any{&a.ID, &a.EmployeeID, &a.DayOfWeek, &a.StartTime, &a.EndTime, &a.CreatedAt, &a.UpdatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		availabilities = append(availabilities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return availabilities, nil
}

func (r *Repository) UpsertAvailability(availability *domain.Availability) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	// xmax is zero only for freshly inserted tuples
	query := `
		INSERT INTO availabilities (id, employee_id, day_of_week, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, day_of_week) DO UPDATE
		SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	args := []any{uuid.NewString(), availability.EmployeeID, availability.DayOfWeek, availability.StartTime, availability.EndTime}
	dst := []any{&availability.ID, &availability.CreatedAt, &availability.UpdatedAt, &inserted}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return false, translateError(err)
	}

	return inserted, nil
}

func (r *Repository) DeleteAvailability(employeeID string, dayOfWeek int) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, `DELETE FROM availabilities WHERE employee_id = $1 AND day_of_week = $2`, employeeID, dayOfWeek)
	return err
}
