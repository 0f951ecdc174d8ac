package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
)

const timeOffColumns = `id, employee_id, start_date, end_date, reason, status, created_at, updated_at`

func scanTimeOffRequest(row rowScanner) (*domain.TimeOffRequest, error) {
	t := &domain.TimeOffRequest{}
	dst := []any{&t.ID, &t.EmployeeID, &t.StartDate, &t.EndDate, &t.Reason, &t.Status, &t.CreatedAt, &t.UpdatedAt}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Repository) GetTimeOffRequests(employeeIDs []string) ([]*domain.TimeOffRequest, error) {
	if len(employeeIDs) == 0 {
		return []*domain.TimeOffRequest{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT ` + timeOffColumns + ` FROM time_off_requests WHERE employee_id = ANY($1) ORDER BY start_date`

	rows, err := r.dbpool.QueryContext(ctx, query, employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.TimeOffRequest, 0)
	for rows.Next() {
		t, err := scanTimeOffRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *Repository) GetTimeOffRequestByID(id string) (*domain.TimeOffRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	t, err := scanTimeOffRequest(r.dbpool.QueryRowContext(ctx, `SELECT `+timeOffColumns+` FROM time_off_requests WHERE id = $1`, id))
	if err != nil {
		return nil, translateError(err)
	}
	return t, nil
}

func (r *Repository) CreateTimeOffRequest(request *domain.TimeOffRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO time_off_requests (id, employee_id, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	request.ID = uuid.NewString()
	args := []any{request.ID, request.EmployeeID, request.StartDate, request.EndDate, request.Reason, request.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&request.CreatedAt, &request.UpdatedAt); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) UpdateTimeOffStatus(id string, status domain.TimeOffStatus) (*domain.TimeOffRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `UPDATE time_off_requests SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + timeOffColumns

	t, err := scanTimeOffRequest(r.dbpool.QueryRowContext(ctx, query, status, id))
	if err != nil {
		return nil, translateError(err)
	}
	return t, nil
}

func (r *Repository) DeleteTimeOffRequest(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, `DELETE FROM time_off_requests WHERE id = $1`, id)
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
