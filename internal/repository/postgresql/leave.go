package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveSelect = `
	SELECT l.id, l.employee_id, l.motive, l.start_date, l.return_date, l.days, l.status,
		l.requested_at, l.updated_at, e.last_name, e.first_name
	FROM leave_requests l
	JOIN employees e ON e.id = l.employee_id
`

const activeStatuses = `('approved', 'in_progress', 'completed')`

func scanLeave(row pgx.Row) (leave.Request, error) {
	var l leave.Request
	err := row.Scan(
		&l.ID,
		&l.EmployeeID,
		&l.Motive,
		&l.StartDate,
		&l.ReturnDate,
		&l.Days,
		&l.Status,
		&l.RequestedAt,
		&l.UpdatedAt,
		&l.EmployeeLastName,
		&l.EmployeeFirstName,
	)
	return l, err
}

func (r *leaveRequestRepositoryImpl) query(ctx context.Context, sql string, args ...interface{}) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, l)
	}
	return requests, rows.Err()
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)
	l, err := scanLeave(q.QueryRow(ctx, leaveSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return l, nil
}

// List implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.Filter) ([]leave.Request, error) {
	var start, end interface{}
	if filter.Start != nil && filter.End != nil {
		start, end = toPgDate(*filter.Start), toPgDate(*filter.End)
	}
	return r.query(ctx, leaveSelect+`
		WHERE ($1::uuid IS NULL OR l.employee_id = $1::uuid)
			AND ($2::date IS NULL OR (l.start_date <= $3::date AND l.return_date > $2::date))
		ORDER BY l.start_date
	`, filter.EmployeeID, start, end)
}

// ListByEmployee implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Request, error) {
	return r.List(ctx, leave.Filter{EmployeeID: &employeeID})
}

// ListActiveCovering implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListActiveCovering(ctx context.Context, date time.Time) ([]leave.Request, error) {
	return r.query(ctx, leaveSelect+`
		WHERE l.status IN `+activeStatuses+` AND l.start_date <= $1 AND l.return_date > $1
		ORDER BY l.start_date
	`, toPgDate(date))
}

// ListActiveInRange implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListActiveInRange(ctx context.Context, employeeID string, start, end time.Time) ([]leave.Request, error) {
	return r.query(ctx, leaveSelect+`
		WHERE l.employee_id = $1 AND l.status IN `+activeStatuses+`
			AND l.start_date < $3 AND l.return_date > $2
		ORDER BY l.start_date
	`, employeeID, toPgDate(start), toPgDate(end))
}

// ListNonRejectedInRange implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListNonRejectedInRange(ctx context.Context, employeeID string, start, end time.Time) ([]leave.Request, error) {
	return r.query(ctx, leaveSelect+`
		WHERE l.employee_id = $1 AND l.status <> 'rejected'
			AND l.start_date <= $3 AND l.return_date > $2
		ORDER BY l.start_date
	`, employeeID, toPgDate(start), toPgDate(end))
}

// SumActiveDays implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) SumActiveDays(ctx context.Context, employeeID string, year int) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(days), 0)
		FROM leave_requests
		WHERE employee_id = $1 AND status IN ` + activeStatuses + `
			AND EXTRACT(YEAR FROM start_date) = $2
	`
	var total int
	if err := q.QueryRow(ctx, query, employeeID, year).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum leave days: %w", err)
	}
	return total, nil
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (id, employee_id, motive, start_date, return_date, days, status, requested_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := q.Exec(ctx, query,
		request.ID,
		request.EmployeeID,
		request.Motive,
		toPgDate(request.StartDate),
		toPgDate(request.ReturnDate),
		request.Days,
		string(request.Status),
		request.RequestedAt,
		request.UpdatedAt,
	)
	if err != nil {
		return leave.Request{}, overlapConflict(fmt.Errorf("failed to create leave request: %w", err))
	}
	return r.GetByID(ctx, request.ID)
}

// Update implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET employee_id = $2, motive = $3, start_date = $4, return_date = $5, days = $6, status = $7, updated_at = $8
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		request.ID,
		request.EmployeeID,
		request.Motive,
		toPgDate(request.StartDate),
		toPgDate(request.ReturnDate),
		request.Days,
		string(request.Status),
		request.UpdatedAt,
	)
	if err != nil {
		return leave.Request{}, overlapConflict(fmt.Errorf("failed to update leave request: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	return r.GetByID(ctx, request.ID)
}

// UpdateStatus implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.Status) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE leave_requests SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return overlapConflict(fmt.Errorf("failed to update leave status: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// ProgressStatuses implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ProgressStatuses(ctx context.Context, asOf time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = CASE
				WHEN return_date <= $1 THEN 'completed'
				ELSE 'in_progress'
			END,
			updated_at = NOW()
		WHERE (status = 'approved' AND start_date <= $1)
			OR (status = 'in_progress' AND return_date <= $1)
	`
	tag, err := q.Exec(ctx, query, toPgDate(asOf))
	if err != nil {
		return 0, fmt.Errorf("failed to progress leave statuses: %w", err)
	}
	return tag.RowsAffected(), nil
}

// overlapConflict reports a write rejected by the no-overlap exclusion constraint
// as a lost race against a concurrent approval.
func overlapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeExclusionViolation {
		return fmt.Errorf("%w: %w", domain.ErrConflict, leave.ErrOverlap)
	}
	return err
}
