package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type punchRepositoryImpl struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) attendance.PunchRepository {
	return &punchRepositoryImpl{db: db}
}

const punchSelect = `
	SELECT p.id, p.employee_id, p.punched_at, p.kind, p.lateness_seconds, p.created_at,
		e.last_name, e.first_name
	FROM punches p
	JOIN employees e ON e.id = p.employee_id
`

func scanPunch(row pgx.Row) (attendance.Punch, error) {
	var (
		p        attendance.Punch
		lateness *int32
	)
	err := row.Scan(
		&p.ID,
		&p.EmployeeID,
		&p.PunchedAt,
		&p.Kind,
		&lateness,
		&p.CreatedAt,
		&p.EmployeeLastName,
		&p.EmployeeFirstName,
	)
	if err != nil {
		return attendance.Punch{}, err
	}
	p.Lateness = secondsToDuration(lateness)
	return p, nil
}

func (r *punchRepositoryImpl) query(ctx context.Context, sql string, args ...interface{}) ([]attendance.Punch, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	var punches []attendance.Punch
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	return punches, rows.Err()
}

func (r *punchRepositoryImpl) getOne(ctx context.Context, sql string, args ...interface{}) (attendance.Punch, error) {
	q := GetQuerier(ctx, r.db)
	p, err := scanPunch(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Punch{}, attendance.ErrPunchNotFound
		}
		return attendance.Punch{}, fmt.Errorf("failed to get punch: %w", err)
	}
	return p, nil
}

// GetByID implements attendance.PunchRepository.
func (r *punchRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Punch, error) {
	return r.getOne(ctx, punchSelect+` WHERE p.id = $1`, id)
}

// List implements attendance.PunchRepository.
func (r *punchRepositoryImpl) List(ctx context.Context, employeeID *string) ([]attendance.Punch, error) {
	return r.query(ctx, punchSelect+`
		WHERE $1::uuid IS NULL OR p.employee_id = $1::uuid
		ORDER BY p.punched_at DESC
	`, employeeID)
}

// ListForEmployee implements attendance.PunchRepository.
func (r *punchRepositoryImpl) ListForEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Punch, error) {
	return r.query(ctx, punchSelect+`
		WHERE p.employee_id = $1 AND p.punched_at >= $2 AND p.punched_at < $3
		ORDER BY p.punched_at
	`, employeeID, from, to)
}

// ListInRange implements attendance.PunchRepository.
func (r *punchRepositoryImpl) ListInRange(ctx context.Context, from, to time.Time) ([]attendance.Punch, error) {
	return r.query(ctx, punchSelect+`
		WHERE p.punched_at >= $1 AND p.punched_at < $2
		ORDER BY p.punched_at
	`, from, to)
}

// LastForEmployee implements attendance.PunchRepository.
func (r *punchRepositoryImpl) LastForEmployee(ctx context.Context, employeeID string, from, to time.Time) (attendance.Punch, error) {
	return r.getOne(ctx, punchSelect+`
		WHERE p.employee_id = $1 AND p.punched_at >= $2 AND p.punched_at < $3
		ORDER BY p.punched_at DESC
		LIMIT 1
	`, employeeID, from, to)
}

// Create implements attendance.PunchRepository.
func (r *punchRepositoryImpl) Create(ctx context.Context, punch attendance.Punch) (attendance.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punches (id, employee_id, punched_at, kind, lateness_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.Exec(ctx, query,
		punch.ID,
		punch.EmployeeID,
		punch.PunchedAt,
		string(punch.Kind),
		durationToSeconds(punch.Lateness),
		punch.CreatedAt,
	)
	if err != nil {
		return attendance.Punch{}, fmt.Errorf("failed to create punch: %w", err)
	}
	return r.GetByID(ctx, punch.ID)
}

// Delete implements attendance.PunchRepository.
func (r *punchRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM punches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete punch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrPunchNotFound
	}
	return nil
}
