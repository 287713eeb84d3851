package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type overrideRepositoryImpl struct {
	db *database.DB
}

func NewOverrideRepository(db *database.DB) schedule.OverrideRepository {
	return &overrideRepositoryImpl{db: db}
}

const overrideColumns = `id, employee_id, post, start_date, end_date, start_time, end_time, created_at, updated_at`

func scanOverride(row pgx.Row) (schedule.Override, error) {
	var (
		o          schedule.Override
		employeeID *string
		post       *string
		startTime  pgtype.Time
		endTime    pgtype.Time
	)
	err := row.Scan(
		&o.ID,
		&employeeID,
		&post,
		&o.StartDate,
		&o.EndDate,
		&startTime,
		&endTime,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return schedule.Override{}, err
	}
	o.Scope = schedule.ScopeFromColumns(employeeID, post)
	o.StartTime = fromPgTime(startTime)
	o.EndTime = fromPgTime(endTime)
	return o, nil
}

func (r *overrideRepositoryImpl) list(ctx context.Context, sql string, args ...interface{}) ([]schedule.Override, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule overrides: %w", err)
	}
	defer rows.Close()

	var overrides []schedule.Override
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule override: %w", err)
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

func (r *overrideRepositoryImpl) getOne(ctx context.Context, sql string, args ...interface{}) (schedule.Override, error) {
	q := GetQuerier(ctx, r.db)
	o, err := scanOverride(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Override{}, schedule.ErrOverrideNotFound
		}
		return schedule.Override{}, fmt.Errorf("failed to get schedule override: %w", err)
	}
	return o, nil
}

// GetByID implements schedule.OverrideRepository.
func (r *overrideRepositoryImpl) GetByID(ctx context.Context, id string) (schedule.Override, error) {
	return r.getOne(ctx, `SELECT `+overrideColumns+` FROM schedule_overrides WHERE id = $1`, id)
}

// List implements schedule.OverrideRepository.
func (r *overrideRepositoryImpl) List(ctx context.Context) ([]schedule.Override, error) {
	return r.list(ctx, `SELECT `+overrideColumns+` FROM schedule_overrides ORDER BY start_date, created_at`)
}

// ListInRange implements schedule.OverrideRepository.
func (r *overrideRepositoryImpl) ListInRange(ctx context.Context, start, end time.Time) ([]schedule.Override, error) {
	return r.list(ctx, `
		SELECT `+overrideColumns+`
		FROM schedule_overrides
		WHERE start_date <= $2 AND end_date >= $1
		ORDER BY start_date, created_at
	`, toPgDate(start), toPgDate(end))
}

// FindApplicable implements schedule.OverrideRepository.
func (r *overrideRepositoryImpl) FindApplicable(ctx context.Context, employeeID, post string, date time.Time) (schedule.Override, error) {
	return r.getOne(ctx, `
		SELECT `+overrideColumns+`
		FROM schedule_overrides
		WHERE start_date <= $3 AND end_date >= $3
			AND (employee_id = $1 OR (employee_id IS NULL AND (post = $2 OR post IS NULL)))
		ORDER BY
			CASE
				WHEN employee_id IS NOT NULL THEN 0
				WHEN post IS NOT NULL THEN 1
				ELSE 2
			END,
			updated_at DESC, start_date, created_at
		LIMIT 1
	`, employeeID, post, toPgDate(date))
}

// Create implements schedule.OverrideRepository.
func (r *overrideRepositoryImpl) Create(ctx context.Context, o schedule.Override) (schedule.Override, error) {
	employeeID, post := o.Scope.Columns()
	return r.getOne(ctx, `
		INSERT INTO schedule_overrides (id, employee_id, post, start_date, end_date, start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+overrideColumns,
		o.ID,
		employeeID,
		post,
		toPgDate(o.StartDate),
		toPgDate(o.EndDate),
		toPgTime(o.StartTime),
		toPgTime(o.EndTime),
		o.CreatedAt,
		o.UpdatedAt,
	)
}

// Update implements schedule.OverrideRepository.
func (r *overrideRepositoryImpl) Update(ctx context.Context, o schedule.Override) (schedule.Override, error) {
	employeeID, post := o.Scope.Columns()
	return r.getOne(ctx, `
		UPDATE schedule_overrides
		SET employee_id = $2, post = $3, start_date = $4, end_date = $5, start_time = $6, end_time = $7, updated_at = $8
		WHERE id = $1
		RETURNING `+overrideColumns,
		o.ID,
		employeeID,
		post,
		toPgDate(o.StartDate),
		toPgDate(o.EndDate),
		toPgTime(o.StartTime),
		toPgTime(o.EndTime),
		o.UpdatedAt,
	)
}

// Delete implements schedule.OverrideRepository.
func (r *overrideRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM schedule_overrides WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrOverrideNotFound
	}
	return nil
}
