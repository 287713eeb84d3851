package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/service/calendar"
)

type OverrideRepository struct {
	mu    sync.Mutex
	items []schedule.Override
}

func NewOverrideRepository(overrides ...schedule.Override) *OverrideRepository {
	return &OverrideRepository{items: append([]schedule.Override(nil), overrides...)}
}

func (r *OverrideRepository) GetByID(_ context.Context, id string) (schedule.Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.items {
		if o.ID == id {
			return o, nil
		}
	}
	return schedule.Override{}, schedule.ErrOverrideNotFound
}

func (r *OverrideRepository) List(_ context.Context) ([]schedule.Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]schedule.Override(nil), r.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *OverrideRepository) ListInRange(ctx context.Context, start, end time.Time) ([]schedule.Override, error) {
	all, _ := r.List(ctx)
	var out []schedule.Override
	for _, o := range all {
		if !dateutil.Day(o.StartDate).After(dateutil.Day(end)) && !dateutil.Day(o.EndDate).Before(dateutil.Day(start)) {
			out = append(out, o)
		}
	}
	return out, nil
}

// FindApplicable applies the calendar precedence to the stored overrides.
func (r *OverrideRepository) FindApplicable(ctx context.Context, employeeID, post string, date time.Time) (schedule.Override, error) {
	covering, _ := r.ListInRange(ctx, date, date)
	o, ok := calendar.NewResolver(covering).Override(employee.Employee{ID: employeeID, Post: post}, date)
	if !ok {
		return schedule.Override{}, schedule.ErrOverrideNotFound
	}
	return o, nil
}

func (r *OverrideRepository) Create(_ context.Context, override schedule.Override) (schedule.Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, override)
	return override, nil
}

func (r *OverrideRepository) Update(_ context.Context, override schedule.Override) (schedule.Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.items {
		if o.ID == override.ID {
			override.CreatedAt = o.CreatedAt
			r.items[i] = override
			return override, nil
		}
	}
	return schedule.Override{}, schedule.ErrOverrideNotFound
}

func (r *OverrideRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.items {
		if o.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return schedule.ErrOverrideNotFound
}
