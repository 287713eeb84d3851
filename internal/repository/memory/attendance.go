package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/attendance"
)

type PunchRepository struct {
	mu    sync.Mutex
	items []attendance.Punch
}

func NewPunchRepository(punches ...attendance.Punch) *PunchRepository {
	return &PunchRepository{items: append([]attendance.Punch(nil), punches...)}
}

func (r *PunchRepository) sorted(keep func(p attendance.Punch) bool) []attendance.Punch {
	var out []attendance.Punch
	for _, p := range r.items {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PunchedAt.Before(out[j].PunchedAt) })
	return out
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r *PunchRepository) GetByID(_ context.Context, id string) (attendance.Punch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.ID == id {
			return p, nil
		}
	}
	return attendance.Punch{}, attendance.ErrPunchNotFound
}

func (r *PunchRepository) List(_ context.Context, employeeID *string) ([]attendance.Punch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.sorted(func(p attendance.Punch) bool { return employeeID == nil || p.EmployeeID == *employeeID })
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *PunchRepository) ListForEmployee(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Punch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(p attendance.Punch) bool {
		return p.EmployeeID == employeeID && within(p.PunchedAt, from, to)
	}), nil
}

func (r *PunchRepository) ListInRange(_ context.Context, from, to time.Time) ([]attendance.Punch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(p attendance.Punch) bool { return within(p.PunchedAt, from, to) }), nil
}

func (r *PunchRepository) LastForEmployee(ctx context.Context, employeeID string, from, to time.Time) (attendance.Punch, error) {
	punches, _ := r.ListForEmployee(ctx, employeeID, from, to)
	if len(punches) == 0 {
		return attendance.Punch{}, attendance.ErrPunchNotFound
	}
	return punches[len(punches)-1], nil
}

func (r *PunchRepository) Create(_ context.Context, punch attendance.Punch) (attendance.Punch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, punch)
	return punch, nil
}

func (r *PunchRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.items {
		if p.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return attendance.ErrPunchNotFound
}
