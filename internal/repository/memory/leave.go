package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
)

type LeaveRepository struct {
	mu    sync.Mutex
	items []leave.Request
}

func NewLeaveRepository(requests ...leave.Request) *LeaveRepository {
	return &LeaveRepository{items: append([]leave.Request(nil), requests...)}
}

func (r *LeaveRepository) filter(keep func(l leave.Request) bool) []leave.Request {
	var out []leave.Request
	for _, l := range r.items {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

func (r *LeaveRepository) GetByID(_ context.Context, id string) (leave.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.items {
		if l.ID == id {
			return l, nil
		}
	}
	return leave.Request{}, leave.ErrLeaveRequestNotFound
}

func (r *LeaveRepository) List(_ context.Context, f leave.Filter) ([]leave.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(l leave.Request) bool {
		if f.EmployeeID != nil && l.EmployeeID != *f.EmployeeID {
			return false
		}
		if f.Start != nil && f.End != nil {
			return !l.StartDate.After(*f.End) && l.ReturnDate.After(*f.Start)
		}
		return true
	}), nil
}

func (r *LeaveRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Request, error) {
	return r.List(ctx, leave.Filter{EmployeeID: &employeeID})
}

func (r *LeaveRepository) ListActiveCovering(_ context.Context, date time.Time) ([]leave.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(l leave.Request) bool { return l.Status.IsActive() && l.Covers(date) }), nil
}

func (r *LeaveRepository) ListActiveInRange(_ context.Context, employeeID string, start, end time.Time) ([]leave.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(l leave.Request) bool {
		return l.EmployeeID == employeeID && l.Status.IsActive() && l.Overlaps(start, end)
	}), nil
}

func (r *LeaveRepository) ListNonRejectedInRange(_ context.Context, employeeID string, start, end time.Time) ([]leave.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(l leave.Request) bool {
		return l.EmployeeID == employeeID && l.Status != leave.StatusRejected && l.Overlaps(start, dateutil.AddDays(end, 1))
	}), nil
}

func (r *LeaveRepository) SumActiveDays(_ context.Context, employeeID string, year int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, l := range r.items {
		if l.EmployeeID == employeeID && l.Status.IsActive() && l.StartDate.Year() == year {
			total += l.Days
		}
	}
	return total, nil
}

func (r *LeaveRepository) Create(_ context.Context, request leave.Request) (leave.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, request)
	return request, nil
}

func (r *LeaveRepository) Update(_ context.Context, request leave.Request) (leave.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.items {
		if l.ID == request.ID {
			request.RequestedAt = l.RequestedAt
			r.items[i] = request
			return request, nil
		}
	}
	return leave.Request{}, leave.ErrLeaveRequestNotFound
}

func (r *LeaveRepository) UpdateStatus(_ context.Context, id string, status leave.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.items {
		if l.ID == id {
			r.items[i].Status = status
			return nil
		}
	}
	return leave.ErrLeaveRequestNotFound
}

func (r *LeaveRepository) ProgressStatuses(_ context.Context, asOf time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for i, l := range r.items {
		if next := l.ProgressedStatus(asOf); next != l.Status {
			r.items[i].Status = next
			changed++
		}
	}
	return changed, nil
}
