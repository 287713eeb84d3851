package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
)

type EmployeeRepository struct {
	mu     sync.Mutex
	items  map[string]employee.Employee
	number int64
}

func NewEmployeeRepository(employees ...employee.Employee) *EmployeeRepository {
	r := &EmployeeRepository{items: make(map[string]employee.Employee)}
	for _, e := range employees {
		if e.Number == 0 {
			r.number++
			e.Number = r.number
		} else if e.Number > r.number {
			r.number = e.Number
		}
		r.items[e.ID] = e
	}
	return r
}

func (r *EmployeeRepository) active() []employee.Employee {
	out := make([]employee.Employee, 0, len(r.items))
	for _, e := range r.items {
		if e.DeletedAt == nil {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (r *EmployeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok || e.DeletedAt != nil {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *EmployeeRepository) LockForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	return r.GetByID(ctx, id)
}

func (r *EmployeeRepository) GetByEmail(_ context.Context, email string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.active() {
		if strings.EqualFold(e.Email, email) {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *EmployeeRepository) List(_ context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	var out []employee.Employee
	for _, e := range r.active() {
		if filter.Post != "" && e.Post != filter.Post {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.LastName+" "+e.FirstName), query) &&
			!strings.Contains(strings.ToLower(e.FirstName+" "+e.LastName), query) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *EmployeeRepository) ListByPost(ctx context.Context, post string) ([]employee.Employee, error) {
	return r.List(ctx, employee.EmployeeFilter{Post: post})
}

func (r *EmployeeRepository) ListByIDs(_ context.Context, ids []string) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []employee.Employee
	for _, e := range r.active() {
		if wanted[e.ID] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *EmployeeRepository) ExistsByEmail(_ context.Context, email string, excludeID *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.active() {
		if excludeID != nil && e.ID == *excludeID {
			continue
		}
		if strings.EqualFold(e.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *EmployeeRepository) Create(_ context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.number++
	newEmployee.Number = r.number
	r.items[newEmployee.ID] = newEmployee
	return newEmployee, nil
}

func (r *EmployeeRepository) Update(_ context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[e.ID]
	if !ok || existing.DeletedAt != nil {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e.Number = existing.Number
	e.CreatedAt = existing.CreatedAt
	r.items[e.ID] = e
	return e, nil
}

func (r *EmployeeRepository) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok || e.DeletedAt != nil {
		return employee.ErrEmployeeNotFound
	}
	now := time.Now()
	e.DeletedAt = &now
	r.items[id] = e
	return nil
}
