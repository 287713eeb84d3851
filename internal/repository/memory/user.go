package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
)

type UserRepository struct {
	mu    sync.Mutex
	items []user.User
}

func NewUserRepository(users ...user.User) *UserRepository {
	return &UserRepository{items: append([]user.User(nil), users...)}
}

func (r *UserRepository) find(match func(u user.User) bool) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if match(u) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.Username == username })
}

func (r *UserRepository) GetByID(_ context.Context, id string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.ID == id })
}

func (r *UserRepository) GetByEmployeeID(_ context.Context, employeeID string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.EmployeeID != nil && *u.EmployeeID == employeeID })
}

func (r *UserRepository) Create(_ context.Context, newUser user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.Username == newUser.Username {
			return user.User{}, user.ErrUsernameExists
		}
	}
	r.items = append(r.items, newUser)
	return newUser, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *UserRepository) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	_, err := r.GetByEmployeeID(ctx, employeeID)
	return err == nil, nil
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

func (r *UserRepository) List(_ context.Context, query string) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	query = strings.ToLower(query)
	var out []user.User
	for _, u := range r.items {
		if strings.Contains(strings.ToLower(u.Username), query) {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.items {
		if u.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return user.ErrUserNotFound
}
