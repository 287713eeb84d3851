package user

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
	"github.com/cmlabs-hris/pointage-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

var (
	admin     = user.Actor{UserID: "usr-admin", Username: "admin", Role: user.RoleAdmin}
	superuser = user.Actor{UserID: "usr-hr", Username: "hr", Role: user.RoleSuperuser}
	regular   = user.Actor{UserID: "usr-jean", Username: "jean", Role: user.RoleUser, EmployeeID: strPtr("emp-1")}
)

func newUserFixture(users ...user.User) (user.UserService, *memory.UserRepository) {
	userRepo := memory.NewUserRepository(users...)
	employees := memory.NewEmployeeRepository(
		employee.Employee{ID: "emp-1", LastName: "Rabe", FirstName: "Jean", Email: "jean@example.com"},
		employee.Employee{ID: "emp-2", LastName: "Rakoto", FirstName: "Lova", Email: "lova@example.com"},
	)
	now := func() time.Time { return time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC) }
	return NewUserService(&memory.Transactor{}, userRepo, employees, now), userRepo
}

func seeded() []user.User {
	return []user.User{
		{ID: "usr-admin", Username: "admin", Role: user.RoleAdmin},
		{ID: "usr-jean", Username: "jean", Role: user.RoleUser, EmployeeID: strPtr("emp-1")},
	}
}

func TestRegister_FirstAccount(t *testing.T) {
	ctx := context.Background()

	svc, _ := newUserFixture()
	_, err := svc.Register(ctx, nil, user.CreateUserRequest{Username: "hr", Password: "secret1", Role: "superuser"})
	assert.ErrorIs(t, err, user.ErrFirstAccountMustBeAdmin)

	created, err := svc.Register(ctx, nil, user.CreateUserRequest{Username: "root", Password: "secret1", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin", created.Role)
	assert.NotEmpty(t, created.ID)

	// once an account exists, anonymous registration is closed
	_, err = svc.Register(ctx, nil, user.CreateUserRequest{Username: "root2", Password: "secret1", Role: "admin"})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestRegister_RoleRules(t *testing.T) {
	tests := []struct {
		name    string
		actor   user.Actor
		req     user.CreateUserRequest
		wantErr error
	}{
		{
			name:  "admin creates admin",
			actor: admin,
			req:   user.CreateUserRequest{Username: "boss", Password: "secret1", Role: "admin"},
		},
		{
			name:    "superuser cannot create admin",
			actor:   superuser,
			req:     user.CreateUserRequest{Username: "boss", Password: "secret1", Role: "admin"},
			wantErr: user.ErrAdminRequiresAdmin,
		},
		{
			name:    "superuser cannot create superuser",
			actor:   superuser,
			req:     user.CreateUserRequest{Username: "hr2", Password: "secret1", Role: "superuser"},
			wantErr: user.ErrSuperuserRequiresAdmin,
		},
		{
			name:  "superuser creates linked user",
			actor: superuser,
			req:   user.CreateUserRequest{Username: "lova", Password: "secret1", Role: "user", EmployeeID: strPtr("emp-2")},
		},
		{
			name:    "regular user cannot register anyone",
			actor:   regular,
			req:     user.CreateUserRequest{Username: "lova", Password: "secret1", Role: "user", EmployeeID: strPtr("emp-2")},
			wantErr: user.ErrInsufficientPermissions,
		},
		{
			name:    "employee already linked",
			actor:   admin,
			req:     user.CreateUserRequest{Username: "jean2", Password: "secret1", Role: "user", EmployeeID: strPtr("emp-1")},
			wantErr: user.ErrEmployeeAlreadyLinked,
		},
		{
			name:    "unknown employee",
			actor:   admin,
			req:     user.CreateUserRequest{Username: "ghost", Password: "secret1", Role: "user", EmployeeID: strPtr("emp-9")},
			wantErr: employee.ErrEmployeeNotFound,
		},
		{
			name:    "username taken",
			actor:   admin,
			req:     user.CreateUserRequest{Username: "jean", Password: "secret1", Role: "user", EmployeeID: strPtr("emp-2")},
			wantErr: user.ErrUsernameExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newUserFixture(seeded()...)
			actor := tt.actor
			resp, err := svc.Register(context.Background(), &actor, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req.Username, resp.Username)
			assert.Equal(t, tt.req.EmployeeID, resp.EmployeeID)
		})
	}
}

func TestRegister_UserRoleNeedsEmployee(t *testing.T) {
	svc, _ := newUserFixture(seeded()...)

	_, err := svc.Register(context.Background(), &admin, user.CreateUserRequest{Username: "nolink", Password: "secret1", Role: "user"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employee_id")
}

func TestRegister_StoresBcryptHash(t *testing.T) {
	svc, repo := newUserFixture(seeded()...)

	_, err := svc.Register(context.Background(), &admin, user.CreateUserRequest{Username: "lova", Password: "secret1", Role: "user", EmployeeID: strPtr("emp-2")})
	require.NoError(t, err)

	stored, err := repo.GetByUsername(context.Background(), "lova")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestListAndDelete(t *testing.T) {
	svc, _ := newUserFixture(seeded()...)
	ctx := context.Background()

	all, err := svc.List(ctx, user.ListUsersFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := svc.List(ctx, user.ListUsersFilter{Query: "JE"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "jean", found[0].Username)

	assert.ErrorIs(t, svc.Delete(ctx, admin, "usr-admin"), user.ErrCannotDeleteSelf)
	require.NoError(t, svc.Delete(ctx, admin, "usr-jean"))
	assert.ErrorIs(t, svc.Delete(ctx, admin, "usr-jean"), user.ErrUserNotFound)

	all, err = svc.List(ctx, user.ListUsersFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
