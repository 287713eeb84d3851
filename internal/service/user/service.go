package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	tx domain.Transactor
	user.UserRepository
	employee.EmployeeRepository
	now func() time.Time
}

func NewUserService(tx domain.Transactor, userRepository user.UserRepository, employeeRepository employee.EmployeeRepository, now func() time.Time) user.UserService {
	return &UserServiceImpl{
		tx:                 tx,
		UserRepository:     userRepository,
		EmployeeRepository: employeeRepository,
		now:                now,
	}
}

func (s *UserServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register implements user.UserService.
func (s *UserServiceImpl) Register(ctx context.Context, actor *user.Actor, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	role := user.Role(req.Role)

	var created user.User
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		count, err := s.UserRepository.Count(txCtx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		if err := authorizeRegistration(actor, role, count == 0); err != nil {
			return err
		}

		exists, err := s.UserRepository.ExistsByUsername(txCtx, req.Username)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if exists {
			return user.ErrUsernameExists
		}

		if req.EmployeeID != nil && *req.EmployeeID != "" {
			if err := s.checkLinkable(txCtx, *req.EmployeeID); err != nil {
				return err
			}
		}

		hash, err := s.hashPassword(req.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate user id: %w", err)
		}

		now := s.now()
		newUser := user.User{
			ID:           id.String(),
			Username:     req.Username,
			PasswordHash: hash,
			Role:         role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if req.EmployeeID != nil && *req.EmployeeID != "" {
			newUser.EmployeeID = req.EmployeeID
		}

		created, err = s.UserRepository.Create(txCtx, newUser)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("User registered", "user_id", created.ID, "username", created.Username, "role", created.Role)
	return user.ToResponse(created), nil
}

// authorizeRegistration applies the role rules: the very first account is an
// admin created by anyone, admins and superusers are created by an admin, and
// user accounts by HR staff.
func authorizeRegistration(actor *user.Actor, role user.Role, first bool) error {
	if first {
		if role != user.RoleAdmin {
			return user.ErrFirstAccountMustBeAdmin
		}
		return nil
	}
	if actor == nil {
		return user.ErrInsufficientPermissions
	}

	switch role {
	case user.RoleAdmin:
		if !actor.IsAdmin() {
			return user.ErrAdminRequiresAdmin
		}
	case user.RoleSuperuser:
		if !actor.IsAdmin() {
			return user.ErrSuperuserRequiresAdmin
		}
	default:
		if !actor.IsHR() {
			return user.ErrInsufficientPermissions
		}
	}
	return nil
}

// checkLinkable makes sure the employee exists and has no account yet.
func (s *UserServiceImpl) checkLinkable(ctx context.Context, employeeID string) error {
	if _, err := s.EmployeeRepository.LockForUpdate(ctx, employeeID); err != nil {
		return err
	}
	linked, err := s.UserRepository.ExistsByEmployeeID(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to check employee account: %w", err)
	}
	if linked {
		return user.ErrEmployeeAlreadyLinked
	}
	return nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, filter user.ListUsersFilter) ([]user.UserResponse, error) {
	users, err := s.UserRepository.List(ctx, filter.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	responses := make([]user.UserResponse, len(users))
	for i, u := range users {
		responses[i] = user.ToResponse(u)
	}
	return responses, nil
}

// Delete implements user.UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	if actor.UserID == id {
		return user.ErrCannotDeleteSelf
	}
	if err := s.UserRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("User deleted", "user_id", id, "deleted_by", actor.UserID)
	return nil
}
