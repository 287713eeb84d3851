package user

import (
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Role       string  `json:"role"`
	EmployeeID *string `json:"employee_id,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Role:       string(u.Role),
		EmployeeID: u.EmployeeID,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  u.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateUserRequest represents request to register a new account
type CreateUserRequest struct {
	Username   string  `json:"username" validate:"required,min=3,max=50"`
	Password   string  `json:"password" validate:"required,min=6"`
	Role       string  `json:"role" validate:"required,oneof=user superuser admin"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	if !validator.IsValidUsername(r.Username) {
		errs.Add("username", "username may only contain letters, digits, dots, dashes and underscores")
	}
	if Role(r.Role) == RoleUser && (r.EmployeeID == nil || validator.IsEmpty(*r.EmployeeID)) {
		errs.Add("employee_id", "employee_id is required for the user role")
	}
	return errs.Err()
}

type ListUsersFilter struct {
	Query string
}
