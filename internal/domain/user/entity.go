package user

import "time"

type Role string

const (
	RoleUser      Role = "user"      // Regular employee, self-service only
	RoleSuperuser Role = "superuser" // HR staff
	RoleAdmin     Role = "admin"     // HR administrator - full access
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleSuperuser, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	EmployeeID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsHR reports whether the user belongs to HR staff (admin or superuser).
func (u *User) IsHR() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperuser
}

// Actor is the authenticated caller of a service operation, built from JWT claims.
type Actor struct {
	UserID     string
	Username   string
	Role       Role
	EmployeeID *string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsHR() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperuser
}

// Owns reports whether the actor is linked to the given employee.
func (a Actor) Owns(employeeID string) bool {
	return a.EmployeeID != nil && *a.EmployeeID == employeeID
}

// CanActOn reports whether the actor may act on the employee's records:
// HR always, regular users only on themselves.
func (a Actor) CanActOn(employeeID string) bool {
	return a.IsHR() || a.Owns(employeeID)
}
