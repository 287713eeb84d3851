package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUsernameExists          = errors.New("username already taken")
	ErrEmployeeAlreadyLinked   = errors.New("employee already has an account")
	ErrEmployeeRequired        = errors.New("a user account must be linked to an employee")
	ErrSuperuserRequiresAdmin  = errors.New("only an admin can create a superuser")
	ErrAdminRequiresAdmin      = errors.New("only an admin can create another admin")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrCannotDeleteSelf        = errors.New("cannot delete your own account")
	ErrFirstAccountMustBeAdmin = errors.New("the first account must be an admin")
)
