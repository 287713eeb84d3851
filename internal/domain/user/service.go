package user

import "context"

type UserService interface {
	// Register creates an account. actor is nil for an unauthenticated caller,
	// which is only allowed while no account exists.
	Register(ctx context.Context, actor *Actor, req CreateUserRequest) (UserResponse, error)
	List(ctx context.Context, filter ListUsersFilter) ([]UserResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
}
