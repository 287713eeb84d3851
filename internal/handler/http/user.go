package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
	"github.com/cmlabs-hris/pointage-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/pointage-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type UserHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{userService: userService}
}

// Register implements UserHandler. The caller may be anonymous only while no
// account exists yet.
func (h *userHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if !decodeJSON(w, r, &req, "Register") {
		return
	}

	var actor *user.Actor
	if a, ok := middleware.ActorFrom(r.Context()); ok {
		actor = &a
	}

	created, err := h.userService.Register(r.Context(), actor, req)
	if err != nil {
		slog.Warn("Register service error", "username", req.Username, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User created successfully", created)
}

// List implements UserHandler.
func (h *userHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context(), user.ListUsersFilter{Query: r.URL.Query().Get("q")})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, users)
}

// Delete implements UserHandler.
func (h *userHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "User deleted successfully", nil)
}
