package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/auth"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
	"github.com/cmlabs-hris/pointage-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/pointage-backend/internal/handler/http/response"
)

// actorFrom returns the authenticated caller, writing a 401 when absent.
func actorFrom(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return user.Actor{}, false
	}
	return actor, true
}

// decodeJSON decodes the request body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Warn(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}
