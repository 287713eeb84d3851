package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/notification"
	"github.com/cmlabs-hris/pointage-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

const sseKeepalive = 30 * time.Second

// NotificationHandler defines the interface for notification HTTP handlers
type NotificationHandler interface {
	ListAll(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	EmployeeProfile(w http.ResponseWriter, r *http.Request)
	AbsenceNotice(w http.ResponseWriter, r *http.Request)
	SendAbsenceNotices(w http.ResponseWriter, r *http.Request)
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	notifService   notification.Service
	absenceService attendance.AbsenceService
	jwtService     jwt.Service
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifService notification.Service, absenceService attendance.AbsenceService, jwtService jwt.Service) NotificationHandler {
	return &notificationHandlerImpl{
		notifService:   notifService,
		absenceService: absenceService,
		jwtService:     jwtService,
	}
}

// ListAll returns every notification (HR)
func (h *notificationHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.notifService.ListAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, items)
}

// ListMine returns the caller's notifications
func (h *notificationHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	items, err := h.notifService.ListMine(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, items)
}

// UpdateStatus marks a notification read or unread
func (h *notificationHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req notification.UpdateStatusRequest
	if !decodeJSON(w, r, &req, "UpdateNotificationStatus") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.notifService.UpdateStatus(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Notification updated", updated)
}

// EmployeeProfile returns the absence and lateness profile of an employee
func (h *notificationHandlerImpl) EmployeeProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.absenceService.EmployeeProfile(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, profile)
}

// AbsenceNotice reports whether an absence notice went out for the employee and date
func (h *notificationHandlerImpl) AbsenceNotice(w http.ResponseWriter, r *http.Request) {
	req := notification.AbsenceNoticeQuery{
		EmployeeID: chi.URLParam(r, "employeeID"),
		Date:       chi.URLParam(r, "date"),
	}

	status, err := h.notifService.HasAbsenceNotice(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, status)
}

// SendAbsenceNotices emails the employees absent on the given date
func (h *notificationHandlerImpl) SendAbsenceNotices(w http.ResponseWriter, r *http.Request) {
	var req notification.SendAbsenceNoticesRequest
	if !decodeJSON(w, r, &req, "SendAbsenceNotices") {
		return
	}

	result, err := h.notifService.SendAbsenceNotices(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Absence notices processed", result)
}

// GetSSEToken generates a short-lived token for SSE connections
func (h *notificationHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(actor)
	if err != nil {
		slog.Error("Failed to generate SSE token", "user_id", actor.UserID, "error", err)
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, notification.SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream handles SSE connection for real-time notifications
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot send headers, so the token travels in the query
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	actor, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.notifService.Subscribe(r.Context(), actor)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":%q}\n\n", actor.UserID)
	flusher.Flush()

	keepalive := time.NewTicker(sseKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Failed to encode SSE event", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
