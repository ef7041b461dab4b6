package handler

import (
	"net/http"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/service"
	"github.com/segyhp/lab-loan-engine/pkg/response"
)

// NotificationHandler only ever touches the caller's own notifications.
type NotificationHandler struct {
	service service.NotificationServiceInterface
	paging  Paging
}

func NewNotificationHandler(service service.NotificationServiceInterface, paging Paging) *NotificationHandler {
	return &NotificationHandler{service: service, paging: paging}
}

// List handles GET /api/notificaciones?unread=&page=&size=
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	page, size, offset := h.paging.page(r)
	filter := domain.NotificationFilter{
		UnreadOnly: queryBool(r, "unread"),
		Limit:      size,
		Offset:     offset,
	}

	items, total, err := h.service.List(r.Context(), id, filter)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, domain.Page[*domain.Notification]{Items: items, Total: total, Page: page, Size: size})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	n, err := h.service.UnreadCount(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, domain.UnreadCountResponse{Unread: n})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	notificationID, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.service.MarkRead(r.Context(), id, notificationID); err != nil {
		response.FromError(w, err)
		return
	}
	response.Message(w, "Notificación marcada como leída")
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	n, err := h.service.MarkAllRead(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]int{"updated": n})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	notificationID, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, notificationID); err != nil {
		response.FromError(w, err)
		return
	}
	response.Message(w, "Notificación eliminada")
}
