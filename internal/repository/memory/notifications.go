package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	apperrors "github.com/segyhp/lab-loan-engine/pkg/errors"
)

type notificationRepository struct {
	s *Store
}

func (r *notificationRepository) Create(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[n.UserID]; !ok {
		return apperrors.WrapUserNotFound(n.UserID.String())
	}
	r.s.notifications[n.ID] = *cloneNotification(*n)
	return nil
}

func (r *notificationRepository) ListByUser(_ context.Context, userID uuid.UUID, filter domain.NotificationFilter) ([]*domain.Notification, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	items := []*domain.Notification{}
	for _, n := range r.s.notifications {
		if n.UserID != userID || (filter.UnreadOnly && n.Read) {
			continue
		}
		items = append(items, cloneNotification(n))
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return lessID(items[i].ID, items[j].ID)
	})
	return paginate(items, filter.Limit, filter.Offset), len(items), nil
}

func (r *notificationRepository) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	count := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return apperrors.WrapNotificationNotFound(id.String())
	}
	n.Read = true
	r.s.notifications[id] = n
	return nil
}

func (r *notificationRepository) MarkAllRead(_ context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	changed := 0
	for id, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			r.s.notifications[id] = n
			changed++
		}
	}
	return changed, nil
}

func (r *notificationRepository) Delete(_ context.Context, id, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return apperrors.WrapNotificationNotFound(id.String())
	}
	delete(r.s.notifications, id)
	return nil
}
