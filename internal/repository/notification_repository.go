package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	apperrors "github.com/segyhp/lab-loan-engine/pkg/errors"
)

const notificationColumns = `id, user_id, loan_id, kind, message, read, created_at`

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES (:id, :user_id, :loan_id, :kind, :message, :read, :created_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.WrapUserNotFound(n.UserID.String())
		}
		return apperrors.WrapDatabaseError(err)
	}
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter) ([]*domain.Notification, int, error) {
	var w where
	w.add("user_id = ?", userID)
	if filter.UnreadOnly {
		w.add("NOT read")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM notifications`+w.sql()), w.args...); err != nil {
		return nil, 0, apperrors.WrapDatabaseError(err)
	}

	limit, args := w.page(filter.Limit, filter.Offset)
	query := `SELECT ` + notificationColumns + ` FROM notifications` + w.sql() + ` ORDER BY created_at DESC, id` + limit

	items := []*domain.Notification{}
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, 0, apperrors.WrapDatabaseError(err)
	}
	return items, total, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`, userID)
	if err != nil {
		return 0, apperrors.WrapDatabaseError(err)
	}
	return n, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	return affectedOr(res, apperrors.WrapNotificationNotFound(id.String()))
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read`, userID)
	if err != nil {
		return 0, apperrors.WrapDatabaseError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.WrapDatabaseError(err)
	}
	return int(n), nil
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	return affectedOr(res, apperrors.WrapNotificationNotFound(id.String()))
}
