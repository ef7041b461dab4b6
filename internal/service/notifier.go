package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/repository"
)

// Notifier writes notifications on behalf of the loan flow and the sweep.
// Callers treat its errors as best-effort: they log them and carry on.
type Notifier struct {
	repo repository.NotificationRepository
	now  func() time.Time
}

func NewNotifier(repo repository.NotificationRepository) *Notifier {
	return &Notifier{repo: repo, now: time.Now}
}

func (n *Notifier) Notify(ctx context.Context, userID uuid.UUID, loanID *uuid.UUID, kind domain.NotificationKind, message string) error {
	return n.repo.Create(ctx, &domain.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		LoanID:    loanID,
		Kind:      kind,
		Message:   message,
		CreatedAt: n.now().UTC(),
	})
}
