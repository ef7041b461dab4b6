package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/auth"
	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/reminder"
	"github.com/segyhp/lab-loan-engine/internal/repository"
	"github.com/segyhp/lab-loan-engine/pkg/utils"
)

// SweepResult summarizes one pass over the active loans.
type SweepResult struct {
	Scanned            int       `json:"scanned"`
	MarkedOverdue      int       `json:"marked_overdue"`
	Reminders          int       `json:"reminders"`
	SkippedReminders   int       `json:"skipped_reminders"`
	NotificationErrors int       `json:"notification_errors"`
	Failures           int       `json:"failures"`
	StartedAt          time.Time `json:"started_at"`
	FinishedAt         time.Time `json:"finished_at"`
}

type SweepService struct {
	LoanRepo      repository.LoanRepository
	EquipmentRepo repository.EquipmentRepository
	notifier      *Notifier
	guard         reminder.Guard
	windowDays    int
	logger        *slog.Logger
	now           func() time.Time
}

func NewSweepService(
	loanRepo repository.LoanRepository,
	equipmentRepo repository.EquipmentRepository,
	notifier *Notifier,
	guard reminder.Guard,
	windowDays int,
	logger *slog.Logger,
) *SweepService {
	return &SweepService{
		LoanRepo:      loanRepo,
		EquipmentRepo: equipmentRepo,
		notifier:      notifier,
		guard:         guard,
		windowDays:    windowDays,
		logger:        logger,
		now:           time.Now,
	}
}

// Trigger runs the sweep on behalf of an administrator.
func (s *SweepService) Trigger(ctx context.Context, id auth.Identity) (*SweepResult, error) {
	if err := auth.Authorize(id, auth.ResourceLoan, auth.ActionSweep); err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

// Run flips past-due active loans to overdue and reminds owners of loans
// that fall due within the reminder window. Failures on a single loan are
// logged and counted; only a failure to list the loans aborts the run.
func (s *SweepService) Run(ctx context.Context) (*SweepResult, error) {
	now := s.now().UTC()
	result := &SweepResult{StartedAt: now}

	loans, err := s.LoanRepo.ListByStatus(ctx, domain.LoanStatusActive)
	if err != nil {
		return nil, err
	}

	for _, loan := range loans {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Scanned++

		if utils.IsDateOverdue(loan.DueDate, now) {
			s.markOverdue(ctx, loan, now, result)
			continue
		}
		if utils.DaysUntil(loan.DueDate, now) <= s.windowDays {
			s.remind(ctx, loan, now, result)
		}
	}

	result.FinishedAt = s.now().UTC()
	s.logger.Info("sweep finished",
		"scanned", result.Scanned,
		"marked_overdue", result.MarkedOverdue,
		"reminders", result.Reminders,
		"notification_errors", result.NotificationErrors,
		"failures", result.Failures,
	)
	return result, nil
}

func (s *SweepService) markOverdue(ctx context.Context, loan *domain.Loan, now time.Time, result *SweepResult) {
	changed, err := s.LoanRepo.MarkOverdue(ctx, loan.ID, now)
	if err != nil {
		result.Failures++
		s.logger.Error("marking loan overdue", "loan_id", loan.ID, "error", err)
		return
	}
	if !changed {
		return
	}
	result.MarkedOverdue++

	names := s.equipmentNames(ctx, loan)
	for _, line := range loan.Lines {
		msg := fmt.Sprintf("Loan %s is overdue: %d x %s was due on %s",
			loan.ID, line.QuantityBorrowed, names[line.EquipmentID], loan.DueDate.Format("2006-01-02"))
		if err := s.notifier.Notify(ctx, loan.UserID, &loan.ID, domain.NotificationOverdue, msg); err != nil {
			result.NotificationErrors++
			s.logger.Warn("overdue notification failed", "loan_id", loan.ID, "equipment_id", line.EquipmentID, "error", err)
		}
	}
}

func (s *SweepService) remind(ctx context.Context, loan *domain.Loan, now time.Time, result *SweepResult) {
	claimed, err := s.guard.Claim(ctx, loan.ID, loan.DueDate)
	if err != nil {
		// an unreachable guard should not silence reminders
		s.logger.Warn("reminder guard unavailable", "loan_id", loan.ID, "error", err)
		claimed = true
	}
	if !claimed {
		result.SkippedReminders++
		return
	}

	days := utils.DaysUntil(loan.DueDate, now)
	msg := fmt.Sprintf("Loan %s is due in %d day(s), on %s", loan.ID, days, loan.DueDate.Format("2006-01-02"))
	if err := s.notifier.Notify(ctx, loan.UserID, &loan.ID, domain.NotificationReminder, msg); err != nil {
		result.NotificationErrors++
		s.logger.Warn("reminder notification failed", "loan_id", loan.ID, "error", err)
		if err := s.guard.Release(ctx, loan.ID, loan.DueDate); err != nil {
			s.logger.Warn("releasing reminder claim", "loan_id", loan.ID, "error", err)
		}
		return
	}
	result.Reminders++
}

// equipmentNames falls back to the raw id when a record cannot be read.
func (s *SweepService) equipmentNames(ctx context.Context, loan *domain.Loan) map[uuid.UUID]string {
	ids := make([]uuid.UUID, len(loan.Lines))
	names := make(map[uuid.UUID]string, len(loan.Lines))
	for i, line := range loan.Lines {
		ids[i] = line.EquipmentID
		names[line.EquipmentID] = line.EquipmentID.String()
	}

	equipment, err := s.EquipmentRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("loading equipment names", "loan_id", loan.ID, "error", err)
		return names
	}
	for eid, e := range equipment {
		names[eid] = e.Name
	}
	return names
}
