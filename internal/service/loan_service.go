package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/lab-loan-engine/internal/auth"
	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/repository"
	customError "github.com/segyhp/lab-loan-engine/pkg/errors"
)

type LoanService struct {
	LoanRepo      repository.LoanRepository
	EquipmentRepo repository.EquipmentRepository
	LabRepo       repository.LabRepository
	UserRepo      repository.UserRepository
	notifier      *Notifier
	logger        *slog.Logger
	now           func() time.Time
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	equipmentRepo repository.EquipmentRepository,
	labRepo repository.LabRepository,
	userRepo repository.UserRepository,
	notifier *Notifier,
	logger *slog.Logger,
) *LoanService {
	return &LoanService{
		LoanRepo:      loanRepo,
		EquipmentRepo: equipmentRepo,
		LabRepo:       labRepo,
		UserRepo:      userRepo,
		notifier:      notifier,
		logger:        logger,
		now:           time.Now,
	}
}

// Create verifies the requested quantities and opens an active loan. The
// availability decrement happens in the repository as one conditional,
// all-or-nothing unit, so the checks here only produce friendlier errors.
func (s *LoanService) Create(ctx context.Context, id auth.Identity, req *domain.CreateLoanRequest) (*domain.Loan, error) {
	if err := auth.Authorize(id, auth.ResourceLoan, auth.ActionCreate); err != nil {
		return nil, err
	}

	// 1. Resolve the owner; only administrators borrow on behalf of others
	owner := id.UserID
	if req.UserID != nil && *req.UserID != id.UserID {
		if !id.IsAdmin() {
			return nil, customError.WrapForbidden("only administrators can create loans for other users")
		}
		if _, err := s.UserRepo.GetByID(ctx, *req.UserID); err != nil {
			return nil, err
		}
		owner = *req.UserID
	}

	if !id.IsAdmin() && id.LabID != nil && *id.LabID != req.LabID {
		return nil, customError.WrapForbidden("loans can only be created in your own lab")
	}
	if _, err := s.LabRepo.GetByID(ctx, req.LabID); err != nil {
		return nil, err
	}

	// 2. Validate dates and lines
	now := s.now().UTC()
	if !req.DueDate.After(now) {
		return nil, customError.ValidationField("due_date", "must be after the borrow date")
	}

	ids := make([]uuid.UUID, 0, len(req.Lines))
	seen := make(map[uuid.UUID]bool, len(req.Lines))
	for _, line := range req.Lines {
		if seen[line.EquipmentID] {
			return nil, customError.ValidationField("lines", fmt.Sprintf("equipment %s listed more than once", line.EquipmentID))
		}
		seen[line.EquipmentID] = true
		ids = append(ids, line.EquipmentID)
	}

	// 3. Check existence, lab membership and current availability
	equipment, err := s.EquipmentRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, line := range req.Lines {
		e, ok := equipment[line.EquipmentID]
		if !ok {
			return nil, customError.WrapEquipmentNotFound(line.EquipmentID.String())
		}
		if e.LabID != req.LabID {
			return nil, customError.ValidationField("lines", fmt.Sprintf("equipment %s does not belong to lab %s", e.ID, req.LabID))
		}
		if line.Quantity > e.AvailableQuantity {
			return nil, customError.WrapInsufficientStock(e.ID.String(), line.Quantity, e.AvailableQuantity)
		}
	}

	// 4. Persist the loan and reserve the units
	loan := &domain.Loan{
		ID:          uuid.New(),
		UserID:      owner,
		LabID:       req.LabID,
		Beneficiary: req.Beneficiary,
		Status:      domain.LoanStatusActive,
		BorrowDate:  now,
		DueDate:     req.DueDate.UTC(),
		Lines:       make([]domain.LoanLine, 0, len(req.Lines)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, line := range req.Lines {
		loan.Lines = append(loan.Lines, domain.LoanLine{
			LoanID:           loan.ID,
			EquipmentID:      line.EquipmentID,
			QuantityBorrowed: line.Quantity,
		})
	}

	if err := s.LoanRepo.CreateWithReservation(ctx, loan); err != nil {
		return nil, err
	}

	s.logger.Info("loan created", "loan_id", loan.ID, "user_id", owner, "lines", len(loan.Lines))
	return loan, nil
}

// Get returns a loan the caller owns, or any loan for administrators.
func (s *LoanService) Get(ctx context.Context, id auth.Identity, loanID uuid.UUID) (*domain.Loan, error) {
	if err := auth.Authorize(id, auth.ResourceLoan, auth.ActionRead); err != nil {
		return nil, err
	}

	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !id.IsAdmin() && !id.Owns(loan.UserID) {
		return nil, customError.WrapForbidden("you can only access your own loans")
	}
	return loan, nil
}

// List scopes ordinary users to their lab, or to their own loans when they
// have no lab assigned.
func (s *LoanService) List(ctx context.Context, id auth.Identity, filter domain.LoanFilter) ([]*domain.Loan, int, error) {
	if err := auth.Authorize(id, auth.ResourceLoan, auth.ActionList); err != nil {
		return nil, 0, err
	}

	if !id.IsAdmin() {
		if id.LabID != nil {
			filter.LabID = id.LabID
		} else {
			userID := id.UserID
			filter.UserID = &userID
		}
	}
	return s.LoanRepo.List(ctx, filter)
}

// Return reconciles what came back against what was borrowed and closes the
// loan. Returning a loan that is already closed changes nothing and hands the
// stored loan back.
func (s *LoanService) Return(ctx context.Context, id auth.Identity, loanID uuid.UUID, req *domain.ReturnLoanRequest) (*domain.Loan, error) {
	if err := auth.Authorize(id, auth.ResourceLoan, auth.ActionReturn); err != nil {
		return nil, err
	}

	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !id.IsAdmin() && !id.Owns(loan.UserID) {
		return nil, customError.WrapForbidden("you can only return your own loans")
	}
	if !loan.Status.IsOpen() {
		return loan, nil
	}

	plan, err := domain.PlanReturn(loan.Lines, req.ReturnedLines())
	if err != nil {
		var lineErr *domain.ReturnLineError
		if errors.As(err, &lineErr) {
			return nil, customError.ValidationField("lines", lineErr.Error())
		}
		return nil, err
	}

	loan.ApplyReturnPlan(plan, req.Note, s.now().UTC())

	applied, err := s.LoanRepo.CompleteReturn(ctx, loan, plan)
	if err != nil {
		return nil, err
	}
	if !applied {
		// a concurrent return got there first
		return s.LoanRepo.GetByID(ctx, loanID)
	}

	writtenOff := 0
	for _, adj := range plan {
		writtenOff += adj.WriteOff
	}
	s.logger.Info("loan returned", "loan_id", loan.ID, "written_off", writtenOff)

	msg := fmt.Sprintf("Loan %s was returned", loan.ID)
	if writtenOff > 0 {
		msg = fmt.Sprintf("Loan %s was returned with %d unit(s) missing", loan.ID, writtenOff)
	}
	if err := s.notifier.Notify(ctx, loan.UserID, &loan.ID, domain.NotificationInfo, msg); err != nil {
		s.logger.Warn("return notification failed", "loan_id", loan.ID, "error", err)
	}

	return loan, nil
}

// Delete removes a loan record once it has been returned.
func (s *LoanService) Delete(ctx context.Context, id auth.Identity, loanID uuid.UUID) error {
	if err := auth.Authorize(id, auth.ResourceLoan, auth.ActionDelete); err != nil {
		return err
	}

	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if err != nil {
		return err
	}
	if loan.Status.IsOpen() {
		return customError.WrapInUse("loan", loanID.String(), "it has not been returned yet")
	}
	return s.LoanRepo.Delete(ctx, loanID)
}

// Report summarizes loans borrowed in the filter's period.
func (s *LoanService) Report(ctx context.Context, id auth.Identity, filter domain.ReportFilter) (*domain.LoanReport, error) {
	if err := auth.Authorize(id, auth.ResourceReport, auth.ActionRead); err != nil {
		return nil, err
	}

	loans, _, err := s.LoanRepo.List(ctx, domain.LoanFilter{LabID: filter.LabID, From: filter.From, To: filter.To})
	if err != nil {
		return nil, err
	}

	report := &domain.LoanReport{
		LabID:         filter.LabID,
		From:          filter.From,
		To:            filter.To,
		TotalLoans:    len(loans),
		ByStatus:      map[domain.LoanStatus]int{},
		WriteOffValue: decimal.Zero,
		WriteOffs:     []domain.EquipmentWriteOff{},
		GeneratedAt:   s.now().UTC(),
	}

	lost := map[uuid.UUID]int{}
	for _, loan := range loans {
		report.ByStatus[loan.Status]++
		for _, line := range loan.Lines {
			if loan.Status.IsOpen() {
				report.UnitsOnLoan += line.QuantityBorrowed
			}
			if w := line.WrittenOff(); w > 0 {
				lost[line.EquipmentID] += w
			}
		}
	}
	if len(lost) == 0 {
		return report, nil
	}

	ids := make([]uuid.UUID, 0, len(lost))
	for eid := range lost {
		ids = append(ids, eid)
	}
	equipment, err := s.EquipmentRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for eid, units := range lost {
		entry := domain.EquipmentWriteOff{EquipmentID: eid, Units: units, Value: decimal.Zero}
		if e, ok := equipment[eid]; ok {
			entry.Name = e.Name
			entry.Value = e.UnitCost.Mul(decimal.NewFromInt(int64(units)))
		}
		report.UnitsWrittenOff += units
		report.WriteOffValue = report.WriteOffValue.Add(entry.Value)
		report.WriteOffs = append(report.WriteOffs, entry)
	}
	sort.Slice(report.WriteOffs, func(i, j int) bool {
		a, b := report.WriteOffs[i], report.WriteOffs[j]
		if !a.Value.Equal(b.Value) {
			return a.Value.GreaterThan(b.Value)
		}
		return a.Name < b.Name
	})
	return report, nil
}
