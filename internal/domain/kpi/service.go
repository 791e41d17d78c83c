package kpi

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kpiflow/internal/domain/hierarchy"
)

// Service is the approval workflow engine. Every state-mutating call reads
// the record, validates the transition, persists the mutation under a
// version guard and appends exactly one history entry.
type Service struct {
	store   StoreAPI
	history HistoryAPI
	chain   ChainAPI
	users   UserAPI
	now     func() time.Time
}

func NewService(store StoreAPI, history HistoryAPI, chain ChainAPI, users UserAPI) *Service {
	return &Service{
		store:   store,
		history: history,
		chain:   chain,
		users:   users,
		now:     time.Now,
	}
}

type CreateInput struct {
	EmployeeID      string
	Department      string
	Category        string
	Target          *float64
	Achievement     *float64
	Direction       string
	ObjectiveWeight float64
	KPIWeight       float64
	Quarter         int
	FiscalYear      int
}

func validateCreateInput(input CreateInput) error {
	switch input.Category {
	case CategoryBusiness, CategoryMainTasks, CategoryProjects:
	default:
		return inputError("category", "must be business, main_tasks or projects")
	}
	switch input.Direction {
	case "", DirectionPositive, DirectionNegative:
	default:
		return inputError("direction", "must be positive or negative")
	}
	if input.ObjectiveWeight < 0 || input.ObjectiveWeight > 1 {
		return inputError("objectiveWeight", "must be between 0 and 1")
	}
	if input.KPIWeight < 0 || input.KPIWeight > 1 {
		return inputError("kpiWeight", "must be between 0 and 1")
	}
	return nil
}

// Create stores a new record in draft with its derived fields already
// computed so they are never partially stale.
func (s *Service) Create(ctx context.Context, input CreateInput) (Record, error) {
	if err := validateCreateInput(input); err != nil {
		return Record{}, err
	}
	record := Record{
		EmployeeID:      input.EmployeeID,
		Department:      input.Department,
		Category:        input.Category,
		Target:          input.Target,
		Achievement:     input.Achievement,
		Direction:       input.Direction,
		ObjectiveWeight: input.ObjectiveWeight,
		KPIWeight:       input.KPIWeight,
		Quarter:         input.Quarter,
		FiscalYear:      input.FiscalYear,
		Status:          StatusDraft,
	}
	if record.Direction == "" {
		record.Direction = DirectionPositive
	}
	applyCalculation(&record)

	id, err := s.store.Create(ctx, record)
	if err != nil {
		return Record{}, err
	}
	record.ID = id
	return record, nil
}

func (s *Service) Get(ctx context.Context, kpiID string) (Record, error) {
	return s.store.Get(ctx, kpiID)
}

// UpdateValues changes target and/or achievement and recomputes the derived
// fields in the same write. Archived records are immutable.
func (s *Service) UpdateValues(ctx context.Context, kpiID string, target, achievement *float64) (Record, error) {
	record, err := s.store.Get(ctx, kpiID)
	if err != nil {
		return Record{}, err
	}
	if record.Status == StatusArchived {
		return Record{}, stateError(record.Status, "any status before archive")
	}

	record.Target = target
	record.Achievement = achievement
	applyCalculation(&record)

	if err := s.store.Save(ctx, record); err != nil {
		return Record{}, err
	}
	return record, nil
}

// Recalculate refreshes percentage, score and rating from the stored values.
func (s *Service) Recalculate(ctx context.Context, kpiID string) (Record, error) {
	record, err := s.store.Get(ctx, kpiID)
	if err != nil {
		return Record{}, err
	}
	if record.Status == StatusArchived {
		return Record{}, stateError(record.Status, "any status before archive")
	}
	applyCalculation(&record)
	if err := s.store.Save(ctx, record); err != nil {
		return Record{}, err
	}
	return record, nil
}

// Submit routes a draft record to the level-1 manager of the employee's
// chain. Only the record's own employee may submit, and an employee with no
// chain rows is a data-integrity failure rather than a silent skip.
func (s *Service) Submit(ctx context.Context, kpiID, employeeID, notes string) (Record, error) {
	record, err := s.store.Get(ctx, kpiID)
	if err != nil {
		return Record{}, err
	}
	if record.EmployeeID != employeeID {
		return Record{}, ErrForbidden
	}
	if record.Status != StatusDraft {
		return Record{}, stateError(record.Status, StatusDraft)
	}

	chain, err := s.chain.OrderedChain(ctx, record.EmployeeID)
	if err != nil {
		return Record{}, err
	}
	first, ok := hierarchy.FirstManager(chain)
	if !ok {
		return Record{}, ErrNoApprovalChain
	}

	from := record.Status
	record.Status = StatusSubmitted
	record.CurrentApproverID = first

	if err := s.store.Save(ctx, record); err != nil {
		return Record{}, err
	}
	if err := s.appendHistory(ctx, record.ID, from, record.Status, employeeID, notes); err != nil {
		return Record{}, err
	}
	return record, nil
}

// Approve advances or finalizes the record on an approving decision, or
// moves it to rejected otherwise. The caller must be the current approver
// (validated through chain membership) or the override identity. When the
// next chain position is the override identity the record finalizes
// immediately instead of routing to it.
func (s *Service) Approve(ctx context.Context, kpiID, managerID string, decision Decision) (Record, error) {
	record, err := s.store.Get(ctx, kpiID)
	if err != nil {
		return Record{}, err
	}
	if record.Status != StatusSubmitted && record.Status != StatusUnderReview {
		return Record{}, stateError(record.Status, StatusSubmitted+" or "+StatusUnderReview)
	}

	exists, err := s.users.UserExists(ctx, managerID)
	if err != nil {
		return Record{}, err
	}
	if !exists {
		return Record{}, ErrManagerNotFound
	}

	override, err := s.users.IsOverride(ctx, managerID)
	if err != nil {
		return Record{}, err
	}

	chain, err := s.chain.OrderedChain(ctx, record.EmployeeID)
	if err != nil {
		return Record{}, err
	}
	if !override {
		if managerID != record.CurrentApproverID || !hierarchy.Contains(chain, managerID) {
			return Record{}, ErrForbidden
		}
	}

	from := record.Status

	if !decision.Approved {
		record.Status = StatusRejected
		record.RejectedReason = decision.Reason
		// The approver slot is kept for audit; reopen clears it.
		if err := s.store.Save(ctx, record); err != nil {
			return Record{}, err
		}
		if err := s.appendHistory(ctx, record.ID, from, record.Status, managerID, decision.Reason); err != nil {
			return Record{}, err
		}
		return record, nil
	}

	next, found := hierarchy.NextAfter(chain, managerID)
	if found {
		nextOverride, err := s.users.IsOverride(ctx, next)
		if err != nil {
			return Record{}, err
		}
		if nextOverride {
			found = false
		}
	}

	if found {
		record.Status = StatusUnderReview
		record.CurrentApproverID = next
	} else {
		record.Status = StatusApproved
		record.CurrentApproverID = ""
		record.ApprovedBy = managerID
		approvedAt := s.now().UTC()
		record.ApprovedAt = &approvedAt
		record.ApprovalNotes = decision.Notes
	}

	if err := s.store.Save(ctx, record); err != nil {
		return Record{}, err
	}
	if err := s.appendHistory(ctx, record.ID, from, record.Status, managerID, decision.Notes); err != nil {
		return Record{}, err
	}
	return record, nil
}

// Reopen resets a rejected record to draft. The record must be resubmitted
// to re-enter the workflow; reopen does not route anywhere.
func (s *Service) Reopen(ctx context.Context, kpiID, managerID string) (Record, error) {
	record, err := s.store.Get(ctx, kpiID)
	if err != nil {
		return Record{}, err
	}
	if record.Status != StatusRejected {
		return Record{}, stateError(record.Status, StatusRejected)
	}

	exists, err := s.users.UserExists(ctx, managerID)
	if err != nil {
		return Record{}, err
	}
	if !exists {
		return Record{}, ErrManagerNotFound
	}

	override, err := s.users.IsOverride(ctx, managerID)
	if err != nil {
		return Record{}, err
	}
	if !override {
		chain, err := s.chain.OrderedChain(ctx, record.EmployeeID)
		if err != nil {
			return Record{}, err
		}
		if !hierarchy.Contains(chain, managerID) {
			return Record{}, ErrForbidden
		}
	}

	from := record.Status
	record.Status = StatusDraft
	record.RejectedReason = ""
	record.CurrentApproverID = ""

	if err := s.store.Save(ctx, record); err != nil {
		return Record{}, err
	}
	if err := s.appendHistory(ctx, record.ID, from, record.Status, managerID, ""); err != nil {
		return Record{}, err
	}
	return record, nil
}

// Archive is the terminal transition, legal only from approved.
func (s *Service) Archive(ctx context.Context, kpiID, actorID string) (Record, error) {
	record, err := s.store.Get(ctx, kpiID)
	if err != nil {
		return Record{}, err
	}
	if record.Status != StatusApproved {
		return Record{}, stateError(record.Status, StatusApproved)
	}

	from := record.Status
	record.Status = StatusArchived

	if err := s.store.Save(ctx, record); err != nil {
		return Record{}, err
	}
	if err := s.appendHistory(ctx, record.ID, from, record.Status, actorID, ""); err != nil {
		return Record{}, err
	}
	return record, nil
}

// PendingForManager lists records waiting on the given manager's decision.
func (s *Service) PendingForManager(ctx context.Context, managerID string) ([]Record, error) {
	return s.store.ListPendingForManager(ctx, managerID)
}

// Queue returns the manager's approval queue split into direct records and
// records one chain level below. The subordinate half expands a single level
// only; it is not a transitive walk.
func (s *Service) Queue(ctx context.Context, managerID string) (ApprovalQueue, error) {
	direct, err := s.store.ListPendingForManager(ctx, managerID)
	if err != nil {
		return ApprovalQueue{}, err
	}
	subordinate, err := s.store.ListSubordinateQueue(ctx, managerID)
	if err != nil {
		return ApprovalQueue{}, err
	}
	return ApprovalQueue{Direct: direct, Subordinate: subordinate}, nil
}

// Summary counts one employee's records across all six states, zero-filled.
func (s *Service) Summary(ctx context.Context, employeeID string) (StatusSummary, error) {
	counts, err := s.store.StatusCounts(ctx, employeeID)
	if err != nil {
		return StatusSummary{}, err
	}
	summary := StatusSummary{EmployeeID: employeeID, Counts: map[string]int{}}
	for _, status := range AllStatuses {
		summary.Counts[status] = counts[status]
		summary.Total += counts[status]
	}
	return summary, nil
}

// History lists a record's transitions newest-first.
func (s *Service) History(ctx context.Context, kpiID string) ([]HistoryEntry, error) {
	if _, err := s.store.Get(ctx, kpiID); err != nil {
		return nil, err
	}
	return s.history.ListForKPI(ctx, kpiID)
}

func (s *Service) appendHistory(ctx context.Context, kpiID, from, to, approverID, notes string) error {
	return s.history.Append(ctx, HistoryEntry{
		ID:         uuid.NewString(),
		KPIID:      kpiID,
		FromStatus: from,
		ToStatus:   to,
		ApproverID: approverID,
		Notes:      notes,
		CreatedAt:  s.now().UTC(),
	})
}

func applyCalculation(record *Record) {
	result := Calculate(record.Target, record.Achievement, record.Direction, record.ObjectiveWeight, record.KPIWeight)
	record.Percentage = &result.Percentage
	record.Score = &result.Score
	record.Rating = result.Rating
}
