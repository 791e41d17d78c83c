package kpi

import "time"

type Record struct {
	ID                string     `json:"id"`
	EmployeeID        string     `json:"employeeId"`
	CurrentApproverID string     `json:"currentApproverId,omitempty"`
	Department        string     `json:"department"`
	Category          string     `json:"category"`
	Target            *float64   `json:"target"`
	Achievement       *float64   `json:"achievement"`
	Direction         string     `json:"direction"`
	ObjectiveWeight   float64    `json:"objectiveWeight"`
	KPIWeight         float64    `json:"kpiWeight"`
	Percentage        *float64   `json:"percentageAchievement"`
	Score             *float64   `json:"scoreAchievement"`
	Rating            string     `json:"performanceRating,omitempty"`
	Status            string     `json:"status"`
	RejectedReason    string     `json:"rejectedReason,omitempty"`
	ApprovedBy        string     `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time `json:"approvedAt,omitempty"`
	ApprovalNotes     string     `json:"approvalNotes,omitempty"`
	Quarter           int        `json:"quarter"`
	FiscalYear        int        `json:"fiscalYear"`
	Version           int        `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Decision is the payload of a single approve/reject call.
type Decision struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes"`
	Reason   string `json:"reason"`
}

type HistoryEntry struct {
	ID         string    `json:"id"`
	KPIID      string    `json:"kpiId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	ApproverID string    `json:"approverId"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type StatusSummary struct {
	EmployeeID string         `json:"employeeId"`
	Counts     map[string]int `json:"counts"`
	Total      int            `json:"total"`
}

// ApprovalQueue splits a manager's workload into records waiting on the
// manager directly and records waiting on managers one chain level below.
type ApprovalQueue struct {
	Direct      []Record `json:"direct"`
	Subordinate []Record `json:"subordinate"`
}
