package kpi

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const recordColumns = `
    id, employee_id, COALESCE(current_approver_id::text, ''), department, category,
    target, achievement, direction, objective_weight, kpi_weight,
    percentage, score, COALESCE(rating, ''), status,
    COALESCE(rejected_reason, ''), COALESCE(approved_by::text, ''), approved_at,
    COALESCE(approval_notes, ''), quarter, fiscal_year, version, created_at, updated_at`

func (s *Store) Get(ctx context.Context, kpiID string) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+recordColumns+`
    FROM kpis
    WHERE id = $1
  `, kpiID)
	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrKPINotFound
	}
	return record, err
}

func (s *Store) Create(ctx context.Context, record Record) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO kpis (
      employee_id, department, category, target, achievement, direction,
      objective_weight, kpi_weight, percentage, score, rating, status,
      quarter, fiscal_year
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
    RETURNING id
  `, record.EmployeeID, record.Department, record.Category,
		record.Target, record.Achievement, record.Direction,
		record.ObjectiveWeight, record.KPIWeight,
		record.Percentage, record.Score, nullIfEmpty(record.Rating),
		record.Status, record.Quarter, record.FiscalYear).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Save(ctx context.Context, record Record) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE kpis
    SET current_approver_id = $2,
        target = $3,
        achievement = $4,
        percentage = $5,
        score = $6,
        rating = $7,
        status = $8,
        rejected_reason = $9,
        approved_by = $10,
        approved_at = $11,
        approval_notes = $12,
        version = version + 1,
        updated_at = now()
    WHERE id = $1 AND version = $13
  `, record.ID, nullIfEmpty(record.CurrentApproverID),
		record.Target, record.Achievement,
		record.Percentage, record.Score, nullIfEmpty(record.Rating),
		record.Status, nullIfEmpty(record.RejectedReason),
		nullIfEmpty(record.ApprovedBy), record.ApprovedAt,
		nullIfEmpty(record.ApprovalNotes), record.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (s *Store) ListPendingForManager(ctx context.Context, managerID string) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+recordColumns+`
    FROM kpis
    WHERE current_approver_id = $1 AND status IN ($2, $3)
    ORDER BY updated_at DESC
  `, managerID, StatusSubmitted, StatusUnderReview)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListSubordinateQueue expands one chain level down: records whose current
// approver sits immediately below the given manager in that employee's
// chain. Deeper levels are deliberately out of view.
func (s *Store) ListSubordinateQueue(ctx context.Context, managerID string) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+recordColumns+`
    FROM kpis k
    WHERE k.status IN ($2, $3)
      AND EXISTS (
        SELECT 1
        FROM approval_chains below
        JOIN approval_chains above
          ON above.employee_id = below.employee_id
         AND above.sequence_level = below.sequence_level + 1
        WHERE below.employee_id = k.employee_id
          AND below.manager_id = k.current_approver_id
          AND above.manager_id = $1
      )
    ORDER BY k.updated_at DESC
  `, managerID, StatusSubmitted, StatusUnderReview)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *Store) StatusCounts(ctx context.Context, employeeID string) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT status, COUNT(1)
    FROM kpis
    WHERE employee_id = $1
    GROUP BY status
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.CurrentApproverID, &r.Department, &r.Category,
		&r.Target, &r.Achievement, &r.Direction, &r.ObjectiveWeight, &r.KPIWeight,
		&r.Percentage, &r.Score, &r.Rating, &r.Status,
		&r.RejectedReason, &r.ApprovedBy, &r.ApprovedAt,
		&r.ApprovalNotes, &r.Quarter, &r.FiscalYear, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func scanRecords(rows pgx.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
