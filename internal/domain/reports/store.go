package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"kpiflow/internal/domain/kpi"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type ScorecardRow struct {
	Category   string
	Score      float64
	Weight     float64
	Percentage float64
	Rating     string
}

func (s *Store) EmployeeName(ctx context.Context, employeeID string) (string, error) {
	var name string
	if err := s.DB.QueryRow(ctx, "SELECT full_name FROM users WHERE id = $1", employeeID).Scan(&name); err != nil {
		return "", err
	}
	return name, nil
}

// ScorecardRows returns the finalized KPIs feeding one employee's quarterly
// scorecard. Only approved and archived records count toward reporting.
func (s *Store) ScorecardRows(ctx context.Context, employeeID string, quarter, fiscalYear int) ([]ScorecardRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT category, COALESCE(score, 0), kpi_weight, COALESCE(percentage, 0), COALESCE(rating, '')
    FROM kpis
    WHERE employee_id = $1 AND quarter = $2 AND fiscal_year = $3
      AND status IN ($4, $5)
    ORDER BY category
  `, employeeID, quarter, fiscalYear, kpi.StatusApproved, kpi.StatusArchived)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScorecardRow
	for rows.Next() {
		var row ScorecardRow
		if err := rows.Scan(&row.Category, &row.Score, &row.Weight, &row.Percentage, &row.Rating); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) PendingApprovalCount(ctx context.Context, managerID string) (int, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM kpis
    WHERE current_approver_id = $1 AND status IN ($2, $3)
  `, managerID, kpi.StatusSubmitted, kpi.StatusUnderReview).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
