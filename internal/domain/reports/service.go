package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"kpiflow/internal/domain/kpi"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

type CategoryScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Count    int     `json:"count"`
}

type Scorecard struct {
	EmployeeID string          `json:"employeeId"`
	Quarter    int             `json:"quarter"`
	FiscalYear int             `json:"fiscalYear"`
	Categories []CategoryScore `json:"categories"`
	Overall    float64         `json:"overall"`
}

func (s *Service) PendingApprovalCount(ctx context.Context, managerID string) (int, error) {
	return s.Store.PendingApprovalCount(ctx, managerID)
}

func (s *Service) Scorecard(ctx context.Context, employeeID string, quarter, fiscalYear int) (Scorecard, error) {
	rows, err := s.Store.ScorecardRows(ctx, employeeID, quarter, fiscalYear)
	if err != nil {
		return Scorecard{}, err
	}
	return buildScorecard(employeeID, quarter, fiscalYear, rows), nil
}

func buildScorecard(employeeID string, quarter, fiscalYear int, rows []ScorecardRow) Scorecard {
	card := Scorecard{EmployeeID: employeeID, Quarter: quarter, FiscalYear: fiscalYear}

	byCategory := map[string][]ScorecardRow{}
	for _, row := range rows {
		byCategory[row.Category] = append(byCategory[row.Category], row)
	}

	var allScores, allWeights []float64
	for _, category := range []string{kpi.CategoryBusiness, kpi.CategoryMainTasks, kpi.CategoryProjects} {
		group := byCategory[category]
		if len(group) == 0 {
			continue
		}
		var scores, weights []float64
		for _, row := range group {
			scores = append(scores, row.Score)
			weights = append(weights, row.Weight)
			allScores = append(allScores, row.Score)
			allWeights = append(allWeights, row.Weight)
		}
		card.Categories = append(card.Categories, CategoryScore{
			Category: category,
			Score:    kpi.AggregateWeighted(scores, weights),
			Count:    len(group),
		})
	}
	card.Overall = kpi.AggregateWeighted(allScores, allWeights)
	return card
}

// ScorecardPDF renders the quarterly scorecard to a PDF under
// storage/scorecards and returns the file path.
func (s *Service) ScorecardPDF(ctx context.Context, employeeID string, quarter, fiscalYear int) (string, error) {
	card, err := s.Scorecard(ctx, employeeID, quarter, fiscalYear)
	if err != nil {
		return "", err
	}
	name, err := s.Store.EmployeeName(ctx, employeeID)
	if err != nil {
		name = employeeID
	}

	if err := os.MkdirAll("storage/scorecards", 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join("storage/scorecards", fmt.Sprintf("%s-q%d-%d.pdf", employeeID, quarter, fiscalYear))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "KPI Scorecard")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: Q%d FY%d", card.Quarter, card.FiscalYear))
	pdf.Ln(10)
	for _, category := range card.Categories {
		label := strings.ReplaceAll(category.Category, "_", " ")
		pdf.Cell(0, 8, fmt.Sprintf("%s: %.4f (%d KPIs)", label, category.Score, category.Count))
		pdf.Ln(7)
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Overall weighted score: %.4f", card.Overall))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
