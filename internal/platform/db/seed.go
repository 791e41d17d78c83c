package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kpiflow/internal/domain/auth"
	"kpiflow/internal/platform/config"
)

// Seed provisions the administrative override identity and, when enabled, a
// small demo org with a three-level approval chain. The approval engine
// requires chain data to be present before any submit, so demo chains are
// written before demo KPIs.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		if _, err := ensureUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword, "Administrator", auth.RoleAdmin, true); err != nil {
			return err
		}
	}

	if cfg.OverrideUserEmail != "" {
		if _, err := pool.Exec(ctx, "UPDATE users SET is_override = true WHERE email = $1", cfg.OverrideUserEmail); err != nil {
			return err
		}
	}

	if cfg.SeedDemoData {
		return seedDemoOrg(ctx, pool)
	}
	return nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email, password, fullName, role string, override bool) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	err = pool.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, full_name, role, is_override)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, email, hash, fullName, role, override).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func seedDemoOrg(ctx context.Context, pool *pgxpool.Pool) error {
	type demoUser struct {
		email string
		name  string
		role  string
	}
	users := []demoUser{
		{"lead@example.com", "Team Lead", auth.RoleManager},
		{"head@example.com", "Department Head", auth.RoleManager},
		{"director@example.com", "Director", auth.RoleManager},
		{"employee@example.com", "Demo Employee", auth.RoleEmployee},
	}

	ids := map[string]string{}
	for _, u := range users {
		id, err := ensureUser(ctx, pool, u.email, "ChangeMe123!", u.name, u.role, false)
		if err != nil {
			return err
		}
		ids[u.email] = id
	}

	chain := []string{"lead@example.com", "head@example.com", "director@example.com"}
	for level, email := range chain {
		if _, err := pool.Exec(ctx, `
      INSERT INTO approval_chains (employee_id, sequence_level, manager_id)
      VALUES ($1,$2,$3)
      ON CONFLICT (employee_id, sequence_level) DO UPDATE SET manager_id = EXCLUDED.manager_id
    `, ids["employee@example.com"], level+1, ids[email]); err != nil {
			return err
		}
	}

	var kpiCount int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM kpis WHERE employee_id = $1", ids["employee@example.com"]).Scan(&kpiCount); err != nil {
		return err
	}
	if kpiCount > 0 {
		return nil
	}

	_, err := pool.Exec(ctx, `
    INSERT INTO kpis (
      employee_id, department, category, target, achievement, direction,
      objective_weight, kpi_weight, status, quarter, fiscal_year
    )
    VALUES
      ($1, 'sales', 'business',   100, 85, 'positive', 0.6, 0.4, 'draft', 1, 2026),
      ($1, 'sales', 'main_tasks',  20, 22, 'positive', 0.3, 0.5, 'draft', 1, 2026),
      ($1, 'sales', 'projects',     5,  6, 'negative', 0.1, 0.1, 'draft', 1, 2026)
  `, ids["employee@example.com"])
	return err
}
