package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"kpiflow/internal/app/server"
	"kpiflow/internal/domain/auth"
	"kpiflow/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

// TestKPIApprovalJourney walks one KPI from draft through a three-level
// approval to archive over the HTTP surface.
func TestKPIApprovalJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	// Migrations are resolved relative to the repo root.
	root, err := filepath.Abs(filepath.Join("..", "..", "..", ".."))
	if err != nil {
		t.Fatalf("resolve root: %v", err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatalf("chdir root: %v", err)
	}

	cfg := config.Config{
		DatabaseURL:       dbURL,
		JWTSecret:         "test-secret",
		Environment:       "test",
		TokenTTL:          time.Hour,
		RunMigrations:     true,
		RunSeed:           true,
		SeedAdminEmail:    "admin@test.local",
		SeedAdminPassword: "ChangeMe123!",
		SeedDemoData:      true,
		MaxBodyBytes:      1048576,
	}

	ctx := context.Background()
	app, err := server.New(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	ids := map[string]string{}
	for _, email := range []string{"employee@example.com", "lead@example.com", "head@example.com", "director@example.com"} {
		var id string
		if err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id); err != nil {
			t.Fatalf("seeded user %s missing: %v", email, err)
		}
		ids[email] = id
	}

	token := func(email, role string) string {
		tok, err := auth.GenerateToken(cfg.JWTSecret, auth.Claims{UserID: ids[email], Role: role}, time.Hour)
		if err != nil {
			t.Fatalf("token for %s: %v", email, err)
		}
		return tok
	}
	employeeToken := token("employee@example.com", auth.RoleEmployee)
	leadToken := token("lead@example.com", auth.RoleManager)
	headToken := token("head@example.com", auth.RoleManager)
	directorToken := token("director@example.com", auth.RoleManager)

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/kpis", employeeToken, map[string]any{
		"category":        "business",
		"department":      "sales",
		"target":          100,
		"achievement":     100,
		"direction":       "positive",
		"objectiveWeight": 0.6,
		"kpiWeight":       0.4,
		"quarter":         3,
		"fiscalYear":      2026,
	}, &created)
	if created.Status != "draft" {
		t.Fatalf("expected draft, got %s", created.Status)
	}

	var record struct {
		Status            string `json:"status"`
		CurrentApproverID string `json:"currentApproverId"`
	}
	doJSON(t, client, http.MethodPost, fmt.Sprintf("%s/api/v1/kpis/%s/submit", ts.URL, created.ID), employeeToken, map[string]any{"notes": "q3 targets"}, &record)
	if record.Status != "submitted" || record.CurrentApproverID != ids["lead@example.com"] {
		t.Fatalf("expected submitted to lead, got %+v", record)
	}

	doJSON(t, client, http.MethodPost, fmt.Sprintf("%s/api/v1/kpis/%s/approve", ts.URL, created.ID), leadToken, map[string]any{}, &record)
	if record.Status != "under_review" || record.CurrentApproverID != ids["head@example.com"] {
		t.Fatalf("expected routing to head, got %+v", record)
	}

	doJSON(t, client, http.MethodPost, fmt.Sprintf("%s/api/v1/kpis/%s/approve", ts.URL, created.ID), headToken, map[string]any{}, &record)
	if record.Status != "under_review" || record.CurrentApproverID != ids["director@example.com"] {
		t.Fatalf("expected routing to director, got %+v", record)
	}

	doJSON(t, client, http.MethodPost, fmt.Sprintf("%s/api/v1/kpis/%s/approve", ts.URL, created.ID), directorToken, map[string]any{"notes": "well done"}, &record)
	if record.Status != "approved" {
		t.Fatalf("expected approved at top of chain, got %+v", record)
	}

	var history []struct {
		FromStatus string `json:"fromStatus"`
		ToStatus   string `json:"toStatus"`
	}
	doJSON(t, client, http.MethodGet, fmt.Sprintf("%s/api/v1/kpis/%s/history", ts.URL, created.ID), employeeToken, nil, &history)
	if len(history) != 4 {
		t.Fatalf("expected 4 history entries, got %d", len(history))
	}
	if history[0].ToStatus != "approved" {
		t.Fatalf("expected newest entry first, got %+v", history[0])
	}

	doJSON(t, client, http.MethodPost, fmt.Sprintf("%s/api/v1/kpis/%s/archive", ts.URL, created.ID), directorToken, map[string]any{}, &record)
	if record.Status != "archived" {
		t.Fatalf("expected archived, got %s", record.Status)
	}

	var summary struct {
		Counts map[string]int `json:"counts"`
	}
	doJSON(t, client, http.MethodGet, fmt.Sprintf("%s/api/v1/employees/%s/kpis/summary", ts.URL, ids["employee@example.com"]), employeeToken, nil, &summary)
	if summary.Counts["archived"] < 1 {
		t.Fatalf("expected at least one archived kpi, got %+v", summary.Counts)
	}
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any, out any) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(payload)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response from %s: %v", url, err)
	}
	if !env.Success {
		t.Fatalf("%s %s returned error: %v (status %d)", method, url, env.Error, resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data from %s: %v", url, err)
		}
	}
}
