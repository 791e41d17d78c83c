package hierarchy

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

func (s *Store) OrderedChain(ctx context.Context, employeeID string) ([]ChainEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT sequence_level, manager_id
    FROM approval_chains
    WHERE employee_id = $1
    ORDER BY sequence_level
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chain []ChainEntry
	for rows.Next() {
		var entry ChainEntry
		if err := rows.Scan(&entry.Level, &entry.ManagerID); err != nil {
			return nil, err
		}
		chain = append(chain, entry)
	}
	return chain, rows.Err()
}

func (s *Store) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM users WHERE id = $1
  `, userID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) IsOverride(ctx context.Context, userID string) (bool, error) {
	return overrideFromRow(s.DB.QueryRow(ctx, `
    SELECT COALESCE(is_override, false) FROM users WHERE id = $1
  `, userID))
}

// An absent row means a plain user; any other scan failure must propagate so
// an outage is not read as the override identity losing its flag.
func overrideFromRow(row pgx.Row) (bool, error) {
	var override bool
	err := row.Scan(&override)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return override, nil
}
