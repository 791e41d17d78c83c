package kpi

import "context"

// HistoryStore appends and reads the immutable transition ledger. Entries
// are keyed by a fresh UUID so concurrent appends across records need no
// coordination.
type HistoryStore struct {
	*Store
}

func NewHistoryStore(store *Store) *HistoryStore {
	return &HistoryStore{Store: store}
}

func (s *HistoryStore) Append(ctx context.Context, entry HistoryEntry) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO kpi_history (id, kpi_id, from_status, to_status, approver_id, notes, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, entry.ID, entry.KPIID, entry.FromStatus, entry.ToStatus, entry.ApproverID, entry.Notes, entry.CreatedAt)
	return err
}

func (s *HistoryStore) ListForKPI(ctx context.Context, kpiID string) ([]HistoryEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, kpi_id, from_status, to_status, approver_id, COALESCE(notes, ''), created_at
    FROM kpi_history
    WHERE kpi_id = $1
    ORDER BY created_at DESC
  `, kpiID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		if err := rows.Scan(&entry.ID, &entry.KPIID, &entry.FromStatus, &entry.ToStatus, &entry.ApproverID, &entry.Notes, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
