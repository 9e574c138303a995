package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
)

// CreateSettlement persists a settlement, filling in ID, timestamps and
// status when unset.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	if settlement.SettledAt == 0 {
		settlement.SettledAt = settlement.CreatedAt
	}
	if settlement.Status == "" {
		settlement.Status = models.SettlementStatusSettled
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO settlements ("+settlementColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		settlement.ID, settlement.GroupID, settlement.FromUserID, settlement.ToUserID,
		settlement.Amount.String(), settlement.Status, settlement.CreatedAt, settlement.SettledAt,
		settlement.CreatedBy, nullableString(settlement.Note),
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

const settlementColumns = "id, group_id, from_user_id, to_user_id, amount, status, created_at, settled_at, created_by, note"

// ListSettlementsByGroup retrieves all settlements for a group, oldest first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE group_id = ? ORDER BY created_at, rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		st, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}

// scanSettlement reads one row selected with settlementColumns. The amount
// column is TEXT and scans straight into decimal.Decimal.
func scanSettlement(rows *sql.Rows) (*models.Settlement, error) {
	st := &models.Settlement{}
	var note sql.NullString
	err := rows.Scan(&st.ID, &st.GroupID, &st.FromUserID, &st.ToUserID,
		&st.Amount, &st.Status, &st.CreatedAt, &st.SettledAt, &st.CreatedBy, &note)
	if err != nil {
		return nil, fmt.Errorf("failed to scan settlement: %w", err)
	}
	st.Note = note.String
	return st, nil
}

// HasSettlements reports whether any settlement exists in the group.
func (s *SQLiteStore) HasSettlements(ctx context.Context, groupID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM settlements WHERE group_id = ?)",
		groupID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check settlements: %w", err)
	}
	return exists, nil
}
