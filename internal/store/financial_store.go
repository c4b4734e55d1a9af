package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"finsight/internal/models"
)

// FinancialStore keeps each submitted record as one JSONB document.
type FinancialStore struct {
	db DB
}

func NewFinancialStore(db DB) *FinancialStore {
	return &FinancialStore{db: db}
}

type financialRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Data      []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
}

// Create inserts a new record. Earlier records for the same user are kept.
func (s *FinancialStore) Create(ctx context.Context, tx Getter, record models.FinancialRecord) (models.FinancialRecord, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return models.FinancialRecord{}, fmt.Errorf("encode financial record: %w", err)
	}
	var createdAt time.Time
	err = tx.GetContext(ctx, &createdAt, `
		INSERT INTO financial_records (id, user_id, data)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, record.ID, record.UserID, data)
	if err != nil {
		return models.FinancialRecord{}, err
	}
	record.CreatedAt = createdAt
	return record, nil
}

// latestOrder breaks created_at ties so both lookups agree on the newest record.
const latestOrder = `ORDER BY created_at DESC, id DESC LIMIT 1`

// GetLatestByUser returns the most recently created record for userID.
func (s *FinancialStore) GetLatestByUser(ctx context.Context, userID string) (models.FinancialRecord, error) {
	var row financialRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, data, created_at
		FROM financial_records
		WHERE user_id = $1
		`+latestOrder, userID)
	if err != nil {
		return models.FinancialRecord{}, notFound(err)
	}
	return row.record()
}

// LatestIDByUser returns only the id of the record GetLatestByUser would load.
func (s *FinancialStore) LatestIDByUser(ctx context.Context, userID string) (string, error) {
	var id string
	err := s.db.GetContext(ctx, &id, `
		SELECT id
		FROM financial_records
		WHERE user_id = $1
		`+latestOrder, userID)
	if err != nil {
		return "", notFound(err)
	}
	return id, nil
}

func (r financialRow) record() (models.FinancialRecord, error) {
	var record models.FinancialRecord
	if err := json.Unmarshal(r.Data, &record); err != nil {
		return models.FinancialRecord{}, fmt.Errorf("decode financial record %s: %w", r.ID, err)
	}
	record.ID = r.ID
	record.UserID = r.UserID
	record.CreatedAt = r.CreatedAt
	return record, nil
}
