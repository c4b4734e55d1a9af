package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"finsight/internal/db"
	"finsight/internal/events"
	"finsight/internal/models"
	"finsight/internal/store"
	"finsight/internal/summary"
	"finsight/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type FinancialService struct {
	txRunner db.TxRunner
	users    UserReader
	records  FinancialStore
	audit    AuditStore
	cache    SummaryCache
	events   EventPublisher
}

func NewFinancialService(txRunner db.TxRunner, users UserReader, records FinancialStore, audit AuditStore, cache SummaryCache, events EventPublisher) *FinancialService {
	return &FinancialService{
		txRunner: txRunner,
		users:    users,
		records:  records,
		audit:    audit,
		cache:    cache,
		events:   events,
	}
}

// Create stores a new record for userID. Older records are kept; reads always
// see the newest one.
func (s *FinancialService) Create(ctx context.Context, userID string, record models.FinancialRecord) (models.FinancialRecord, error) {
	if err := validator.ValidateFinancialRecord(record); err != nil {
		return models.FinancialRecord{}, err
	}
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return models.FinancialRecord{}, err
	}
	record.ID = uuid.NewString()
	record.UserID = userID

	var saved models.FinancialRecord
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		saved, err = s.records.Create(ctx, tx, record)
		if err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"record_id": saved.ID,
			"net_worth": summary.NetWorth(saved).String(),
		})
		return s.audit.Log(ctx, tx, userID, "financial_record.create", "financial_record", saved.ID, string(data))
	})
	if err != nil {
		return models.FinancialRecord{}, fmt.Errorf("save financial record: %w", err)
	}

	if err := s.cache.Invalidate(ctx, userID); err != nil {
		log.Printf("financial: invalidate summary cache for user %s: %v", userID, err)
	}
	s.events.RecordCreated(events.RecordCreated{
		RecordID:  saved.ID,
		UserID:    userID,
		NetWorth:  summary.NetWorth(saved).String(),
		CreatedAt: saved.CreatedAt,
	})
	return saved, nil
}

func (s *FinancialService) Latest(ctx context.Context, userID string) (models.FinancialRecord, error) {
	record, err := s.records.GetLatestByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.FinancialRecord{}, ErrRecordNotFound
	}
	return record, err
}

func (s *FinancialService) Overview(ctx context.Context, userID string) (summary.Totals, error) {
	record, err := s.Latest(ctx, userID)
	if err != nil {
		return summary.Totals{}, err
	}
	return summary.Compute(record), nil
}

// Summary renders the newest record, reading through the summary cache.
// Cache entries are keyed to a record id, so an entry written from an older
// record is a miss once a newer one exists.
func (s *FinancialService) Summary(ctx context.Context, userID string) (string, error) {
	recordID, err := s.records.LatestIDByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrRecordNotFound
	}
	if err != nil {
		return "", err
	}
	if cached, ok := s.cache.GetSummary(ctx, userID, recordID); ok {
		return cached, nil
	}
	record, err := s.Latest(ctx, userID)
	if err != nil {
		return "", err
	}
	text := summary.Build(record)
	s.cache.SetSummary(ctx, userID, record.ID, text)
	return text, nil
}
